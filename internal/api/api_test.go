package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsintel/backend-go/internal/cache"
	"github.com/opsintel/backend-go/internal/config"
	"github.com/opsintel/backend-go/internal/forecast"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	archive, err := storage.NewArchive(config.ArchiveConfig{Enabled: false})
	require.NoError(t, err)

	return NewRouter(&Deps{
		Sessions:       session.NewManager(),
		KPICache:       cache.NewNoopKPICache(),
		Archive:        archive,
		Engine:         forecast.NewEngine(rand.New(rand.NewSource(1))),
		MaxUploadBytes: 1 << 20,
		ForecastDays:   30,
	}, nil)
}

func uploadCSV(t *testing.T, router *gin.Engine, kind, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/"+kind, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func salesCSV(days int) string {
	var b bytes.Buffer
	b.WriteString("date,revenue,product_id,quantity\n")
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		fmt.Fprintf(&b, "%s,%d,P-1,2\n", start.AddDate(0, 0, i).Format("2006-01-02"), 100+10*i)
	}
	return b.String()
}

func TestHealth(t *testing.T) {
	rec := get(newTestRouter(t), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadAndKPIs(t *testing.T) {
	router := newTestRouter(t)

	rec := uploadCSV(t, router, "sales", "sales.csv", salesCSV(10))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var upload struct {
		Kind string `json:"kind"`
		Rows int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.Equal(t, "sales", upload.Kind)
	assert.Equal(t, 10, upload.Rows)

	rec = get(router, "/api/v1/dashboard/kpis")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		Revenue *struct {
			TotalRevenue float64 `json:"total_revenue"`
		} `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotNil(t, snap.Revenue)
	// 100 + 110 + ... + 190.
	assert.InDelta(t, 1450.0, snap.Revenue.TotalRevenue, 1e-9)
}

func TestUploadErrors(t *testing.T) {
	router := newTestRouter(t)

	t.Run("unknown kind", func(t *testing.T) {
		rec := uploadCSV(t, router, "payroll", "x.csv", "date,revenue\n")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing columns", func(t *testing.T) {
		rec := uploadCSV(t, router, "sales", "x.csv", "day,total\n2025-01-01,10\n")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing required columns")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		rec := uploadCSV(t, router, "sales", "x.json", "{}")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/sales", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRevenueTrendEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusOK, uploadCSV(t, router, "sales", "sales.csv", salesCSV(10)).Code)

	t.Run("weekly", func(t *testing.T) {
		rec := get(router, "/api/v1/dashboard/revenue-trend?period=weekly")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Period string `json:"period"`
			Points []struct {
				Value float64 `json:"value"`
			} `json:"points"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "weekly", resp.Period)
		assert.NotEmpty(t, resp.Points)
	})

	t.Run("invalid period", func(t *testing.T) {
		rec := get(router, "/api/v1/dashboard/revenue-trend?period=hourly")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty without data", func(t *testing.T) {
		rec := get(newTestRouter(t), "/api/v1/dashboard/revenue-trend")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"points":[]`)
	})
}

func TestForecastEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusOK, uploadCSV(t, router, "sales", "sales.csv", salesCSV(10)).Code)

	t.Run("revenue forecast", func(t *testing.T) {
		rec := get(router, "/api/v1/forecast/revenue?horizon=5")
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Points []struct {
				Predicted float64 `json:"predicted"`
			} `json:"points"`
			Metrics struct {
				ModelKind string `json:"model_kind"`
			} `json:"metrics"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Points, 5)
		assert.Equal(t, "linear", result.Metrics.ModelKind)
		assert.InDelta(t, 200.0, result.Points[0].Predicted, 1e-6)
	})

	t.Run("too little data is unprocessable", func(t *testing.T) {
		short := newTestRouter(t)
		require.Equal(t, http.StatusOK, uploadCSV(t, short, "sales", "sales.csv", salesCSV(3)).Code)

		rec := get(short, "/api/v1/forecast/revenue")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid horizon", func(t *testing.T) {
		rec := get(router, "/api/v1/forecast/revenue?horizon=9000")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid model", func(t *testing.T) {
		rec := get(router, "/api/v1/forecast/revenue?model=cubic")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inventory requires both tables", func(t *testing.T) {
		rec := get(router, "/api/v1/forecast/inventory")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inventory projection", func(t *testing.T) {
		inv := "product_id,product_name,current_stock,reorder_level\nP-1,Widget,30,15\n"
		require.Equal(t, http.StatusOK, uploadCSV(t, router, "inventory", "inv.csv", inv).Code)

		rec := get(router, "/api/v1/forecast/inventory?horizon=30")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				ProductID      string  `json:"product_id"`
				DailyVelocity  float64 `json:"daily_velocity"`
				ReorderNeeded  bool    `json:"reorder_needed"`
				SuggestedOrder float64 `json:"suggested_order"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "P-1", resp.Items[0].ProductID)
		assert.InDelta(t, 2.0, resp.Items[0].DailyVelocity, 1e-9)
		assert.True(t, resp.Items[0].ReorderNeeded)
	})

	t.Run("summary", func(t *testing.T) {
		rec := get(router, "/api/v1/forecast/summary?horizon=10")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"revenue"`)
		assert.Contains(t, rec.Body.String(), `"inventory"`)
	})
}

func TestSessionIsolation(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(salesCSV(10)))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/sales", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Session-ID", "tenant-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// tenant-b sees an empty snapshot.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/kpis", nil)
	req.Header.Set("X-Session-ID", "tenant-b")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "total_revenue")
}

func TestExportSummary(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusOK, uploadCSV(t, router, "sales", "sales.csv", salesCSV(10)).Code)

	rec := get(router, "/api/v1/export/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		DataLoaded map[string]bool `json:"data_loaded"`
		Tables     map[string]struct {
			TotalRecords int    `json:"total_records"`
			DateRange    string `json:"date_range"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.DataLoaded["sales"])
	assert.Equal(t, 10, summary.Tables["sales"].TotalRecords)
	assert.Equal(t, "2025-01-01 to 2025-01-10", summary.Tables["sales"].DateRange)
}
