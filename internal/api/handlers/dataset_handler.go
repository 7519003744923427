package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/opsintel/backend-go/internal/dataset"
	"github.com/opsintel/backend-go/internal/domain"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/storage"
)

// DatasetHandler accepts uploads and loads validated tables into the
// caller's session.
type DatasetHandler struct {
	sessions *session.Manager
	archive  *storage.Archive
	maxBytes int64
}

func NewDatasetHandler(sessions *session.Manager, archive *storage.Archive, maxBytes int64) *DatasetHandler {
	return &DatasetHandler{sessions: sessions, archive: archive, maxBytes: maxBytes}
}

// Upload handles POST /datasets/:kind with a multipart "file" field.
// The validated table replaces the session's previous table of that kind.
func (h *DatasetHandler) Upload(c *gin.Context) {
	kind := domain.DatasetKind(c.Param("kind"))
	switch kind {
	case domain.KindSales, domain.KindExpenses, domain.KindInventory:
	default:
		errorResponse(c, http.StatusBadRequest, "unknown dataset kind: "+c.Param("kind"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing file field: "+err.Error())
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		errorResponse(c, http.StatusRequestEntityTooLarge, "uploaded file exceeds size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "failed to open upload: "+err.Error())
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	raw, err := dataset.ReadBytes(payload, fileHeader.Filename)
	if err != nil {
		errorResponse(c, validationStatus(err), err.Error())
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))

	var rows int
	switch kind {
	case domain.KindSales:
		table, err := dataset.ValidateSales(raw)
		if err != nil {
			errorResponse(c, validationStatus(err), err.Error())
			return
		}
		sess.SetSales(table)
		rows = table.Len()
	case domain.KindExpenses:
		table, err := dataset.ValidateExpenses(raw)
		if err != nil {
			errorResponse(c, validationStatus(err), err.Error())
			return
		}
		sess.SetExpenses(table)
		rows = table.Len()
	case domain.KindInventory:
		table, err := dataset.ValidateInventory(raw)
		if err != nil {
			errorResponse(c, validationStatus(err), err.Error())
			return
		}
		sess.SetInventory(table)
		rows = table.Len()
	}

	// Archiving is best-effort; a storage failure never fails the upload.
	key, err := h.archive.Store(kind, fileHeader.Filename, payload)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to archive upload")
		key = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":        kind,
		"rows":        rows,
		"archive_key": key,
	})
}

// validationStatus maps the validation error taxonomy onto HTTP codes.
func validationStatus(err error) int {
	var (
		schemaErr      *domain.SchemaError
		formatErr      *domain.FormatError
		unsupportedErr *domain.UnsupportedInputError
	)
	if errors.As(err, &schemaErr) || errors.As(err, &formatErr) || errors.As(err, &unsupportedErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
