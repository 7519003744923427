// Package session holds the per-session dataset state. Tables are owned
// by the caller and passed explicitly into every engine call; nothing in
// the computation layer keeps ambient table state.
package session

import (
	"sync"

	"github.com/opsintel/backend-go/internal/domain"
)

// DefaultID is used when a client does not identify its session.
const DefaultID = "default"

// Context carries the datasets loaded by one user session. A new upload
// of a kind replaces the previous table wholesale. Version increases on
// every mutation and keys cached snapshots.
type Context struct {
	ID        string
	Sales     *domain.SalesTable
	Expenses  *domain.ExpenseTable
	Inventory *domain.InventoryTable
	Version   uint64
}

// SetSales replaces the sales table.
func (c *Context) SetSales(t *domain.SalesTable) {
	c.Sales = t
	c.Version++
}

// SetExpenses replaces the expense table.
func (c *Context) SetExpenses(t *domain.ExpenseTable) {
	c.Expenses = t
	c.Version++
}

// SetInventory replaces the inventory table.
func (c *Context) SetInventory(t *domain.InventoryTable) {
	c.Inventory = t
	c.Version++
}

// Loaded reports which dataset kinds are present.
func (c *Context) Loaded() map[string]bool {
	return map[string]bool{
		string(domain.KindSales):     c.Sales != nil,
		string(domain.KindExpenses):  c.Expenses != nil,
		string(domain.KindInventory): c.Inventory != nil,
	}
}

// Manager hands out session contexts by id. Uploads arrive sequentially
// per session; the lock only guards the session map itself.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Context
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Context)}
}

// Get returns the session for id, creating it on first use. An empty id
// maps to the default session.
func (m *Manager) Get(id string) *Context {
	if id == "" {
		id = DefaultID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, ok := m.sessions[id]
	if !ok {
		ctx = &Context{ID: id}
		m.sessions[id] = ctx
	}
	return ctx
}
