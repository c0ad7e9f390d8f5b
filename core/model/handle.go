package model

import "sync/atomic"

// Handle publishes the model that serving paths read. Readers call Load once per
// request and keep using the pointer they got; Swap replaces it atomically, so a
// reader never observes a half-built model.
type Handle struct {
	current atomic.Pointer[FittedModel]
}

// NewHandle returns a handle publishing m (which may be nil).
func NewHandle(m *FittedModel) *Handle {
	h := &Handle{}
	if m != nil {
		h.current.Store(m)
	}
	return h
}

// Load returns the published model, or nil when none has been published.
func (h *Handle) Load() *FittedModel {
	return h.current.Load()
}

// Swap publishes m and returns the previously published model.
func (h *Handle) Swap(m *FittedModel) *FittedModel {
	return h.current.Swap(m)
}
