// Package store provides persistence for recorded subscripts.
package store

import "nickandperla.net/linedsl/internal/command"

// Store is the interface for subscript persistence.
type Store interface {
	// GetSubscript retrieves a subscript body by name. ok is false if not found.
	GetSubscript(name string) (body []command.Command, ok bool, err error)
	// PutSubscript stores a body by name, overwriting if it exists.
	PutSubscript(name string, body []command.Command) error
	// DeleteSubscript removes a subscript by name.
	DeleteSubscript(name string) error
	// ListSubscripts returns the stored names in sorted order.
	ListSubscripts() ([]string, error)
	// Close releases resources.
	Close() error
}

// MetadataStore extends Store with metadata operations.
type MetadataStore interface {
	Store
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}

var (
	_ MetadataStore = (*Memory)(nil)
	_ MetadataStore = (*SQLite)(nil)
)
