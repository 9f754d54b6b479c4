/*
Package store persists the full application state as a single document under a fixed key.

Two backends implement the same contract: a JSON file on local disk (the
default) and a single-row Postgres document table. Both perform whole-document
replacement on save and self-heal corruption on load by reseeding the demo
data. Partial or merge writes do not exist at this layer.
*/
package store

import (
	"context"

	"dcg/internal/app/user"
)

// StorageKey is the fixed key the application document is stored under.
// It doubles as the file name stem for the file backend and the row key for
// the Postgres backend.
const StorageKey = "dcg_data_v1"

// Store is the persistence contract for the application document.
type Store interface {
	// Load reads and deserializes the stored document. When the document is
	// absent, the seeded default state is written and returned. When the
	// document exists but cannot be deserialized, it is replaced by the
	// default state (data loss is the accepted recovery policy) and the
	// corruption is logged, never surfaced.
	Load(ctx context.Context) (*user.State, error)

	// Save serializes the full aggregate and writes it under StorageKey,
	// replacing any prior value.
	Save(ctx context.Context, state *user.State) error

	// Close releases backend resources.
	Close()
}
