package graph

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oraclabs/trustscore/internal/kvstore"
)

// ErrUnavailable is returned when the graph snapshot cannot be read or
// parsed from the external store. Callers surface this as a 503; it is not
// wrapped with store-internal detail per the error handling design.
var ErrUnavailable = errors.New("graph: knowledge graph unavailable")

// Loader fetches the current graph snapshot from the shared KV store.
type Loader struct {
	store kvstore.Store
	key   string
}

// NewLoader builds a Loader reading the snapshot under key from store.
func NewLoader(store kvstore.Store, key string) *Loader {
	return &Loader{store: store, key: key}
}

// Load reads and parses the whole-graph snapshot. The read is atomic and
// opaque: there is no partial-read path.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil || !ok {
		return Snapshot{}, ErrUnavailable
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, ErrUnavailable
	}
	return snap, nil
}
