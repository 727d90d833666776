//go:build !db
// +build !db

package eventlog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/palaseus/adrenolend/pkg/types"
)

// Sink is an in-memory append-only event store, the default build of the
// event log (no 'db' tag). It keeps the same API as the Badger-backed
// variant so callers are unaffected by the build tag.
type Sink struct {
	mu      sync.Mutex
	records map[types.AssetID][]Record
	seq     map[types.AssetID]uint64
}

// NewSink constructs an empty in-memory sink. config is accepted for API
// parity with the Badger-backed variant and otherwise unused.
func NewSink(config *SinkConfig) (*Sink, error) {
	return &Sink{
		records: make(map[types.AssetID][]Record),
		seq:     make(map[types.AssetID]uint64),
	}, nil
}

// Append writes a new record for asset, assigning it the next sequence
// number for that asset.
func (s *Sink) Append(asset types.AssetID, kind string, payload interface{}, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("eventlog: failed to marshal payload: %w", err)
	}
	seq := s.seq[asset] + 1
	s.seq[asset] = seq

	s.records[asset] = append(s.records[asset], Record{
		Asset: asset, Sequence: seq, Kind: kind, Payload: data, Timestamp: timestamp,
	})
	return nil
}

// Records returns every record stored for asset, in sequence order.
func (s *Sink) Records(asset types.AssetID) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records[asset]))
	copy(out, s.records[asset])
	return out, nil
}

// Close is a no-op for the in-memory sink.
func (s *Sink) Close() error { return nil }
