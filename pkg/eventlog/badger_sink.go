//go:build db
// +build db

package eventlog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/palaseus/adrenolend/pkg/types"
)

// Sink is a Badger-backed append-only event store. Keys are formatted
// "event:<asset>:<sequence padded to 20 digits>" so a prefix scan over an
// asset returns records in sequence order.
type Sink struct {
	mu  sync.Mutex
	db  *badger.DB
	seq map[types.AssetID]uint64
}

// NewSink opens (or creates) a Badger database at config.DataDir.
func NewSink(config *SinkConfig) (*Sink, error) {
	if config == nil {
		config = DefaultSinkConfig()
	}
	opts := badger.DefaultOptions(config.DataDir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to open database: %w", err)
	}
	return &Sink{db: db, seq: make(map[types.AssetID]uint64)}, nil
}

func eventKey(asset types.AssetID, seq uint64) []byte {
	return []byte(fmt.Sprintf("event:%s:%020d", asset, seq))
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

	record := Record{Asset: asset, Sequence: seq, Kind: kind, Payload: data, Timestamp: timestamp}
	recordData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("eventlog: failed to marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(asset, seq), recordData)
	})
}

// Records returns every record stored for asset, in sequence order.
func (s *Sink) Records(asset types.AssetID) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	prefix := []byte(fmt.Sprintf("event:%s:", asset))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to scan records: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	return s.db.Close()
}
