// Package eventlog implements the append-only event sink a pool controller
// writes through once one is attached: one record per Deposit, Withdraw,
// Borrow, Repay, Liquidation, ReserveInitialized, and InterestEvent, keyed
// by (asset, sequence). Claim-ledger Mint and Burn events are not written
// here. The concrete sink is selected by the 'db' build tag, keeping a
// database driver out of the default build.
package eventlog

import (
	"encoding/json"

	"github.com/palaseus/adrenolend/pkg/types"
)

// Record is a single persisted event: a sequence number scoped to its
// asset, the event kind tag, and the JSON-encoded payload.
type Record struct {
	Asset     types.AssetID
	Sequence  uint64
	Kind      string
	Payload   json.RawMessage
	Timestamp int64
}

// SinkConfig configures NewSink. The Sink's concrete type is selected by
// the 'db' build tag: the default build uses an in-memory sink suited to
// tests and local runs and ignores DataDir; building with '-tags db' links
// the Badger-backed sink, which stores its database under DataDir.
type SinkConfig struct {
	DataDir string
}

// DefaultSinkConfig returns the default sink configuration.
func DefaultSinkConfig() *SinkConfig {
	return &SinkConfig{DataDir: "./data/events"}
}
