// Package payload implements the post-decode payload-level checks (§4.6,
// C6): every DataPackage in a Payload must share one validated timestamp,
// and aggregation (via aggregator.Aggregate) is only invoked once that
// timestamp is established.
//
// Grounded on consensus/validate.go's single-pass validate-then-assemble
// helpers (merkleRootTxIDs, txSums: iterate a decoded sequence once,
// failing fast on the first invariant violation, only then produce the
// aggregate result).
package payload

import (
	"redstone.dev/oracle/aggregator"
	"redstone.dev/oracle/config"
	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

// Validate checks §4.6's timestamp-uniqueness invariant and returns the
// single validated timestamp shared by every package.
func Validate(cfg *config.Config, p protocol.Payload) (protocol.TimestampMillis, error) {
	if len(p.DataPackages) == 0 {
		return 0, rerr.New(rerr.CodeArrayIsEmpty, "payload has no data packages")
	}

	ts := p.DataPackages[0].Timestamp
	if err := cfg.ValidateTimestamp(0, ts); err != nil {
		return 0, err
	}
	for i, pkg := range p.DataPackages[1:] {
		if pkg.Timestamp != ts {
			return 0, rerr.New(rerr.CodeTimestampDifferentThanOthers, "package %d timestamp %d differs from %d", i+1, pkg.Timestamp, ts)
		}
	}
	return ts, nil
}

// Process runs §4.6's timestamp validation followed by aggregation (§4.5),
// returning the fully validated payload (C6's output).
func Process(cfg *config.Config, p protocol.Payload) (protocol.ValidatedPayload, error) {
	ts, err := Validate(cfg, p)
	if err != nil {
		return protocol.ValidatedPayload{}, err
	}
	values, err := aggregator.Aggregate(cfg, p.DataPackages)
	if err != nil {
		return protocol.ValidatedPayload{}, err
	}
	return protocol.ValidatedPayload{Timestamp: ts, Values: values}, nil
}
