// Package aggregator implements the Aggregator (§4.5): a (feed x signer)
// matrix of optional values, per-feed minimum-signer thresholding, and the
// 256-bit median (median.go).
//
// The matrix is a flat slice indexed (f*signerCount + s) rather than nested
// maps or slices-of-slices, per the §9 design note ("avoids nested heap
// allocations and is cache-friendlier"), grounded on the teacher's flat
// working-copy-map accumulation in consensus/utxo_basic.go
// (ApplyNonCoinbaseTxBasic builds one flat map keyed by Outpoint and mutates
// it in a single pass).
package aggregator

import (
	"redstone.dev/oracle/config"
	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

// matrix is the flat (feed x signer) optional-value table described in §4.5
// step 1 and the §9 "matrix vs. flat indexing" note.
type matrix struct {
	signerCount int
	set         []bool
	values      []protocol.Value
}

func newMatrix(feedCount, signerCount int) *matrix {
	n := feedCount * signerCount
	return &matrix{signerCount: signerCount, set: make([]bool, n), values: make([]protocol.Value, n)}
}

func (m *matrix) index(feedIdx, signerIdx int) int { return feedIdx*m.signerCount + signerIdx }

func (m *matrix) get(feedIdx, signerIdx int) (protocol.Value, bool) {
	i := m.index(feedIdx, signerIdx)
	return m.values[i], m.set[i]
}

func (m *matrix) put(feedIdx, signerIdx int, v protocol.Value) {
	i := m.index(feedIdx, signerIdx)
	m.values[i] = v
	m.set[i] = true
}

// Aggregate maps (feed, signer) -> value from packages, enforces the
// per-feed minimum-signer threshold, and computes the median for every feed
// with enough distinct signers (§4.5).
func Aggregate(cfg *config.Config, packages []protocol.DataPackage) ([]protocol.FeedValue, error) {
	feedCount := cfg.FeedCount()
	signerCount := cfg.SignerCount()
	m := newMatrix(feedCount, signerCount)

	for _, pkg := range packages {
		signerIdx, ok := cfg.SignerIndex(pkg.Signer)
		if !ok {
			continue // unknown signer: package is silently ignored for aggregation.
		}
		for _, dp := range pkg.DataPoints {
			feedIdx, ok := cfg.FeedIndex(dp.FeedID)
			if !ok {
				continue // unknown feed: data point is silently ignored.
			}
			if dp.Value.IsZero() {
				continue // zero is the "absent" sentinel (§3).
			}
			if _, already := m.get(feedIdx, signerIdx); already {
				return nil, rerr.New(rerr.CodeReoccurringFeedID, "feed %q reported twice by signer %s", dp.FeedID.String(), pkg.Signer.String())
			}
			m.put(feedIdx, signerIdx, dp.Value)
		}
	}

	feedIDs := cfg.FeedIDs()
	threshold := int(cfg.SignerCountThreshold())
	var out []protocol.FeedValue
	for f := 0; f < feedCount; f++ {
		var collected []protocol.Value
		for s := 0; s < signerCount; s++ {
			if v, ok := m.get(f, s); ok {
				collected = append(collected, v)
			}
		}
		if len(collected) == 0 {
			continue // §4.5.1: empty -> no output for this feed, regardless of policy.
		}
		if len(collected) < threshold {
			if cfg.ThresholdPolicy() == config.PolicyStrict {
				return nil, rerr.New(rerr.CodeInsufficientSignerCount, "feed %q has %d signers, need %d", feedIDs[f].String(), len(collected), threshold)
			}
			continue // PolicySkip: feed omitted, not an error.
		}
		out = append(out, protocol.FeedValue{FeedID: feedIDs[f], Value: Median256(collected)})
	}
	return out, nil
}
