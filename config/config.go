// Package config implements Config & Validator (§4.4): construction-time
// validation of the signer set, feed-id set, and timestamp bounds, plus
// index lookups used by the decoder/aggregator.
//
// Grounded on the teacher's constructor-time validation style
// (consensus/block_basic.go: validation performed once at construction,
// immutable afterward) and consensus/validate.go's bounds-check shape.
package config

import (
	"regexp"

	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

// ThresholdPolicy resolves the §9/§4.5 open question: whether a feed with
// fewer than threshold signers is silently skipped or treated as an error.
// Two variants coexist in the original source; this repository models the
// choice as an explicit tagged variant per the §9 design note rather than a
// boolean, and defaults to PolicySkip (see SPEC_FULL.md §4.10).
type ThresholdPolicy int

const (
	// PolicySkip silently omits a feed's aggregated value when fewer than
	// threshold signers reported it.
	PolicySkip ThresholdPolicy = iota
	// PolicyStrict fails the whole aggregation with InsufficientSignerCount
	// when any feed reported by at least one signer falls below threshold.
	// A feed with no reported values is omitted under either policy.
	PolicyStrict
)

// defaults from §3/§6.4.
const (
	DefaultMaxPastMs   protocol.TimestampMillis = 900_000
	DefaultMaxFutureMs protocol.TimestampMillis = 180_000
)

var feedIDAlphabet = regexp.MustCompile(`^[0-9A-Z]*$`)

// Config holds the signer set, feed-id set, block timestamp, and tolerance
// windows. It is immutable post-construction (§3 invariant).
type Config struct {
	signerCountThreshold uint8
	signers              []protocol.SignerAddress
	signerIndex          map[protocol.SignerAddress]int
	feedIDs              []protocol.FeedId
	feedIndex            map[protocol.FeedId]int

	blockTimestamp protocol.TimestampMillis
	maxPastMs      protocol.TimestampMillis
	maxFutureMs    protocol.TimestampMillis

	thresholdPolicy        ThresholdPolicy
	restrictFeedIDAlphabet bool
}

// Option configures optional Config fields at construction time.
type Option func(*Config)

// WithMaxPastMs overrides the default max-past tolerance window.
func WithMaxPastMs(ms protocol.TimestampMillis) Option {
	return func(c *Config) { c.maxPastMs = ms }
}

// WithMaxFutureMs overrides the default max-future tolerance window.
func WithMaxFutureMs(ms protocol.TimestampMillis) Option {
	return func(c *Config) { c.maxFutureMs = ms }
}

// WithThresholdPolicy selects skip vs. strict threshold handling (§4.10).
func WithThresholdPolicy(p ThresholdPolicy) Option {
	return func(c *Config) { c.thresholdPolicy = p }
}

// WithRestrictFeedIDAlphabet opts into the restricted feed-id character set
// ([0-9A-Z]) instead of the permissive default (§9, §4.10).
func WithRestrictFeedIDAlphabet() Option {
	return func(c *Config) { c.restrictFeedIDAlphabet = true }
}

// New validates and constructs a Config (§3/§4.4 construction invariants).
func New(signerCountThreshold uint8, signers []protocol.SignerAddress, feedIDs []protocol.FeedId, blockTimestamp protocol.TimestampMillis, opts ...Option) (*Config, error) {
	if len(feedIDs) == 0 {
		return nil, rerr.New(rerr.CodeEmptyFeedIDs, "feed_ids must be non-empty")
	}
	feedIndex := make(map[protocol.FeedId]int, len(feedIDs))
	for i, id := range feedIDs {
		if _, dup := feedIndex[id]; dup {
			return nil, rerr.New(rerr.CodeDuplicateFeedID, "duplicate feed id %q", id.String())
		}
		feedIndex[id] = i
	}

	if len(signers) == 0 {
		return nil, rerr.New(rerr.CodeEmptySigners, "signers must be non-empty")
	}
	if len(signers) > 255 {
		return nil, rerr.New(rerr.CodeTooManySigners, "signers length %d exceeds 255", len(signers))
	}
	signerIndex := make(map[protocol.SignerAddress]int, len(signers))
	for i, s := range signers {
		if s == (protocol.SignerAddress{}) {
			return nil, rerr.New(rerr.CodeZeroSigner, "signer at index %d is the zero address", i)
		}
		if _, dup := signerIndex[s]; dup {
			return nil, rerr.New(rerr.CodeDuplicateSigner, "duplicate signer %s", s.String())
		}
		signerIndex[s] = i
	}

	if int(signerCountThreshold) > len(signers) {
		return nil, rerr.New(rerr.CodeThresholdExceedsSigners, "threshold %d exceeds %d signers", signerCountThreshold, len(signers))
	}

	c := &Config{
		signerCountThreshold: signerCountThreshold,
		signers:              append([]protocol.SignerAddress(nil), signers...),
		signerIndex:          signerIndex,
		feedIDs:              append([]protocol.FeedId(nil), feedIDs...),
		feedIndex:            feedIndex,
		blockTimestamp:       blockTimestamp,
		maxPastMs:            DefaultMaxPastMs,
		maxFutureMs:          DefaultMaxFutureMs,
		thresholdPolicy:      PolicySkip,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.restrictFeedIDAlphabet {
		for _, id := range c.feedIDs {
			if !feedIDAlphabet.MatchString(id.String()) {
				return nil, rerr.New(rerr.CodeFeedIDAlphabet, "feed id %q violates restricted alphabet [0-9A-Z]", id.String())
			}
		}
	}

	return c, nil
}

// SignerCountThreshold returns the minimum number of distinct authorized
// signers required to validate one feed's aggregated value.
func (c *Config) SignerCountThreshold() uint8 { return c.signerCountThreshold }

// Signers returns the configured signer set in construction order.
func (c *Config) Signers() []protocol.SignerAddress {
	return append([]protocol.SignerAddress(nil), c.signers...)
}

// FeedIDs returns the configured feed-id set in construction order.
func (c *Config) FeedIDs() []protocol.FeedId {
	return append([]protocol.FeedId(nil), c.feedIDs...)
}

// ThresholdPolicy reports the configured skip/strict threshold behavior.
func (c *Config) ThresholdPolicy() ThresholdPolicy { return c.thresholdPolicy }

// BlockTimestamp returns the reference timestamp for freshness validation.
func (c *Config) BlockTimestamp() protocol.TimestampMillis { return c.blockTimestamp }

// FeedIndex returns the configured index of feedID, or (-1, false) when
// unknown.
func (c *Config) FeedIndex(feedID protocol.FeedId) (int, bool) {
	idx, ok := c.feedIndex[feedID]
	if !ok {
		return -1, false
	}
	return idx, true
}

// SignerIndex returns the configured index of signer, or (-1, false) when
// unknown.
func (c *Config) SignerIndex(signer protocol.SignerAddress) (int, bool) {
	idx, ok := c.signerIndex[signer]
	if !ok {
		return -1, false
	}
	return idx, true
}

// FeedCount returns the number of configured feeds.
func (c *Config) FeedCount() int { return len(c.feedIDs) }

// SignerCount returns the number of configured signers.
func (c *Config) SignerCount() int { return len(c.signers) }

// ValidateTimestamp accepts ts iff ts + maxPastMs >= blockTimestamp and
// ts <= blockTimestamp + maxFutureMs (§4.4). index is carried in the error
// for diagnostics only.
func (c *Config) ValidateTimestamp(index int, ts protocol.TimestampMillis) error {
	if uint64(ts)+uint64(c.maxPastMs) < uint64(c.blockTimestamp) {
		return rerr.New(rerr.CodeTimestampTooOld, "package %d timestamp %d older than block %d - %d", index, ts, c.blockTimestamp, c.maxPastMs)
	}
	if uint64(ts) > uint64(c.blockTimestamp)+uint64(c.maxFutureMs) {
		return rerr.New(rerr.CodeTimestampTooFuture, "package %d timestamp %d newer than block %d + %d", index, ts, c.blockTimestamp, c.maxFutureMs)
	}
	return nil
}
