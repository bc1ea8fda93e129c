// Package protocol holds the wire-level value types shared by the decoder,
// aggregator, payload, and admission packages: FeedId, SignerAddress, Value,
// DataPoint, DataPackage, Payload, FeedValue, and ValidatedPayload.
//
// Fixed-width fields are modeled as fixed arrays, mirroring the teacher's
// convention for hashes and addresses (consensus/tx.go: BlockHeader.PrevBlockHash
// [32]byte, TxInput.PrevTxid [32]byte).
package protocol

import (
	"bytes"
	"strings"
)

// FeedId is a 32-byte identifier: an ASCII short name left-aligned and
// right-zero-padded (e.g. "ETH" -> 0x455448 followed by zeros).
type FeedId [32]byte

// NewFeedId builds a FeedId from a short ASCII name, right-zero-padding to
// 32 bytes. It does not validate the character set; the restricted
// alphabet check, when enabled, happens at config.New.
func NewFeedId(name string) FeedId {
	var f FeedId
	copy(f[:], name)
	return f
}

// String trims trailing zero bytes and returns the ASCII name.
func (f FeedId) String() string {
	return strings.TrimRight(string(f[:]), "\x00")
}

// Equal compares two feed ids byte-exact after trimming trailing zeros on
// both sides (this is a no-op for two already-normalized FeedId values, but
// keeps comparison correct for values built by truncated textual input).
func (f FeedId) Equal(other FeedId) bool {
	return bytes.Equal(bytes.TrimRight(f[:], "\x00"), bytes.TrimRight(other[:], "\x00"))
}

// SignerAddress is a 20-byte Ethereum-style address.
type SignerAddress [20]byte

// String renders the address as lowercase 0x-prefixed hex, the normalized
// textual form referenced by the data model (§3: "normalized lowercase when
// textual").
func (a SignerAddress) String() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, 2+len(a)*2)
	out[0], out[1] = '0', 'x'
	for i, b := range a {
		out[2+i*2] = hextable[b>>4]
		out[2+i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

// Value is a 256-bit big-endian unsigned integer. Zero is reserved as
// "absent" during aggregation (§3, §4.5).
type Value [32]byte

// IsZero reports whether v represents the "absent" sentinel.
func (v Value) IsZero() bool {
	return v == Value{}
}

// TimestampMillis is milliseconds since the Unix epoch, totally ordered.
type TimestampMillis uint64

// DataPoint is a single (FeedId, Value) pair inside a package.
type DataPoint struct {
	FeedID FeedId
	Value  Value
}

// DataPackage is a timestamped set of data points signed by one signer.
// Length must be in 1..=65535 data points (enforced by the decoder).
type DataPackage struct {
	Timestamp  TimestampMillis
	Signer     SignerAddress
	DataPoints []DataPoint
}

// Payload is an ordered sequence of data packages, length 1..=65535
// (enforced by the decoder).
type Payload struct {
	DataPackages []DataPackage
}

// FeedValue is the aggregator's output for one feed.
type FeedValue struct {
	FeedID FeedId
	Value  Value
}

// ValidatedPayload is the fully decoded, authenticated, and aggregated
// result: a single trusted timestamp plus the aggregated feed values.
type ValidatedPayload struct {
	Timestamp TimestampMillis
	Values    []FeedValue
}
