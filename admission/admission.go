// Package admission implements the update-admission state machine (§4.7,
// C7): classifies an updater as trusted/untrusted and enforces monotonic
// package-time, minimum inter-write delay, and data-staleness TTL.
//
// Grounded on consensus/utxo_basic.go's ApplyNonCoinbaseTxBasic shape:
// validate every precondition against the current state before mutating
// anything, and return a typed error on the first violation (check-then-
// commit, never partial commit).
package admission

import (
	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

// StoredFeed is the persisted state for one feed (§3).
type StoredFeed struct {
	Value       protocol.Value
	WriteTime   protocol.TimestampMillis
	PackageTime protocol.TimestampMillis
}

// UpdaterClass is a tagged variant for the updater's trust classification
// (§9 design note: "model the updater's classification as a tagged variant
// rather than a boolean").
type UpdaterClass int

const (
	ClassUntrusted UpdaterClass = iota
	ClassTrusted
)

// ClassifyUpdater returns ClassTrusted iff updater is a member of
// trustedUpdaters.
func ClassifyUpdater(updater protocol.SignerAddress, trustedUpdaters map[protocol.SignerAddress]struct{}) UpdaterClass {
	if _, ok := trustedUpdaters[updater]; ok {
		return ClassTrusted
	}
	return ClassUntrusted
}

// VerifyUpdate runs the §4.7 decision function. stored is nil for the
// first write to a feed. On acceptance, the returned StoredFeed is the state
// the caller should commit; VerifyUpdate never mutates stored itself (admission
// checks occur before any commit, §7).
func VerifyUpdate(
	class UpdaterClass,
	stored *StoredFeed,
	now protocol.TimestampMillis,
	newValue protocol.Value,
	newPackageTime protocol.TimestampMillis,
	minInterUpdateMs protocol.TimestampMillis,
) (*StoredFeed, error) {
	if stored == nil {
		return &StoredFeed{Value: newValue, WriteTime: now, PackageTime: newPackageTime}, nil
	}

	if newPackageTime <= stored.PackageTime {
		return nil, rerr.New(rerr.CodeDataTimestampMustBeGreaterThanBefore,
			"new package_time %d must be greater than stored package_time %d", newPackageTime, stored.PackageTime)
	}

	effectiveMin := minInterUpdateMs
	if class == ClassTrusted {
		effectiveMin = 0
	}
	if uint64(stored.WriteTime)+uint64(effectiveMin) >= uint64(now) {
		return nil, rerr.New(rerr.CodeCurrentTimestampMustBeGreaterThanLatestUpdateTimestamp,
			"now %d must exceed stored write_time %d + min_inter_update_ms %d", now, stored.WriteTime, effectiveMin)
	}

	return &StoredFeed{Value: newValue, WriteTime: now, PackageTime: newPackageTime}, nil
}

// VerifyDataStaleness rejects a read with DataStaleness iff
// writeTime + dataTTL <= now (strict-less-than to remain fresh, §4.7
// read-side staleness / §4.10 first-class staleness operation).
func VerifyDataStaleness(writeTime protocol.TimestampMillis, now protocol.TimestampMillis, dataTTL protocol.TimestampMillis) error {
	if uint64(writeTime)+uint64(dataTTL) <= uint64(now) {
		return rerr.New(rerr.CodeDataStaleness, "write_time %d + ttl %d <= now %d", writeTime, dataTTL, now)
	}
	return nil
}
