// Package oracle is the external-interfaces glue (§6.2, C8): the public
// entry points process_payload, verify_update, and verify_data_staleness,
// wiring together the decoder, payload validation/aggregation, and
// admission state machine.
//
// Grounded on node/main.go's command dispatch shape: thin functions that
// validate inputs, call into the core packages in order, and return a
// plain result/error pair — no logging, no goroutines (§5).
package oracle

import (
	"redstone.dev/oracle/admission"
	"redstone.dev/oracle/config"
	"redstone.dev/oracle/cryptoprovider"
	"redstone.dev/oracle/decoder"
	"redstone.dev/oracle/payload"
	"redstone.dev/oracle/protocol"
)

// Environment is the optional structured-trace hook (§6.3): print has no
// semantic effect on any decision the core makes. msg is a func so callers
// can avoid building the string when tracing is disabled.
type Environment interface {
	Print(msg func() string)
}

// NoopEnvironment is the default Environment: it never prints, matching
// the teacher's no-op-by-default posture for non-production collaborators
// (crypto/devstd.go's DevStdCryptoProvider).
type NoopEnvironment struct{}

func (NoopEnvironment) Print(func() string) {}

// ProcessPayload is process_payload(config, bytes) (§6.2): decode, then
// validate timestamps and aggregate.
func ProcessPayload(crypto cryptoprovider.CryptoProvider, cfg *config.Config, raw []byte) (protocol.ValidatedPayload, error) {
	p, err := decoder.Decode(crypto, raw)
	if err != nil {
		return protocol.ValidatedPayload{}, err
	}
	return payload.Process(cfg, p)
}

// VerifyUpdate is verify_update(updater, trusted_updaters, stored, now,
// min_inter_update_ms) (§6.2). It returns the StoredFeed to commit on
// acceptance; callers are responsible for persisting it (e.g. via
// store.FeedStore.Put) — VerifyUpdate itself never mutates external state.
func VerifyUpdate(
	env Environment,
	updater protocol.SignerAddress,
	trustedUpdaters map[protocol.SignerAddress]struct{},
	stored *admission.StoredFeed,
	now protocol.TimestampMillis,
	newValue protocol.Value,
	newPackageTime protocol.TimestampMillis,
	minInterUpdateMs protocol.TimestampMillis,
) (*admission.StoredFeed, error) {
	class := admission.ClassifyUpdater(updater, trustedUpdaters)
	next, err := admission.VerifyUpdate(class, stored, now, newValue, newPackageTime, minInterUpdateMs)
	if env != nil {
		env.Print(func() string {
			if err != nil {
				return "verify_update rejected: " + err.Error()
			}
			return "verify_update accepted"
		})
	}
	return next, err
}

// VerifyDataStaleness is verify_data_staleness(write_time, now, data_ttl)
// (§6.2).
func VerifyDataStaleness(writeTime, now, dataTTL protocol.TimestampMillis) error {
	return admission.VerifyDataStaleness(writeTime, now, dataTTL)
}
