package config

import (
	"testing"

	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

func mustCode(t *testing.T, err error, code rerr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	if !rerr.Is(err, code) {
		t.Fatalf("got error %v, want code %s", err, code)
	}
}

func signer(b byte) protocol.SignerAddress {
	var s protocol.SignerAddress
	s[19] = b
	return s
}

func TestNew_Valid(t *testing.T) {
	signers := []protocol.SignerAddress{signer(1), signer(2), signer(3)}
	feeds := []protocol.FeedId{protocol.NewFeedId("ETH"), protocol.NewFeedId("BTC")}
	cfg, err := New(2, signers, feeds, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SignerCount() != 3 || cfg.FeedCount() != 2 {
		t.Fatalf("unexpected counts: signers=%d feeds=%d", cfg.SignerCount(), cfg.FeedCount())
	}
	if idx, ok := cfg.SignerIndex(signer(2)); !ok || idx != 1 {
		t.Fatalf("signer index = %d, %v", idx, ok)
	}
	if _, ok := cfg.SignerIndex(signer(99)); ok {
		t.Fatalf("expected unknown signer to miss")
	}
}

func TestNew_EmptyFeedIDs(t *testing.T) {
	_, err := New(1, []protocol.SignerAddress{signer(1)}, nil, 0)
	mustCode(t, err, rerr.CodeEmptyFeedIDs)
}

func TestNew_DuplicateFeedID(t *testing.T) {
	feeds := []protocol.FeedId{protocol.NewFeedId("ETH"), protocol.NewFeedId("ETH")}
	_, err := New(1, []protocol.SignerAddress{signer(1)}, feeds, 0)
	mustCode(t, err, rerr.CodeDuplicateFeedID)
}

func TestNew_EmptySigners(t *testing.T) {
	_, err := New(1, nil, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	mustCode(t, err, rerr.CodeEmptySigners)
}

func TestNew_TooManySigners(t *testing.T) {
	signers := make([]protocol.SignerAddress, 256)
	for i := range signers {
		signers[i] = signer(byte(i))
	}
	_, err := New(1, signers, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	mustCode(t, err, rerr.CodeTooManySigners)
}

func TestNew_ZeroSigner(t *testing.T) {
	_, err := New(1, []protocol.SignerAddress{{}}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	mustCode(t, err, rerr.CodeZeroSigner)
}

func TestNew_DuplicateSigner(t *testing.T) {
	_, err := New(1, []protocol.SignerAddress{signer(1), signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	mustCode(t, err, rerr.CodeDuplicateSigner)
}

func TestNew_ThresholdExceedsSigners(t *testing.T) {
	_, err := New(5, []protocol.SignerAddress{signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	mustCode(t, err, rerr.CodeThresholdExceedsSigners)
}

func TestNew_RestrictFeedIDAlphabetRejectsLowercase(t *testing.T) {
	feeds := []protocol.FeedId{protocol.NewFeedId("eth")}
	_, err := New(1, []protocol.SignerAddress{signer(1)}, feeds, 0, WithRestrictFeedIDAlphabet())
	mustCode(t, err, rerr.CodeFeedIDAlphabet)
}

func TestNew_RestrictFeedIDAlphabetAcceptsUppercase(t *testing.T) {
	feeds := []protocol.FeedId{protocol.NewFeedId("ETH")}
	_, err := New(1, []protocol.SignerAddress{signer(1)}, feeds, 0, WithRestrictFeedIDAlphabet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTimestamp_WithinWindow(t *testing.T) {
	cfg, err := New(1, []protocol.SignerAddress{signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 1_000_000,
		WithMaxPastMs(1000), WithMaxFutureMs(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateTimestamp(0, 1_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateTimestamp(0, 999_500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateTimestamp(0, 1_000_500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTimestamp_TooOld(t *testing.T) {
	cfg, err := New(1, []protocol.SignerAddress{signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 1_000_000,
		WithMaxPastMs(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustCode(t, cfg.ValidateTimestamp(0, 998_000), rerr.CodeTimestampTooOld)
}

func TestValidateTimestamp_TooFuture(t *testing.T) {
	cfg, err := New(1, []protocol.SignerAddress{signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 1_000_000,
		WithMaxFutureMs(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustCode(t, cfg.ValidateTimestamp(0, 1_002_000), rerr.CodeTimestampTooFuture)
}

func TestDefaultThresholdPolicyIsSkip(t *testing.T) {
	cfg, err := New(1, []protocol.SignerAddress{signer(1)}, []protocol.FeedId{protocol.NewFeedId("ETH")}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ThresholdPolicy() != PolicySkip {
		t.Fatalf("default policy = %v, want PolicySkip", cfg.ThresholdPolicy())
	}
}
