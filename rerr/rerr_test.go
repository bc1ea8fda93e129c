package rerr

import (
	"errors"
	"testing"
)

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(CodeSignature, "r=%d", 7)
	if got, want := err.Error(), "Signature: r=7"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestError_FormatsBareCodeWhenMessageEmpty(t *testing.T) {
	err := New(CodeArrayIsEmpty, "")
	if got, want := err.Error(), "ArrayIsEmpty"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := New(CodeDataStaleness, "stale")
	if !Is(err, CodeDataStaleness) {
		t.Fatalf("expected Is to match")
	}
	if Is(err, CodeSignature) {
		t.Fatalf("expected Is to not match a different code")
	}
}

func TestIs_NonRerrError(t *testing.T) {
	if Is(nil, CodeSignature) {
		t.Fatalf("expected nil error to never match")
	}
	if Is(errors.New("Signature"), CodeSignature) {
		t.Fatalf("expected a non-rerr error to never match")
	}
}
