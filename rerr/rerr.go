// Package rerr is the shared error taxonomy for the redstone core packages.
//
// It generalizes the teacher's ErrorCode/TxError pair (consensus/errors.go)
// into one taxonomy used across decoder, cryptoprovider, config, aggregator,
// payload, and admission: coarse-grained, stable string codes with optional
// free text, so host contracts can map codes to chain-specific revert values
// without string parsing.
package rerr

import "fmt"

// Code is a stable, coarse-grained error identifier.
type Code string

const (
	// FormatError — decoder/wire failures.
	CodeWrongRedStoneMarker     Code = "WrongRedStoneMarker"
	CodeNonEmptyPayloadRemainder Code = "NonEmptyPayloadRemainder"
	CodeSizeNotSupported        Code = "SizeNotSupported"
	CodeNumberOverflow          Code = "NumberOverflow"
	CodeUnexpectedBufferEnd     Code = "UnexpectedBufferEnd"

	// CryptoError — signature recovery failures.
	CodeInvalidSignatureLen Code = "InvalidSignatureLen"
	CodeSignature           Code = "Signature"
	CodeRecoveryByte        Code = "RecoveryByte"
	CodeRecoverPreHash      Code = "RecoverPreHash"

	// ConfigError — Config construction failures.
	CodeEmptyFeedIDs       Code = "EmptyFeedIDs"
	CodeDuplicateFeedID    Code = "DuplicateFeedID"
	CodeFeedIDAlphabet     Code = "FeedIDAlphabet"
	CodeEmptySigners       Code = "EmptySigners"
	CodeDuplicateSigner    Code = "DuplicateSigner"
	CodeZeroSigner         Code = "ZeroSigner"
	CodeTooManySigners     Code = "TooManySigners"
	CodeThresholdExceedsSigners Code = "ThresholdExceedsSigners"

	// AggregationError
	CodeReoccurringFeedID        Code = "ReoccurringFeedId"
	CodeInsufficientSignerCount Code = "InsufficientSignerCount"

	// TimeError
	CodeTimestampTooOld                                       Code = "TimestampTooOld"
	CodeTimestampTooFuture                                    Code = "TimestampTooFuture"
	CodeTimestampDifferentThanOthers                          Code = "TimestampDifferentThanOthers"
	CodeDataTimestampMustBeGreaterThanBefore                  Code = "DataTimestampMustBeGreaterThanBefore"
	CodeCurrentTimestampMustBeGreaterThanLatestUpdateTimestamp Code = "CurrentTimestampMustBeGreaterThanLatestUpdateTimestamp"
	CodeDataStaleness                                         Code = "DataStaleness"

	// Payload-level structural errors.
	CodeArrayIsEmpty Code = "ArrayIsEmpty"
)

// Error carries a stable Code plus optional diagnostic context.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New builds an *Error with the given code and formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error carrying code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
