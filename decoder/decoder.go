// Package decoder implements PayloadDecoder (§4.2): a bit-exact reverse
// parser of the RedStone wire format (§6.1), generalized from the teacher's
// forward parser shape (consensus/parse.go: ParseTxBytes/ParseBlockBytes —
// a sequence of per-field cursor reads assembled into a struct, with
// toIntLen-style overflow guards) but walking the buffer tail-to-head via
// wire.ReverseReader instead of head-to-tail via consensus/wire.go's cursor.
package decoder

import (
	"bytes"

	"redstone.dev/oracle/cryptoprovider"
	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
	"redstone.dev/oracle/wire"
)

// Decode parses raw into a Payload, recovering each package's signer via
// crypto. Packages and data points appear in the order encountered by the
// reverse walk (last-on-wire first), per §4.2's ordering note.
func Decode(crypto cryptoprovider.CryptoProvider, raw []byte) (protocol.Payload, error) {
	r := wire.NewReverseReader(raw)

	marker, err := r.ReadSlice(len(RedstoneMarker))
	if err != nil {
		return protocol.Payload{}, rerr.New(rerr.CodeWrongRedStoneMarker, "truncated marker")
	}
	if !bytes.Equal(marker, RedstoneMarker[:]) {
		return protocol.Payload{}, rerr.New(rerr.CodeWrongRedStoneMarker, "marker mismatch")
	}

	metadataSizeU, err := r.ReadUint(metadataSizeLen)
	if err != nil {
		return protocol.Payload{}, err
	}
	// Unsigned metadata bytes are opaque; no integrity check is performed
	// on them (§9 open question, resolved: ignore).
	if _, err := r.ReadSlice(int(metadataSizeU)); err != nil {
		return protocol.Payload{}, err
	}

	packageCountU, err := r.ReadUint(dataPackageCountLen)
	if err != nil {
		return protocol.Payload{}, err
	}
	if packageCountU < 1 || packageCountU > maxDataPackageCount {
		return protocol.Payload{}, rerr.New(rerr.CodeSizeNotSupported, "data_package_count=%d out of 1..=65535", packageCountU)
	}
	packageCount := int(packageCountU)

	packages := make([]protocol.DataPackage, 0, packageCount)
	for i := 0; i < packageCount; i++ {
		pkg, err := decodePackage(crypto, r)
		if err != nil {
			return protocol.Payload{}, err
		}
		packages = append(packages, pkg)
	}

	if r.RemainingLen() != 0 {
		return protocol.Payload{}, rerr.New(rerr.CodeNonEmptyPayloadRemainder, "%d bytes remain after decoding all packages", r.RemainingLen())
	}

	return protocol.Payload{DataPackages: packages}, nil
}

func decodePackage(crypto cryptoprovider.CryptoProvider, r *wire.ReverseReader) (protocol.DataPackage, error) {
	signature, err := r.ReadSlice(signatureLen)
	if err != nil {
		return protocol.DataPackage{}, err
	}
	// Copy: the decoder must not retain a reference into the input buffer
	// past this call (§5 memory discipline).
	signatureCopy := append([]byte(nil), signature...)

	cursorAfterSignableHead := r.Cursor()

	dataPointCountU, err := r.ReadUint(dataPointCountLen)
	if err != nil {
		return protocol.DataPackage{}, err
	}
	if dataPointCountU == 0 || dataPointCountU > maxDataPointCount {
		return protocol.DataPackage{}, rerr.New(rerr.CodeSizeNotSupported, "data_point_count=%d out of 1..=65535", dataPointCountU)
	}
	dataPointCount := int(dataPointCountU)

	valueSizeU, err := r.ReadUint(valueSizeLen)
	if err != nil {
		return protocol.DataPackage{}, err
	}
	if valueSizeU > maxValueSize {
		return protocol.DataPackage{}, rerr.New(rerr.CodeNumberOverflow, "value_size=%d exceeds 32 bytes", valueSizeU)
	}
	valueSize := int(valueSizeU)

	timestampU, err := r.ReadUint(packageTimestampLen)
	if err != nil {
		return protocol.DataPackage{}, err
	}

	signableSize := dataPointCount*(valueSize+32) + (dataPointCountLen + valueSizeLen + packageTimestampLen)

	resumeCursor := r.Cursor()
	r.SetCursor(cursorAfterSignableHead)
	signableRegion, err := r.ReadSlice(signableSize)
	if err != nil {
		return protocol.DataPackage{}, err
	}
	signableRegionCopy := append([]byte(nil), signableRegion...)
	r.SetCursor(resumeCursor)

	signer, err := crypto.RecoverAddress(signableRegionCopy, signatureCopy)
	if err != nil {
		return protocol.DataPackage{}, err
	}

	dataPoints := make([]protocol.DataPoint, 0, dataPointCount)
	for i := 0; i < dataPointCount; i++ {
		valueBytes, err := r.ReadValue(valueSize)
		if err != nil {
			return protocol.DataPackage{}, err
		}
		feedIDBytes, err := r.ReadFeedId(32)
		if err != nil {
			return protocol.DataPackage{}, err
		}
		dataPoints = append(dataPoints, protocol.DataPoint{
			FeedID: protocol.FeedId(feedIDBytes),
			Value:  protocol.Value(valueBytes),
		})
	}

	return protocol.DataPackage{
		Timestamp:  protocol.TimestampMillis(timestampU),
		Signer:     signer,
		DataPoints: dataPoints,
	}, nil
}
