package decoder

// RedstoneMarker is the fixed 9-byte sentinel every payload ends with
// (§6.1). It plays the same structural role as the teacher's fixed-size
// trailer fields (consensus/tx.go block/tx framing), just at the opposite
// end of the buffer.
var RedstoneMarker = [9]byte{0x00, 0x00, 0x02, 0xED, 0x57, 0x01, 0x1E, 0x00, 0x00}

const (
	signatureLen        = 65
	dataPointCountLen   = 3
	valueSizeLen        = 4
	packageTimestampLen = 6
	metadataSizeLen     = 3
	dataPackageCountLen = 2

	maxDataPointCount = 65535
	maxDataPackageCount = 65535
	maxValueSize        = 32
)
