package extsort

import (
	"encoding/binary"

	sorterrors "github.com/tamirms/extsort/errors"
)

// RecordHeaderSize is the on-disk size of a record header: an 8-byte key
// followed by a 4-byte payload length. The payload itself follows
// immediately and is not touched by this module's binary layer — only its
// declared length matters for scanning and rewriting.
const RecordHeaderSize = 12

// minPayloadLen is the smallest maximum-payload value NewConfig accepts.
// Record scanning and GenerateInput do not enforce it.
const minPayloadLen = 8

// decodeRecordHeader parses a 12-byte record header from buf.
// buf must be at least RecordHeaderSize bytes.
func decodeRecordHeader(buf []byte) (key uint64, length uint32) {
	key = binary.LittleEndian.Uint64(buf[0:8])
	length = binary.LittleEndian.Uint32(buf[8:12])
	return key, length
}

// encodeRecordHeader serializes a record header into buf.
// buf must be at least RecordHeaderSize bytes.
func encodeRecordHeader(buf []byte, key uint64, length uint32) {
	binary.LittleEndian.PutUint64(buf[0:8], key)
	binary.LittleEndian.PutUint32(buf[8:12], length)
}

// readRecordHeaderAt parses the record header starting at offset within data,
// validating that both the header and its declared payload fit within data.
// recordIndex is used only to produce a diagnostic naming the offending record.
func readRecordHeaderAt(data []byte, offset uint64, recordIndex uint64) (key uint64, length uint32, err error) {
	if offset+RecordHeaderSize > uint64(len(data)) {
		return 0, 0, wrapRecordIndex(sorterrors.ErrTruncatedInput, recordIndex)
	}
	key, length = decodeRecordHeader(data[offset : offset+RecordHeaderSize])
	if offset+RecordHeaderSize+uint64(length) > uint64(len(data)) {
		return 0, 0, wrapRecordIndex(sorterrors.ErrRecordOverruns, recordIndex)
	}
	return key, length, nil
}
