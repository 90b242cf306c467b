package extsort

import "encoding/binary"

// IndexEntry is the in-memory projection of one record used for sorting:
// the sort key, the byte offset of the record's header inside the mapped
// input, and the payload length. It owns no payload bytes.
type IndexEntry struct {
	Key    uint64
	Offset uint64
	Len    uint32
}

// IndexEntryWireSize is the size of an IndexEntry when serialized for a
// Transport that crosses a real network boundary, little-endian throughout.
const IndexEntryWireSize = 20

// EncodeIndexEntry serializes e into buf, which must be at least
// IndexEntryWireSize bytes.
func EncodeIndexEntry(e IndexEntry, buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], e.Key)
	binary.LittleEndian.PutUint64(buf[8:16], e.Offset)
	binary.LittleEndian.PutUint32(buf[16:20], e.Len)
}

// DecodeIndexEntry parses an IndexEntry from buf, which must be at least
// IndexEntryWireSize bytes.
func DecodeIndexEntry(buf []byte) IndexEntry {
	return IndexEntry{
		Key:    binary.LittleEndian.Uint64(buf[0:8]),
		Offset: binary.LittleEndian.Uint64(buf[8:16]),
		Len:    binary.LittleEndian.Uint32(buf[16:20]),
	}
}

// EncodeIndexEntries serializes a slice of entries into a freshly allocated
// buffer, for Transport implementations that hand raw bytes to a network
// write call.
func EncodeIndexEntries(entries []IndexEntry) []byte {
	buf := make([]byte, len(entries)*IndexEntryWireSize)
	for i, e := range entries {
		EncodeIndexEntry(e, buf[i*IndexEntryWireSize:])
	}
	return buf
}

// DecodeIndexEntries parses a byte slice produced by EncodeIndexEntries.
// buf's length must be a multiple of IndexEntryWireSize.
func DecodeIndexEntries(buf []byte) []IndexEntry {
	n := len(buf) / IndexEntryWireSize
	entries := make([]IndexEntry, n)
	for i := range entries {
		entries[i] = DecodeIndexEntry(buf[i*IndexEntryWireSize:])
	}
	return entries
}
