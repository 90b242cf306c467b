package extsort

import "fmt"

// wrapRecordIndex annotates a format-violation sentinel with the offending
// record index, so format violations point at the exact bad record.
func wrapRecordIndex(err error, recordIndex uint64) error {
	return fmt.Errorf("record %d: %w", recordIndex, err)
}
