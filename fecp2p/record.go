package fecp2p

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidRecordLength = errors.New("fecp2p: record length must be positive")
	ErrEmptyBatch          = errors.New("fecp2p: batch has no records")
)

// Batch collects fixed-length records for delivery. Record identity is
// positional: record i occupies byte range [i*L, (i+1)*L) of the
// assembled buffer, which is what lets the receiving side re-chunk a
// reconstructed buffer back into records.
type Batch struct {
	recordLen int
	records   [][]byte
}

// NewBatch creates an empty batch of recordLen-byte records.
func NewBatch(recordLen int) (*Batch, error) {
	if recordLen <= 0 {
		return nil, ErrInvalidRecordLength
	}
	return &Batch{recordLen: recordLen}, nil
}

// RecordLen returns the fixed record length in bytes.
func (b *Batch) RecordLen() int { return b.recordLen }

// Len returns the number of records appended so far.
func (b *Batch) Len() int { return len(b.records) }

// Records returns the appended records in input order.
func (b *Batch) Records() [][]byte { return b.records }

// Append adds one record. The record is copied.
func (b *Batch) Append(rec []byte) error {
	if len(rec) != b.recordLen {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedRecord, len(rec), b.recordLen)
	}
	cp := make([]byte, b.recordLen)
	copy(cp, rec)
	b.records = append(b.records, cp)
	return nil
}

// AppendHex decodes a hex-encoded record and appends it.
func (b *Batch) AppendHex(s string) error {
	rec, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return b.Append(rec)
}

// Assemble concatenates all records into one contiguous buffer. The
// buffer length is always an exact multiple of the record length.
func (b *Batch) Assemble() ([]byte, error) {
	if len(b.records) == 0 {
		return nil, ErrEmptyBatch
	}
	buf := make([]byte, 0, len(b.records)*b.recordLen)
	for _, rec := range b.records {
		buf = append(buf, rec...)
	}
	return buf, nil
}

// SplitRecords re-chunks a reconstructed buffer into fixed-length
// records. A buffer whose length is not an exact multiple of recordLen
// cannot have come from a correct reconstruction, so the mismatch is
// reported as an integrity fault rather than silently truncated.
func SplitRecords(buf []byte, recordLen int) ([][]byte, error) {
	if recordLen <= 0 {
		return nil, ErrInvalidRecordLength
	}
	if len(buf) == 0 || len(buf)%recordLen != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte records",
			ErrIntegrityFault, len(buf), recordLen)
	}
	records := make([][]byte, 0, len(buf)/recordLen)
	for i := 0; i < len(buf); i += recordLen {
		records = append(records, buf[i:i+recordLen])
	}
	return records, nil
}
