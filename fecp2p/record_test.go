package fecp2p

import (
	"bytes"
	"errors"
	"testing"
)

func TestBatchAssemble(t *testing.T) {
	b, err := NewBatch(4)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}
	if err := b.Append([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.AppendHex("aabbccdd"); err != nil {
		t.Fatalf("AppendHex: %v", err)
	}

	buf, err := b.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{1, 2, 3, 4, 0xaa, 0xbb, 0xcc, 0xdd}
	if !bytes.Equal(buf, want) {
		t.Fatalf("assembled buffer mismatch: %x", buf)
	}
	if len(buf)%b.RecordLen() != 0 {
		t.Fatalf("buffer length %d is not a multiple of record length", len(buf))
	}
}

func TestBatchAppendCopies(t *testing.T) {
	b, _ := NewBatch(2)
	rec := []byte{1, 2}
	if err := b.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rec[0] = 9
	if b.Records()[0][0] != 1 {
		t.Fatalf("batch aliases caller memory")
	}
}

func TestBatchMalformedRecord(t *testing.T) {
	b, _ := NewBatch(32)

	if err := b.Append(make([]byte, 31)); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("short record: expected ErrMalformedRecord, got %v", err)
	}
	if err := b.AppendHex("zz"); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("bad hex: expected ErrMalformedRecord, got %v", err)
	}
	// 16 bytes of valid hex, wrong length.
	if err := b.AppendHex("00112233445566778899aabbccddeeff"); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("wrong-length hex: expected ErrMalformedRecord, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("malformed records must not be retained")
	}
}

func TestBatchInvalid(t *testing.T) {
	if _, err := NewBatch(0); err != ErrInvalidRecordLength {
		t.Fatalf("expected ErrInvalidRecordLength, got %v", err)
	}
	b, _ := NewBatch(4)
	if _, err := b.Assemble(); err != ErrEmptyBatch {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestSplitRecords(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6}
	records, err := SplitRecords(buf, 2)
	if err != nil {
		t.Fatalf("SplitRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !bytes.Equal(records[1], []byte{3, 4}) {
		t.Fatalf("record 1 mismatch: %v", records[1])
	}
}

func TestSplitRecordsIntegrityFault(t *testing.T) {
	if _, err := SplitRecords([]byte{1, 2, 3}, 2); !errors.Is(err, ErrIntegrityFault) {
		t.Fatalf("remainder: expected ErrIntegrityFault, got %v", err)
	}
	if _, err := SplitRecords(nil, 2); !errors.Is(err, ErrIntegrityFault) {
		t.Fatalf("empty buffer: expected ErrIntegrityFault, got %v", err)
	}
	if _, err := SplitRecords([]byte{1, 2}, 0); err != ErrInvalidRecordLength {
		t.Fatalf("expected ErrInvalidRecordLength, got %v", err)
	}
}
