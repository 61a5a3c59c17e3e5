package fecp2p

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/ezrasisk/fecp2p/fecp2p/fountain"
)

var (
	ErrManifestTooShort = errors.New("fecp2p: manifest truncated")
	ErrManifestMagic    = errors.New("fecp2p: invalid manifest magic")
)

const (
	// ManifestMagic identifies a serialized manifest.
	ManifestMagic = uint32(0x46503250) // "FP2P"

	// DigestSize is the BLAKE2b-256 digest length.
	DigestSize = 32

	manifestWireSize = 4 + fountain.ConfigWireSize + 4 + 4 + 1 + 8 + DigestSize
)

// Manifest is the out-of-band descriptor a receiver needs alongside the
// packet stream: the transform configuration, the record layout, whether
// the payload was compressed before encoding, and a digest of the
// original buffer for end-to-end integrity.
type Manifest struct {
	Config      fountain.Config
	RecordLen   uint32
	RecordCount uint32
	Compressed  bool
	// RawLen is the assembled buffer length before compression.
	RawLen uint64
	// Digest is the BLAKE2b-256 digest of the assembled buffer.
	Digest [DigestSize]byte
}

// BufferDigest computes the integrity digest carried in the manifest.
func BufferDigest(buf []byte) [DigestSize]byte {
	return blake2b.Sum256(buf)
}

// Verify checks a reconstructed (and, if applicable, decompressed)
// buffer against the manifest and re-chunks it into records. Any
// mismatch is an integrity fault: the transform promises byte-exact
// reconstruction, so a wrong length, digest, or record count means its
// contract was violated upstream.
func (m Manifest) Verify(buf []byte) ([][]byte, error) {
	if uint64(len(buf)) != m.RawLen {
		return nil, fmt.Errorf("%w: reconstructed %d bytes, manifest says %d",
			ErrIntegrityFault, len(buf), m.RawLen)
	}
	if BufferDigest(buf) != m.Digest {
		return nil, fmt.Errorf("%w: digest mismatch", ErrIntegrityFault)
	}
	records, err := SplitRecords(buf, int(m.RecordLen))
	if err != nil {
		return nil, err
	}
	if uint32(len(records)) != m.RecordCount {
		return nil, fmt.Errorf("%w: %d records, manifest says %d",
			ErrIntegrityFault, len(records), m.RecordCount)
	}
	return records, nil
}

// MarshalBinary serializes the manifest.
// Format:
//
//	4 bytes: magic
//	12 bytes: transform configuration
//	4 bytes: record length
//	4 bytes: record count
//	1 byte: compressed flag
//	8 bytes: raw buffer length
//	32 bytes: BLAKE2b-256 digest
func (m Manifest) MarshalBinary() ([]byte, error) {
	cfg, err := m.Config.MarshalBinary()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, manifestWireSize)
	offset := 0
	binary.BigEndian.PutUint32(buf[offset:], ManifestMagic)
	offset += 4
	copy(buf[offset:], cfg)
	offset += fountain.ConfigWireSize
	binary.BigEndian.PutUint32(buf[offset:], m.RecordLen)
	offset += 4
	binary.BigEndian.PutUint32(buf[offset:], m.RecordCount)
	offset += 4
	if m.Compressed {
		buf[offset] = 1
	}
	offset++
	binary.BigEndian.PutUint64(buf[offset:], m.RawLen)
	offset += 8
	copy(buf[offset:], m.Digest[:])
	return buf, nil
}

// UnmarshalManifest deserializes a manifest.
func UnmarshalManifest(data []byte) (Manifest, error) {
	if len(data) < manifestWireSize {
		return Manifest{}, ErrManifestTooShort
	}
	if binary.BigEndian.Uint32(data[:4]) != ManifestMagic {
		return Manifest{}, ErrManifestMagic
	}
	offset := 4
	cfg, err := fountain.UnmarshalConfig(data[offset : offset+fountain.ConfigWireSize])
	if err != nil {
		return Manifest{}, err
	}
	offset += fountain.ConfigWireSize

	m := Manifest{Config: cfg}
	m.RecordLen = binary.BigEndian.Uint32(data[offset:])
	offset += 4
	m.RecordCount = binary.BigEndian.Uint32(data[offset:])
	offset += 4
	m.Compressed = data[offset] == 1
	offset++
	m.RawLen = binary.BigEndian.Uint64(data[offset:])
	offset += 8
	copy(m.Digest[:], data[offset:offset+DigestSize])
	return m, nil
}
