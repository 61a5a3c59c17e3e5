package fountain

import (
	"bytes"
	"math/rand"
	"testing"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestEncodeDecodeNoLoss(t *testing.T) {
	data := testData(96) // three 32-byte records
	enc, err := NewEncoder(data, 128)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	packets, err := enc.EncodedPackets(10)
	if err != nil {
		t.Fatalf("EncodedPackets: %v", err)
	}
	// 96 bytes at symbol size 128 is a single symbol in a single block.
	if len(packets) != 1+10 {
		t.Fatalf("expected 11 packets, got %d", len(packets))
	}

	dec, err := NewDecoder(enc.Config())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	out, done, err := dec.Decode(packets[0])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !done {
		t.Fatalf("single source symbol should complete the transfer")
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("reconstructed buffer does not match original")
	}
}

func TestDecodeFromRepairOnly(t *testing.T) {
	data := testData(1000) // 8 symbols at size 128
	enc, err := NewEncoder(data, 128)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if got := enc.Config().NumSymbols(); got != 8 {
		t.Fatalf("expected 8 symbols, got %d", got)
	}

	repair, err := enc.RepairPackets(8)
	if err != nil {
		t.Fatalf("RepairPackets: %v", err)
	}

	dec, _ := NewDecoder(enc.Config())
	var out []byte
	var done bool
	for _, p := range repair {
		out, done, err = dec.Decode(p)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
	}
	if !done {
		t.Fatalf("8 repair symbols should recover 8 source symbols")
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("reconstructed buffer does not match original")
	}
}

func TestDecodeOrderIndependent(t *testing.T) {
	data := testData(4096)
	enc, err := NewEncoder(data, 64) // 64 symbols
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	packets, err := enc.EncodedPackets(16)
	if err != nil {
		t.Fatalf("EncodedPackets: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]Packet, len(packets))
		copy(shuffled, packets)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// Drop 16 packets; any 64 of the 80 suffice.
		shuffled = shuffled[:len(shuffled)-16]

		dec, _ := NewDecoder(enc.Config())
		var out []byte
		var done bool
		for _, p := range shuffled {
			out, done, err = dec.Decode(p)
			if err != nil {
				t.Fatalf("trial %d: Decode: %v", trial, err)
			}
			if done {
				break
			}
		}
		if !done {
			t.Fatalf("trial %d: decode did not complete", trial)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("trial %d: reconstructed buffer does not match", trial)
		}
	}
}

func TestDecodeNeverFalseSucceeds(t *testing.T) {
	data := testData(1024) // 8 symbols at size 128
	enc, err := NewEncoder(data, 128)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	packets, err := enc.EncodedPackets(4)
	if err != nil {
		t.Fatalf("EncodedPackets: %v", err)
	}

	dec, _ := NewDecoder(enc.Config())
	// Fewer packets than source symbols can never complete.
	for _, p := range packets[:7] {
		_, done, err := dec.Decode(p)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if done {
			t.Fatalf("decoder reported success with insufficient symbols")
		}
	}
}

func TestMultiBlockPartitioning(t *testing.T) {
	// 300 symbols of 16 bytes force 3 blocks of 100 symbols each.
	data := testData(300 * 16)
	enc, err := NewEncoder(data, 16)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	cfg := enc.Config()
	if cfg.NumBlocks != 3 {
		t.Fatalf("expected 3 blocks, got %d", cfg.NumBlocks)
	}

	total := 0
	for b := 0; b < int(cfg.NumBlocks); b++ {
		start, count := cfg.blockSpan(b)
		if start != total {
			t.Fatalf("block %d: start %d, want %d", b, start, total)
		}
		total += count
	}
	if total != cfg.NumSymbols() {
		t.Fatalf("block spans cover %d symbols, want %d", total, cfg.NumSymbols())
	}

	packets, err := enc.EncodedPackets(5)
	if err != nil {
		t.Fatalf("EncodedPackets: %v", err)
	}
	if len(packets) != 300+3*5 {
		t.Fatalf("unexpected stream length %d", len(packets))
	}
	for i, p := range packets {
		if got, want := p.IsRepair(cfg), i >= 300; got != want {
			t.Fatalf("packet %d: IsRepair = %v, want %v", i, got, want)
		}
	}

	dec, _ := NewDecoder(cfg)
	var out []byte
	var done bool
	for _, p := range packets {
		out, done, err = dec.Decode(p)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if done {
			break
		}
	}
	if !done || !bytes.Equal(out, data) {
		t.Fatalf("multi-block round trip failed")
	}
}

func TestEncoderRejectsBadInput(t *testing.T) {
	if _, err := NewEncoder(nil, 128); err != ErrEmptyData {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
	if _, err := NewEncoder([]byte{1}, 0); err != ErrInvalidSymbolSize {
		t.Fatalf("expected ErrInvalidSymbolSize, got %v", err)
	}
	enc, err := NewEncoder(testData(64), 16)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.RepairPackets(MaxRepairPerBlock + 1); err != ErrRepairLimit {
		t.Fatalf("expected ErrRepairLimit, got %v", err)
	}
}

func TestDecoderRejectsBadPackets(t *testing.T) {
	enc, err := NewEncoder(testData(256), 32)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	dec, _ := NewDecoder(enc.Config())

	if _, _, err := dec.Decode(Packet{SBN: 9, ESI: 0, Data: make([]byte, 32)}); err != ErrUnknownBlock {
		t.Fatalf("expected ErrUnknownBlock, got %v", err)
	}
	if _, _, err := dec.Decode(Packet{SBN: 0, ESI: 0, Data: make([]byte, 31)}); err != ErrSymbolSizeMismatch {
		t.Fatalf("expected ErrSymbolSizeMismatch, got %v", err)
	}
	if _, _, err := dec.Decode(Packet{SBN: 0, ESI: 100000, Data: make([]byte, 32)}); err != ErrSymbolIndexRange {
		t.Fatalf("expected ErrSymbolIndexRange, got %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	enc, err := NewEncoder(testData(5000), 64)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	cfg := enc.Config()

	wire, err := cfg.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(wire) != ConfigWireSize {
		t.Fatalf("unexpected wire size %d", len(wire))
	}

	back, err := UnmarshalConfig(wire)
	if err != nil {
		t.Fatalf("UnmarshalConfig: %v", err)
	}
	if back != cfg {
		t.Fatalf("config round trip mismatch: %+v != %+v", back, cfg)
	}

	if _, err := UnmarshalConfig(wire[:5]); err != ErrConfigSize {
		t.Fatalf("expected ErrConfigSize, got %v", err)
	}
	wire[8], wire[9] = 0, 0 // zero symbol size
	if _, err := UnmarshalConfig(wire); err == nil {
		t.Fatalf("expected validation error for corrupt config")
	}
}

func TestPacketRoundTrip(t *testing.T) {
	p := Packet{SBN: 3, ESI: 70000, Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	wire, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	back, err := UnmarshalPacket(wire)
	if err != nil {
		t.Fatalf("UnmarshalPacket: %v", err)
	}
	if back.SBN != p.SBN || back.ESI != p.ESI || !bytes.Equal(back.Data, p.Data) {
		t.Fatalf("packet round trip mismatch")
	}

	if _, err := UnmarshalPacket(wire[:3]); err != ErrPacketTooShort {
		t.Fatalf("expected ErrPacketTooShort, got %v", err)
	}
}

func BenchmarkEncodedPackets(b *testing.B) {
	data := testData(1 << 20)
	enc, err := NewEncoder(data, 1024)
	if err != nil {
		b.Fatalf("NewEncoder: %v", err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := enc.EncodedPackets(16); err != nil {
			b.Fatalf("EncodedPackets: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data := testData(1 << 20)
	enc, _ := NewEncoder(data, 1024)
	packets, _ := enc.EncodedPackets(16)
	// Drop the first 16 source packets so every run exercises erasure
	// reconstruction.
	survivors := packets[16:]

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dec, _ := NewDecoder(enc.Config())
		for _, p := range survivors {
			if _, done, err := dec.Decode(p); err != nil {
				b.Fatalf("Decode: %v", err)
			} else if done {
				break
			}
		}
	}
}
