package fountain

import (
	"errors"

	"github.com/klauspost/reedsolomon"
)

var ErrRepairLimit = errors.New("fountain: repair count per block exceeds limit")

// Encoder produces the bounded packet stream for one buffer. The buffer
// is padded to a whole number of symbols at construction; the original
// length is preserved in the Config so the decoder can trim the padding.
type Encoder struct {
	cfg    Config
	padded []byte
}

// NewEncoder partitions data into symbols of symbolSize bytes and
// derives the transfer configuration shared with the decoder.
func NewEncoder(data []byte, symbolSize uint16) (*Encoder, error) {
	cfg, err := newConfig(len(data), symbolSize)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, cfg.paddedLength())
	copy(padded, data)
	return &Encoder{cfg: cfg, padded: padded}, nil
}

// Config returns the transfer configuration. It must be delivered to the
// decoder out-of-band.
func (e *Encoder) Config() Config { return e.cfg }

func (e *Encoder) symbol(i int) []byte {
	size := int(e.cfg.SymbolSize)
	return e.padded[i*size : (i+1)*size]
}

// SourcePackets returns the source symbols of every block, in natural
// order (block by block, ascending symbol index).
func (e *Encoder) SourcePackets() []Packet {
	packets := make([]Packet, 0, e.cfg.NumSymbols())
	for b := 0; b < int(e.cfg.NumBlocks); b++ {
		start, count := e.cfg.blockSpan(b)
		for i := 0; i < count; i++ {
			packets = append(packets, Packet{
				SBN:  uint8(b),
				ESI:  uint32(i),
				Data: e.symbol(start + i),
			})
		}
	}
	return packets
}

// RepairPackets computes repairPerBlock repair symbols for every block.
// Repair symbols of block b carry ESIs starting at the block's source
// symbol count.
func (e *Encoder) RepairPackets(repairPerBlock uint32) ([]Packet, error) {
	if repairPerBlock == 0 {
		return nil, nil
	}
	if repairPerBlock > MaxRepairPerBlock {
		return nil, ErrRepairLimit
	}
	size := int(e.cfg.SymbolSize)
	parity := int(repairPerBlock)
	packets := make([]Packet, 0, parity*int(e.cfg.NumBlocks))
	for b := 0; b < int(e.cfg.NumBlocks); b++ {
		start, count := e.cfg.blockSpan(b)
		enc, err := reedsolomon.New(count, parity)
		if err != nil {
			return nil, err
		}
		shards := make([][]byte, count+parity)
		for i := 0; i < count; i++ {
			shards[i] = e.symbol(start + i)
		}
		for j := 0; j < parity; j++ {
			shards[count+j] = make([]byte, size)
		}
		if err := enc.Encode(shards); err != nil {
			return nil, err
		}
		for j := 0; j < parity; j++ {
			packets = append(packets, Packet{
				SBN:  uint8(b),
				ESI:  uint32(count + j),
				Data: shards[count+j],
			})
		}
	}
	return packets, nil
}

// EncodedPackets returns the full bounded stream: all source symbols
// followed by repairPerBlock repair symbols per block. The stream length
// is NumSymbols + repairPerBlock*NumBlocks and the order is
// deterministic.
func (e *Encoder) EncodedPackets(repairPerBlock uint32) ([]Packet, error) {
	source := e.SourcePackets()
	repair, err := e.RepairPackets(repairPerBlock)
	if err != nil {
		return nil, err
	}
	return append(source, repair...), nil
}
