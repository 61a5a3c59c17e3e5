package fountain

import (
	"errors"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrUnknownBlock       = errors.New("fountain: packet references unknown source block")
	ErrSymbolSizeMismatch = errors.New("fountain: packet data length does not match symbol size")
	ErrSymbolIndexRange   = errors.New("fountain: encoding symbol index out of range")
)

// Decoder is an incremental decoding session. Packets are fed one at a
// time; once every block has enough symbols the original buffer is
// reconstructed and returned. A Decoder never reports success from an
// insufficient symbol set, and feeding packets in any order yields the
// same outcome.
type Decoder struct {
	cfg       Config
	blocks    []*decoderBlock
	remaining int
	result    []byte
}

// decoderBlock tracks the symbols observed for one source block.
// Symbols are keyed by ESI so duplicates collapse naturally.
type decoderBlock struct {
	count     int // source symbols in this block
	source    map[uint32][]byte
	repair    map[uint32][]byte
	maxRepair uint32 // highest repair ESI seen
	recovered [][]byte
}

// NewDecoder creates a decoding session for the given configuration.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	blocks := make([]*decoderBlock, cfg.NumBlocks)
	for b := range blocks {
		_, count := cfg.blockSpan(b)
		blocks[b] = &decoderBlock{
			count:  count,
			source: make(map[uint32][]byte),
			repair: make(map[uint32][]byte),
		}
	}
	return &Decoder{cfg: cfg, blocks: blocks, remaining: len(blocks)}, nil
}

// Decode feeds one packet into the session. It returns the reconstructed
// buffer and true once enough symbols have been observed, otherwise
// (nil, false). Packets fed after completion are ignored and the cached
// result is returned again.
func (d *Decoder) Decode(p Packet) ([]byte, bool, error) {
	if d.result != nil {
		return d.result, true, nil
	}
	if int(p.SBN) >= len(d.blocks) {
		return nil, false, ErrUnknownBlock
	}
	if len(p.Data) != int(d.cfg.SymbolSize) {
		return nil, false, ErrSymbolSizeMismatch
	}
	blk := d.blocks[p.SBN]
	if p.ESI >= uint32(blk.count+MaxRepairPerBlock) {
		return nil, false, ErrSymbolIndexRange
	}

	if blk.add(p) && blk.recovered == nil {
		if err := blk.recover(); err != nil {
			return nil, false, err
		}
		d.remaining--
	}
	if d.remaining > 0 {
		return nil, false, nil
	}
	d.result = d.assemble()
	return d.result, true, nil
}

// add records the symbol and reports whether the block has become
// recoverable.
func (b *decoderBlock) add(p Packet) bool {
	if p.ESI < uint32(b.count) {
		if _, dup := b.source[p.ESI]; !dup {
			b.source[p.ESI] = p.Data
		}
	} else {
		if _, dup := b.repair[p.ESI]; !dup {
			b.repair[p.ESI] = p.Data
			if p.ESI > b.maxRepair {
				b.maxRepair = p.ESI
			}
		}
	}
	return len(b.source)+len(b.repair) >= b.count
}

// recover reconstructs the block's source symbols. If all source symbols
// arrived intact no erasure decoding is needed; otherwise the missing
// ones are rebuilt from the repair symbols.
//
// The repair count is a generation-time parameter and is deliberately
// absent from the Config, so the parity dimension is sized from the
// highest repair ESI observed. reedsolomon's systematic matrix makes
// parity row j identical for every total parity count, so this matches
// whatever count the encoder used.
func (b *decoderBlock) recover() error {
	b.recovered = make([][]byte, b.count)
	if len(b.source) == b.count {
		for esi, data := range b.source {
			b.recovered[esi] = data
		}
		return nil
	}

	parity := int(b.maxRepair) - b.count + 1
	dec, err := reedsolomon.New(b.count, parity)
	if err != nil {
		b.recovered = nil
		return err
	}
	shards := make([][]byte, b.count+parity)
	for esi, data := range b.source {
		shards[esi] = data
	}
	for esi, data := range b.repair {
		shards[esi] = data
	}
	if err := dec.ReconstructData(shards); err != nil {
		b.recovered = nil
		return err
	}
	copy(b.recovered, shards[:b.count])
	return nil
}

// assemble concatenates the recovered blocks and trims the grid padding.
func (d *Decoder) assemble() []byte {
	out := make([]byte, 0, d.cfg.paddedLength())
	for _, blk := range d.blocks {
		for _, sym := range blk.recovered {
			out = append(out, sym...)
		}
	}
	return out[:d.cfg.TransferLength]
}
