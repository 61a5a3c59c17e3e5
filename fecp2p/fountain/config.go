package fountain

import (
	"encoding/binary"
	"errors"
)

var (
	ErrEmptyData         = errors.New("fountain: empty source data")
	ErrInvalidSymbolSize = errors.New("fountain: symbol size must be positive")
	ErrDataTooLarge      = errors.New("fountain: data does not fit the block grid")
	ErrInvalidConfig     = errors.New("fountain: invalid configuration")
	ErrConfigSize        = errors.New("fountain: configuration must be exactly 12 bytes")
)

const (
	// maxBlockSymbols caps the source symbols per block so that source
	// plus repair symbols stay within reedsolomon's 256-shard limit.
	maxBlockSymbols = 128

	// MaxRepairPerBlock is the largest repair symbol count a single
	// block supports.
	MaxRepairPerBlock = 128

	// ConfigWireSize is the serialized size of a Config.
	ConfigWireSize = 12
)

// Config describes how a buffer was partitioned into blocks and symbols.
// It is produced once by the encoder and must reach the decoder
// out-of-band; it is never mutated after creation.
//
// Wire format (big endian):
//
//	8 bytes: transfer length
//	2 bytes: symbol size
//	1 byte: source block count
//	1 byte: reserved
type Config struct {
	TransferLength uint64
	SymbolSize     uint16
	NumBlocks      uint8
}

func newConfig(transferLength int, symbolSize uint16) (Config, error) {
	if transferLength <= 0 {
		return Config{}, ErrEmptyData
	}
	if symbolSize == 0 {
		return Config{}, ErrInvalidSymbolSize
	}
	numSymbols := (transferLength + int(symbolSize) - 1) / int(symbolSize)
	numBlocks := (numSymbols + maxBlockSymbols - 1) / maxBlockSymbols
	if numBlocks > 255 {
		return Config{}, ErrDataTooLarge
	}
	return Config{
		TransferLength: uint64(transferLength),
		SymbolSize:     symbolSize,
		NumBlocks:      uint8(numBlocks),
	}, nil
}

// NumSymbols returns the number of source symbols across all blocks.
func (c Config) NumSymbols() int {
	return (int(c.TransferLength) + int(c.SymbolSize) - 1) / int(c.SymbolSize)
}

// paddedLength is the buffer length after padding to the symbol grid.
func (c Config) paddedLength() int {
	return c.NumSymbols() * int(c.SymbolSize)
}

// blockSpan returns the first symbol index and the symbol count of
// block b. Symbols are distributed near-equally; the first
// NumSymbols%NumBlocks blocks carry one extra symbol.
func (c Config) blockSpan(b int) (start, count int) {
	n := c.NumSymbols()
	blocks := int(c.NumBlocks)
	base := n / blocks
	rem := n % blocks
	if b < rem {
		return b*(base+1), base + 1
	}
	return rem*(base+1) + (b-rem)*base, base
}

// Validate checks internal consistency. It catches descriptors that were
// corrupted in transit or assembled by hand.
func (c Config) Validate() error {
	if c.TransferLength == 0 || c.SymbolSize == 0 || c.NumBlocks == 0 {
		return ErrInvalidConfig
	}
	want, err := newConfig(int(c.TransferLength), c.SymbolSize)
	if err != nil {
		return err
	}
	if want.NumBlocks != c.NumBlocks {
		return ErrInvalidConfig
	}
	return nil
}

// MarshalBinary serializes the configuration for out-of-band delivery.
func (c Config) MarshalBinary() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, ConfigWireSize)
	binary.BigEndian.PutUint64(buf[0:8], c.TransferLength)
	binary.BigEndian.PutUint16(buf[8:10], c.SymbolSize)
	buf[10] = c.NumBlocks
	return buf, nil
}

// UnmarshalConfig deserializes a configuration descriptor.
func UnmarshalConfig(data []byte) (Config, error) {
	if len(data) != ConfigWireSize {
		return Config{}, ErrConfigSize
	}
	c := Config{
		TransferLength: binary.BigEndian.Uint64(data[0:8]),
		SymbolSize:     binary.BigEndian.Uint16(data[8:10]),
		NumBlocks:      data[10],
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
