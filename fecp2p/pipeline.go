package fecp2p

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ezrasisk/fecp2p/fecp2p/channel"
	"github.com/ezrasisk/fecp2p/fecp2p/fountain"
)

var (
	ErrInvalidSymbolSize = errors.New("fecp2p: symbol size must be positive")
	ErrInvalidLossCount  = errors.New("fecp2p: loss count must not be negative")
)

// Params configures one delivery run. All knobs are explicit run
// configuration so parameter sweeps never require a rebuild.
type Params struct {
	// SymbolSize is the encoded symbol size in bytes.
	SymbolSize uint16
	// RepairPerBlock is the number of repair symbols generated per
	// source block. Zero disables loss tolerance entirely; Validate
	// surfaces this as a warning.
	RepairPerBlock uint32
	// LossCount is how many packets the default channel drops.
	LossCount int
	// Compress enables LZ4 compression of the assembled buffer before
	// encoding. Applied only when it shrinks the payload.
	Compress bool
	// Rand seeds the default channel; nil means time-seeded.
	Rand *rand.Rand
	// Channel overrides the default uniform-loss channel. LossCount and
	// Rand are ignored when set.
	Channel channel.Channel
}

// DefaultParams mirrors the reference setup: 128-byte symbols, 10 repair
// symbols per block, lossless channel.
func DefaultParams() Params {
	return Params{
		SymbolSize:     128,
		RepairPerBlock: 10,
	}
}

// Validate checks the parameters and returns degraded-configuration
// warnings alongside any hard error. Warnings never abort a run.
func (p Params) Validate() ([]string, error) {
	if p.SymbolSize == 0 {
		return nil, ErrInvalidSymbolSize
	}
	if p.LossCount < 0 {
		return nil, ErrInvalidLossCount
	}
	var warnings []string
	if p.RepairPerBlock == 0 {
		warnings = append(warnings,
			"repair count per block is 0: reconstruction requires every source packet, a single loss is unrecoverable")
	}
	if p.RepairPerBlock > 0 && p.Channel == nil && p.LossCount > int(p.RepairPerBlock) {
		warnings = append(warnings,
			fmt.Sprintf("loss count %d exceeds repair budget %d: recovery depends on which packets survive",
				p.LossCount, p.RepairPerBlock))
	}
	return warnings, nil
}

// Result reports one pipeline run.
type Result struct {
	// Manifest is the out-of-band descriptor the receiving side used.
	Manifest Manifest
	// Records are the recovered records, nil unless the run succeeded.
	Records [][]byte
	// Warnings are the configuration warnings from Params.Validate.
	Warnings []string

	PacketsGenerated int
	PacketsDelivered int
	// PacketsFed is how many surviving packets the reconstructor
	// consumed before the terminal state. Order-dependent; informational
	// only.
	PacketsFed int
}

// Run executes one synchronous delivery pass: assemble the batch, encode
// it into a bounded packet stream, transmit the stream through the loss
// model, feed the survivors into a reconstruction session, and verify the
// result against the manifest.
//
// On ErrInsufficientRedundancy the returned Result still carries the
// manifest, warnings, and packet counts so callers can adjust parameters
// (typically RepairPerBlock) and rerun. Other errors return a nil Result.
func Run(batch *Batch, params Params) (*Result, error) {
	warnings, err := params.Validate()
	if err != nil {
		return nil, err
	}

	buf, err := batch.Assemble()
	if err != nil {
		return nil, err
	}
	digest := BufferDigest(buf)

	payload := buf
	compressed := false
	if params.Compress {
		payload, compressed = maybeCompress(buf)
	}

	enc, err := fountain.NewEncoder(payload, params.SymbolSize)
	if err != nil {
		return nil, err
	}
	manifest := Manifest{
		Config:      enc.Config(),
		RecordLen:   uint32(batch.RecordLen()),
		RecordCount: uint32(batch.Len()),
		Compressed:  compressed,
		RawLen:      uint64(len(buf)),
		Digest:      digest,
	}

	packets, err := enc.EncodedPackets(params.RepairPerBlock)
	if err != nil {
		return nil, err
	}

	ch := params.Channel
	if ch == nil {
		ch = channel.RandomLoss{Drop: params.LossCount, Rand: params.Rand}
	}
	survivors := ch.Transmit(packets)

	result := &Result{
		Manifest:         manifest,
		Warnings:         warnings,
		PacketsGenerated: len(packets),
		PacketsDelivered: len(survivors),
	}

	rec, err := NewReconstructor(manifest.Config)
	if err != nil {
		return nil, err
	}
	recovered, err := rec.Drain(survivors)
	result.PacketsFed = rec.PacketsFed()
	if err != nil {
		if errors.Is(err, ErrInsufficientRedundancy) {
			return result, err
		}
		return nil, err
	}

	if compressed {
		recovered, err = Decompress(recovered)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIntegrityFault, err)
		}
	}
	records, err := manifest.Verify(recovered)
	if err != nil {
		return nil, err
	}
	result.Records = records
	return result, nil
}
