// Package fountain implements a systematic fountain-style FEC transform
// over Reed-Solomon block codes.
//
// A byte buffer is partitioned into fixed-size symbols and the symbols
// into source blocks. For each block the encoder can emit an arbitrary
// number of repair symbols in addition to the source symbols, so a
// receiver can reconstruct the buffer from any sufficiently large subset
// of the emitted packets. The small Config descriptor must reach the
// decoder out-of-band; packets are meaningless without it.
//
// The erasure mathematics are provided by klauspost/reedsolomon.
package fountain
