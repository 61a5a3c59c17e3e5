// Package fecp2p delivers batches of fixed-length records across lossy
// channels using a fountain-style forward-error-correction stream.
//
// A sender assembles records (block-hash digests in the reference use
// case) into one buffer, encodes it into source and repair packets, and
// ships the small Manifest out-of-band. A receiver feeds whatever packets
// survive into a Reconstructor one at a time, stopping at the first
// successful reconstruction, then verifies and re-chunks the buffer back
// into records. Loss is injected by the channel package, so the whole
// path can run in-process and deterministically under test.
package fecp2p
