package channel

import (
	"math/rand"
	"time"

	"github.com/ezrasisk/fecp2p/fecp2p/fountain"
)

// Channel models an unreliable transport. Transmit returns the packets
// that survive transmission, possibly reordered. The result is always a
// subset of the input; packet contents are never modified.
type Channel interface {
	Transmit(packets []fountain.Packet) []fountain.Packet
}

// RandomLoss shuffles the stream uniformly and drops Drop packets from
// the tail of the permutation, so every packet is equally likely to be
// lost. If Drop meets or exceeds the stream length the result is empty.
type RandomLoss struct {
	Drop int
	// Rand is the randomness source; a time-seeded source is used when
	// nil. Tests pass a fixed seed for reproducible permutations.
	Rand *rand.Rand
}

func (c RandomLoss) Transmit(packets []fountain.Packet) []fountain.Packet {
	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := make([]fountain.Packet, len(packets))
	copy(out, packets)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if c.Drop >= len(out) {
		return out[:0]
	}
	return out[:len(out)-c.Drop]
}

// DropIndices drops the packets at exactly the given stream indices and
// preserves the order of the rest. It is the deterministic fixture for
// tests that need to lose specific packets.
type DropIndices []int

func (c DropIndices) Transmit(packets []fountain.Packet) []fountain.Packet {
	drop := make(map[int]bool, len(c))
	for _, i := range c {
		drop[i] = true
	}
	out := make([]fountain.Packet, 0, len(packets))
	for i, p := range packets {
		if !drop[i] {
			out = append(out, p)
		}
	}
	return out
}

// BurstLoss drops a contiguous run of Length packets starting at Offset,
// modeling a link outage. Order of the survivors is preserved.
type BurstLoss struct {
	Offset int
	Length int
}

func (c BurstLoss) Transmit(packets []fountain.Packet) []fountain.Packet {
	start := c.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(packets) || c.Length <= 0 {
		out := make([]fountain.Packet, len(packets))
		copy(out, packets)
		return out
	}
	end := start + c.Length
	if end > len(packets) {
		end = len(packets)
	}
	out := make([]fountain.Packet, 0, len(packets)-(end-start))
	out = append(out, packets[:start]...)
	out = append(out, packets[end:]...)
	return out
}

// Perfect delivers every packet unchanged and in order.
type Perfect struct{}

func (Perfect) Transmit(packets []fountain.Packet) []fountain.Packet {
	out := make([]fountain.Packet, len(packets))
	copy(out, packets)
	return out
}
