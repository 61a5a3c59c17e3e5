package fecp2p

import (
	"github.com/ezrasisk/fecp2p/fecp2p/fountain"
)

// State tracks a reconstruction session's lifecycle.
type State int

const (
	// StateIdle: session created, no packets fed yet.
	StateIdle State = iota
	// StateFeeding: packets are being submitted one at a time.
	StateFeeding
	// StateSuccess: the buffer was reconstructed; no further input is
	// accepted and the result never changes.
	StateSuccess
	// StateExhausted: the packet supply ran out before reconstruction.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFeeding:
		return "feeding"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Reconstructor feeds surviving packets into a decoding session until the
// first successful reconstruction. Success is monotonic: the first
// reconstructed buffer wins, later packets are neither required nor
// accepted. Exhaustion is a normal terminal outcome, not a fault.
type Reconstructor struct {
	dec    *fountain.Decoder
	state  State
	fed    int
	result []byte
}

// NewReconstructor creates a session for the given transform
// configuration.
func NewReconstructor(cfg fountain.Config) (*Reconstructor, error) {
	dec, err := fountain.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return &Reconstructor{dec: dec, state: StateIdle}, nil
}

// State returns the session state.
func (r *Reconstructor) State() State { return r.state }

// PacketsFed returns how many packets have been accepted so far. Which
// packet triggers success depends on arrival order, so callers must not
// treat this count as deterministic.
func (r *Reconstructor) PacketsFed() int { return r.fed }

// Result returns the reconstructed buffer, or nil before success.
func (r *Reconstructor) Result() []byte { return r.result }

// Feed submits one packet. It returns true once the original buffer has
// been reconstructed; the session is then terminal and further calls
// return ErrSessionDone.
func (r *Reconstructor) Feed(p fountain.Packet) (bool, error) {
	if r.state == StateSuccess || r.state == StateExhausted {
		return false, ErrSessionDone
	}
	r.state = StateFeeding
	data, done, err := r.dec.Decode(p)
	if err != nil {
		return false, err
	}
	r.fed++
	if done {
		r.state = StateSuccess
		r.result = data
		return true, nil
	}
	return false, nil
}

// Drain feeds the surviving packets one at a time, stopping at the first
// success; unconsumed packets are discarded without being fed. If the
// set is exhausted (or empty) without success the session becomes
// terminal and ErrInsufficientRedundancy is returned.
func (r *Reconstructor) Drain(packets []fountain.Packet) ([]byte, error) {
	for _, p := range packets {
		done, err := r.Feed(p)
		if err != nil {
			return nil, err
		}
		if done {
			return r.result, nil
		}
	}
	r.state = StateExhausted
	return nil, ErrInsufficientRedundancy
}
