package fecp2p

import "errors"

var (
	// ErrMalformedRecord indicates an input record whose encoding or
	// length does not match the batch's fixed record length. Assembly
	// fails fast; nothing downstream runs.
	ErrMalformedRecord = errors.New("fecp2p: malformed record")

	// ErrInsufficientRedundancy indicates the surviving packet supply was
	// exhausted before reconstruction completed. It is a normal terminal
	// outcome: the caller can rerun with a higher repair count or fewer
	// losses. It is never retried automatically.
	ErrInsufficientRedundancy = errors.New("fecp2p: insufficient redundancy for the observed loss")

	// ErrIntegrityFault indicates a reconstructed buffer that violates
	// the expected record layout or digest. The transform's contract
	// guarantees byte-exact reconstruction, so this signals a
	// transform-level contract violation, not ordinary loss.
	ErrIntegrityFault = errors.New("fecp2p: reconstructed buffer failed integrity check")

	// ErrSessionDone indicates a packet fed into a reconstruction session
	// that already reached a terminal state.
	ErrSessionDone = errors.New("fecp2p: reconstruction session already terminal")
)
