package fountain

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrPacketTooShort = errors.New("fountain: packet too short")

// packetHeaderSize covers the payload identifier: SBN + ESI.
const packetHeaderSize = 5

// Packet is one unit of the encoded stream: a payload identifier plus a
// fixed-size data chunk. A packet is only meaningful together with the
// Config it was generated under. Packets are immutable once created.
type Packet struct {
	// SBN is the source block number.
	SBN uint8
	// ESI is the encoding symbol index within the block. Indices below
	// the block's source symbol count identify source symbols; higher
	// indices identify repair symbols.
	ESI uint32
	// Data is the symbol payload, always Config.SymbolSize bytes.
	Data []byte
}

// IsRepair reports whether p carries a repair symbol under cfg.
func (p Packet) IsRepair(cfg Config) bool {
	_, count := cfg.blockSpan(int(p.SBN))
	return p.ESI >= uint32(count)
}

func (p Packet) String() string {
	return fmt.Sprintf("packet sbn=%d esi=%d len=%d", p.SBN, p.ESI, len(p.Data))
}

// MarshalBinary serializes the packet.
// Format:
//
//	1 byte: source block number
//	4 bytes: encoding symbol index (big endian)
//	N bytes: symbol data
func (p Packet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, packetHeaderSize+len(p.Data))
	buf[0] = p.SBN
	binary.BigEndian.PutUint32(buf[1:5], p.ESI)
	copy(buf[packetHeaderSize:], p.Data)
	return buf, nil
}

// UnmarshalPacket deserializes a packet. The data chunk is copied so the
// packet does not alias the input buffer.
func UnmarshalPacket(data []byte) (Packet, error) {
	if len(data) < packetHeaderSize {
		return Packet{}, ErrPacketTooShort
	}
	chunk := make([]byte, len(data)-packetHeaderSize)
	copy(chunk, data[packetHeaderSize:])
	return Packet{
		SBN:  data[0],
		ESI:  binary.BigEndian.Uint32(data[1:5]),
		Data: chunk,
	}, nil
}
