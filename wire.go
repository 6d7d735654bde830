package dlsim

//
// Wire format: Packet and Frame round-trip through encoding.BinaryMarshaler
// / encoding.BinaryUnmarshaler, the same pattern pascaldekloe-part5's ASDU
// types use to serialize themselves before handing bytes to a transport
// (caller.go's MarshalBinary calls ahead of session.NewOutbound).
//

import (
	"encoding"
	"encoding/binary"
	"fmt"
)

// frameWireSize is the encoded length of a [Frame]: 1-byte kind, 4-byte
// seq, 4-byte ack, MaxPkt-byte info.
const frameWireSize = 1 + 4 + 4 + MaxPkt

var (
	_ encoding.BinaryMarshaler   = Packet{}
	_ encoding.BinaryUnmarshaler = &Packet{}
	_ encoding.BinaryMarshaler   = Frame{}
	_ encoding.BinaryUnmarshaler = &Frame{}
)

// MarshalBinary implements [encoding.BinaryMarshaler]. The payload is
// the raw MaxPkt-byte counter, unchanged from the in-memory form.
func (p Packet) MarshalBinary() ([]byte, error) {
	out := make([]byte, MaxPkt)
	copy(out, p.Data[:])
	return out, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler].
func (p *Packet) UnmarshalBinary(data []byte) error {
	if len(data) != MaxPkt {
		return fmt.Errorf("%w: packet must be exactly %d bytes, got %d", ErrInvalidArgument, MaxPkt, len(data))
	}
	copy(p.Data[:], data)
	return nil
}

// MarshalBinary implements [encoding.BinaryMarshaler], encoding kind,
// seq, ack, and info exactly as spec.md §6 describes: 1-byte kind +
// 4-byte seq + 4-byte ack + 4-byte info, all multi-byte fields
// big-endian.
func (f Frame) MarshalBinary() ([]byte, error) {
	out := make([]byte, frameWireSize)
	out[0] = byte(f.Kind)
	binary.BigEndian.PutUint32(out[1:5], f.Seq)
	binary.BigEndian.PutUint32(out[5:9], f.Ack)
	info, err := f.Info.MarshalBinary()
	if err != nil {
		return nil, err
	}
	copy(out[9:], info)
	return out, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler].
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) != frameWireSize {
		return fmt.Errorf("%w: frame must be exactly %d bytes, got %d", ErrInvalidArgument, frameWireSize, len(data))
	}
	f.Kind = FrameKind(data[0])
	f.Seq = binary.BigEndian.Uint32(data[1:5])
	f.Ack = binary.BigEndian.Uint32(data[5:9])
	return f.Info.UnmarshalBinary(data[9:])
}
