package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Hello is the first message a peer sends to the relay.
type Hello struct {
	Peer string
}

// Start is sent by the relay once both seats of a room are taken. Peers is
// indexed by handle.
type Start struct {
	Match  string
	Handle uint32
	Peers  []string
}

// Frame carries one peer's input for one frame.
type Frame struct {
	Number int64
	Handle uint32
	Input  uint8
}

// Report carries a peer's checksum of a frame it has simulated.
type Report struct {
	Frame    int64
	Checksum uint64
}

// Message is the envelope for everything on a peer connection. Exactly one
// field is set.
type Message struct {
	Hello  *Hello
	Start  *Start
	Frame  *Frame
	Report *Report
}

var ErrEmptyMessage = errors.New("message has no payload")

// Wire layout, protobuf compatible:
//
//	Message { 1 hello Hello, 2 start Start, 3 frame Frame, 4 report Report }
//	Hello   { 1 peer string }
//	Start   { 1 match string, 2 handle uint32, 3 peers string (repeated) }
//	Frame   { 1 number sint64, 2 handle uint32, 3 input uint32 }
//	Report  { 1 frame sint64, 2 checksum fixed64 }
const (
	messageHello  protowire.Number = 1
	messageStart  protowire.Number = 2
	messageFrame  protowire.Number = 3
	messageReport protowire.Number = 4
)

func (m *Message) Marshal() []byte {
	var b, inner []byte
	switch {
	case m.Hello != nil:
		inner = AppendString(inner, 1, m.Hello.Peer)
		b = AppendMessage(b, messageHello, inner)
	case m.Start != nil:
		inner = AppendString(inner, 1, m.Start.Match)
		inner = AppendUvarint(inner, 2, uint64(m.Start.Handle))
		for _, p := range m.Start.Peers {
			inner = AppendString(inner, 3, p)
		}
		b = AppendMessage(b, messageStart, inner)
	case m.Frame != nil:
		inner = AppendSint64(inner, 1, m.Frame.Number)
		inner = AppendUvarint(inner, 2, uint64(m.Frame.Handle))
		inner = AppendUvarint(inner, 3, uint64(m.Frame.Input))
		b = AppendMessage(b, messageFrame, inner)
	case m.Report != nil:
		inner = AppendSint64(inner, 1, m.Report.Frame)
		inner = AppendFixed64(inner, 2, m.Report.Checksum)
		b = AppendMessage(b, messageReport, inner)
	}
	return b
}

func Unmarshal(data []byte) (*Message, error) {
	m := &Message{}
	err := Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case messageHello, messageStart, messageFrame, messageReport:
		default:
			return Skip(num, typ, b)
		}
		inner, n, err := ConsumeBytes(typ, b)
		if err != nil {
			return n, err
		}
		switch num {
		case messageHello:
			m.Hello, err = decodeHello(inner)
		case messageStart:
			m.Start, err = decodeStart(inner)
		case messageFrame:
			m.Frame, err = decodeFrame(inner)
		case messageReport:
			m.Report, err = decodeReport(inner)
		}
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if m.Hello == nil && m.Start == nil && m.Frame == nil && m.Report == nil {
		return nil, ErrEmptyMessage
	}
	return m, nil
}

func decodeHello(data []byte) (*Hello, error) {
	h := &Hello{}
	err := Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := ConsumeBytes(typ, b)
			h.Peer = string(v)
			return n, err
		}
		return Skip(num, typ, b)
	})
	return h, err
}

func decodeStart(data []byte) (*Start, error) {
	s := &Start{}
	err := Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := ConsumeBytes(typ, b)
			s.Match = string(v)
			return n, err
		case 2:
			v, n, err := ConsumeVarint(typ, b)
			s.Handle = uint32(v)
			return n, err
		case 3:
			v, n, err := ConsumeBytes(typ, b)
			s.Peers = append(s.Peers, string(v))
			return n, err
		}
		return Skip(num, typ, b)
	})
	return s, err
}

func decodeFrame(data []byte) (*Frame, error) {
	f := &Frame{}
	err := Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := ConsumeSint64(typ, b)
			f.Number = v
			return n, err
		case 2:
			v, n, err := ConsumeVarint(typ, b)
			f.Handle = uint32(v)
			return n, err
		case 3:
			v, n, err := ConsumeVarint(typ, b)
			f.Input = uint8(v)
			return n, err
		}
		return Skip(num, typ, b)
	})
	return f, err
}

func decodeReport(data []byte) (*Report, error) {
	r := &Report{}
	err := Walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := ConsumeSint64(typ, b)
			r.Frame = v
			return n, err
		case 2:
			v, n, err := ConsumeFixed64(typ, b)
			r.Checksum = v
			return n, err
		}
		return Skip(num, typ, b)
	})
	return r, err
}
