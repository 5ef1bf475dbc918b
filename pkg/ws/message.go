package ws

import "encoding/hex"

type MessageKind int

const (
	KindText MessageKind = iota
	KindBinary
)

func (k MessageKind) String() string {
	if k == KindBinary {
		return "binary"
	}
	return "text"
}

// Message is an incoming frame payload, either text or binary. The zero
// value is an empty text message.
type Message struct {
	kind MessageKind
	text string
	data []byte
}

func Text(s string) Message {
	return Message{kind: KindText, text: s}
}

// Binary wraps data without copying; the message takes ownership of it.
func Binary(data []byte) Message {
	return Message{kind: KindBinary, data: data}
}

func (m Message) Kind() MessageKind {
	return m.kind
}

func (m Message) IsText() bool {
	return m.kind == KindText
}

func (m Message) IsBinary() bool {
	return m.kind == KindBinary
}

// Text returns the text payload. It is empty for binary messages.
func (m Message) Text() string {
	return m.text
}

// Bytes returns the binary payload. It is nil for text messages.
func (m Message) Bytes() []byte {
	return m.data
}

func (m Message) Len() int {
	if m.kind == KindBinary {
		return len(m.data)
	}
	return len(m.text)
}

func (m Message) IsEmpty() bool {
	return m.Len() == 0
}

// String renders text verbatim and binary as lowercase hex pairs.
func (m Message) String() string {
	if m.kind == KindBinary {
		return hex.EncodeToString(m.data)
	}
	return m.text
}
