package ws

import (
	"errors"
	"fmt"
)

var (
	ErrNotOpen          = errors.New("ws: connection is not open")
	ErrClosed           = errors.New("ws: task closed")
	ErrInvalidURL       = errors.New("ws: invalid url")
	ErrSchemeNotAllowed = errors.New("ws: url scheme must be ws or wss")
	ErrFragment         = errors.New("ws: url must not contain a fragment")
)

// CreationError reports that the socket could not be constructed. No task
// exists when it is returned.
type CreationError struct {
	URL string
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("ws: create socket %q: %v", e.URL, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed read or write on an established socket.
// It reaches the caller through the status callback.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ws: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError describes an incoming frame that could not be classified.
// Such frames are logged and dropped.
type DecodeError struct {
	FrameType int
	Reason    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ws: decode frame type %d: %s", e.FrameType, e.Reason)
}
