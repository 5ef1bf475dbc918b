package ws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	all := []StatusKind{StatusConnecting, StatusOpened, StatusClosed, StatusError}
	allowed := map[StatusKind][]StatusKind{
		StatusConnecting: {StatusOpened, StatusError},
		StatusOpened:     {StatusClosed, StatusError},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, k := range allowed[from] {
				if k == to {
					want = true
				}
			}
			assert.Equal(t, want, canTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Connecting", Connecting.String())
	assert.Equal(t, "Opened", Opened.String())
	assert.Equal(t, "Closed", Closed.String())
	assert.Equal(t, "Error", Failed(errors.New("boom")).String())
	assert.Equal(t, "Unknown", StatusKind(42).String())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, Connecting.IsTerminal())
	assert.False(t, Opened.IsTerminal())
	assert.True(t, Closed.IsTerminal())
	assert.True(t, Failed(nil).IsTerminal())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("refused")

	creation := &CreationError{URL: "ws://x", Err: cause}
	assert.ErrorIs(t, creation, cause)
	assert.Contains(t, creation.Error(), `"ws://x"`)

	transport := &TransportError{Op: "write", Err: cause}
	assert.ErrorIs(t, transport, cause)
	assert.Equal(t, "ws: write: refused", transport.Error())

	decode := &DecodeError{FrameType: 1, Reason: "bad"}
	assert.Equal(t, "ws: decode frame type 1: bad", decode.Error())
}
