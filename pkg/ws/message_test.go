package ws

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIsEmpty(t *testing.T) {
	assert.True(t, Binary([]byte{}).IsEmpty())
	assert.True(t, Binary(nil).IsEmpty())
	assert.True(t, Text("").IsEmpty())
	assert.True(t, Message{}.IsEmpty())

	assert.False(t, Text("x").IsEmpty())
	assert.False(t, Binary([]byte{0}).IsEmpty())
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "0aff", Binary([]byte{0x0a, 0xff}).String())
	assert.Equal(t, "", Binary(nil).String())
	assert.Equal(t, "Random string: 42", Text("Random string: 42").String())
	assert.Equal(t, "0aff", Text("0aff").String())
}

func TestMessageAccessors(t *testing.T) {
	text := Text("héllo")
	assert.Equal(t, KindText, text.Kind())
	assert.True(t, text.IsText())
	assert.False(t, text.IsBinary())
	assert.Equal(t, "héllo", text.Text())
	assert.Nil(t, text.Bytes())
	assert.Equal(t, len("héllo"), text.Len())

	bin := Binary([]byte{1, 2, 3})
	assert.Equal(t, KindBinary, bin.Kind())
	assert.True(t, bin.IsBinary())
	assert.Empty(t, bin.Text())
	assert.Equal(t, []byte{1, 2, 3}, bin.Bytes())
	assert.Equal(t, 3, bin.Len())

	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "binary", KindBinary.String())
}

func TestDecodeFrame(t *testing.T) {
	msg, err := decodeFrame(websocket.TextMessage, []byte("Random string: 7"))
	require.NoError(t, err)
	assert.Equal(t, Text("Random string: 7"), msg)

	payload := []byte{0xff, 0x00, 0x10}
	msg, err = decodeFrame(websocket.BinaryMessage, payload)
	require.NoError(t, err)
	assert.Equal(t, payload, msg.Bytes())

	msg, err = decodeFrame(websocket.BinaryMessage, nil)
	require.NoError(t, err)
	assert.True(t, msg.IsBinary())
	assert.True(t, msg.IsEmpty())

	_, err = decodeFrame(websocket.TextMessage, []byte{0xc3, 0x28})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, websocket.TextMessage, decodeErr.FrameType)

	_, err = decodeFrame(websocket.PingMessage, nil)
	assert.ErrorAs(t, err, &decodeErr)
}
