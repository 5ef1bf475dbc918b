package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xdimtech/go-wsecho/handler/echo"
	"github.com/xdimtech/go-wsecho/pkg/config"
)

type fakeTarget struct {
	open   bool
	clicks int
	binary [][]byte
}

func (f *fakeTarget) Click() bool {
	if f.open {
		f.clicks++
	}
	return f.open
}

func (f *fakeTarget) SendBinary(data []byte) bool {
	if f.open {
		f.binary = append(f.binary, data)
	}
	return f.open
}

func TestConsoleCommands(t *testing.T) {
	target := &fakeTarget{open: true}
	in := strings.NewReader("\nsend\nbin 0aff\nbin zz\nwhat\nq\nsend\n")

	err := newConsole(target, zap.NewNop()).Run(context.Background(), in)

	assert.NoError(t, err)
	assert.Equal(t, 2, target.clicks)
	assert.Equal(t, [][]byte{{0x0a, 0xff}}, target.binary)
}

func TestConsoleStopsAtEOF(t *testing.T) {
	target := &fakeTarget{}
	err := newConsole(target, zap.NewNop()).Run(context.Background(), strings.NewReader("send\n"))

	assert.NoError(t, err)
	assert.Zero(t, target.clicks)
}

func TestConsoleStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newConsole(&fakeTarget{}, zap.NewNop()).Run(ctx, blockingReader{})
	assert.NoError(t, err)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestRenderer(t *testing.T) {
	var text bytes.Buffer
	newRenderer(&text, config.OutputText)(echo.View{Status: "Opened", Message: "hi", ShowMessage: true})
	assert.Equal(t, "WebSocket Status: Opened\nhi\n", text.String())

	var js bytes.Buffer
	newRenderer(&js, config.OutputJSON)(echo.View{Status: "Closed"})
	assert.JSONEq(t, `{"status":"Closed","show_message":false}`, strings.TrimSpace(js.String()))
}
