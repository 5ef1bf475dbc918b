package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xdimtech/go-wsecho/handler/echo"
	"github.com/xdimtech/go-wsecho/pkg/config"
	"github.com/xdimtech/go-wsecho/pkg/utils"
)

type clicker interface {
	Click() bool
	SendBinary(data []byte) bool
}

// console turns stdin lines into component actions. An empty line or "send"
// is a click, "bin <hex>" sends a binary frame and "q" quits.
type console struct {
	target clicker
	logger *zap.Logger
}

func newConsole(target clicker, logger *zap.Logger) *console {
	return &console{target: target, logger: logger}
}

// Run reads commands until quit, EOF or ctx is done.
func (c *console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handle(line); quit {
				return nil
			}
		}
	}
}

func (c *console) handle(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "", "send":
		if !c.target.Click() {
			c.logger.Warn("no open socket")
		}
	case "bin":
		data, err := hex.DecodeString(strings.TrimSpace(arg))
		if err != nil {
			c.logger.Warn("invalid hex payload", zap.Error(err))
			return false
		}
		if !c.target.SendBinary(data) {
			c.logger.Warn("no open socket")
		}
	case "q", "quit", "exit":
		return true
	default:
		c.logger.Warn("unknown command", zap.String("command", cmd))
	}
	return false
}

// newRenderer prints every view change to w as text or JSON lines.
func newRenderer(w io.Writer, output string) func(echo.View) {
	var mu sync.Mutex
	return func(v echo.View) {
		mu.Lock()
		defer mu.Unlock()
		if output == config.OutputJSON {
			_, _ = io.WriteString(w, utils.MustToJSON(v)+"\n")
			return
		}
		_ = echo.RenderView(w, v)
	}
}
