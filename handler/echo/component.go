package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/xdimtech/go-wsecho/handler/base"
	"github.com/xdimtech/go-wsecho/pkg/config"
	"github.com/xdimtech/go-wsecho/pkg/signal"
	"github.com/xdimtech/go-wsecho/pkg/ws"
)

var ErrAlreadyMounted = errors.New("echo: component already mounted")

// View is the rendered state of the component.
type View struct {
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
	ShowMessage bool   `json:"show_message"`
}

// Component sends a random string to an echo server on every click and
// shows the last reply.
type Component struct {
	url     string
	prefix  string
	connect base.Connector
	logger  *zap.Logger
	random  func() uint64

	socket *signal.Signal[base.Socket]
	status *signal.Signal[ws.Status]
	data   *signal.Signal[ws.Message]

	mu       sync.Mutex
	mounted  bool
	cleanups []func()
}

type Option func(*Component)

func WithConnector(connect base.Connector) Option {
	return func(c *Component) {
		c.connect = connect
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(c *Component) {
		c.prefix = prefix
	}
}

func WithRandom(random func() uint64) Option {
	return func(c *Component) {
		c.random = random
	}
}

func NewComponent(url string, opts ...Option) *Component {
	c := &Component{
		url:     url,
		prefix:  config.DefaultPrefix,
		connect: base.WsConnector(),
		logger:  zap.NewNop(),
		random:  rand.Uint64,
		socket:  signal.New[base.Socket](nil),
		status:  signal.New(ws.Connecting),
		data:    signal.New(ws.Text("")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount installs the effects and opens the socket. It may be called once
// until Unmount.
func (c *Component) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.mounted = true
	c.cleanups = append(c.cleanups,
		c.status.Watch(c.statusEffect),
		c.data.Subscribe(c.dataEffect),
	)
	c.mu.Unlock()

	sock, err := c.connect(ctx, c.url, c.data.Set, c.status.Set)
	if err != nil {
		c.logger.Error("WebSocket connect failed", zap.String("url", c.url), zap.Error(err))
		c.status.Set(ws.Failed(err))
		return err
	}
	c.socket.Set(sock)

	// The socket may have reached a terminal status before it was stored.
	if sock.Status().IsTerminal() {
		c.dropSocket()
	}
	return nil
}

// Unmount removes the effects and closes the socket.
func (c *Component) Unmount() {
	c.mu.Lock()
	cleanups := c.cleanups
	c.cleanups = nil
	c.mounted = false
	c.mu.Unlock()

	for _, cleanup := range cleanups {
		cleanup()
	}
	c.dropSocket()
}

func (c *Component) statusEffect(s ws.Status) {
	switch s.Kind {
	case ws.StatusOpened:
		c.logger.Debug("WebSocket opened")
	case ws.StatusClosed:
		c.logger.Debug("WebSocket closed")
		c.dropSocket()
	case ws.StatusError:
		c.logger.Debug("WebSocket error", zap.Error(s.Err))
		c.dropSocket()
	case ws.StatusConnecting:
		c.logger.Debug("WebSocket connecting")
	}
}

func (c *Component) dataEffect(m ws.Message) {
	if m.IsBinary() {
		c.logger.Debug("WebSocket data", zap.Binary("data", m.Bytes()))
		return
	}
	c.logger.Debug("WebSocket data", zap.String("data", m.Text()))
}

func (c *Component) dropSocket() {
	var old base.Socket
	c.socket.Update(func(s *base.Socket) {
		old = *s
		*s = nil
	})
	if old != nil {
		_ = old.Close()
	}
}

// Click sends prefix plus a random uint64. It reports whether a socket was
// available to send on.
func (c *Component) Click() bool {
	sock := c.socket.Get()
	if sock == nil {
		return false
	}
	sock.Send(c.prefix + strconv.FormatUint(c.random(), 10))
	return true
}

// SendBinary sends data as a binary frame if a socket is available.
func (c *Component) SendBinary(data []byte) bool {
	sock := c.socket.Get()
	if sock == nil {
		return false
	}
	sock.SendBinary(data)
	return true
}

func (c *Component) Connected() bool {
	return c.socket.Get() != nil
}

func (c *Component) Status() ws.Status {
	return c.status.Get()
}

func (c *Component) Message() ws.Message {
	return c.data.Get()
}

func (c *Component) View() View {
	s := c.status.Get()
	m := c.data.Get()
	v := View{
		Status:      s.String(),
		ShowMessage: !m.IsEmpty(),
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if v.ShowMessage {
		v.Message = m.String()
	}
	return v
}

// Render writes the current view as plain text.
func (c *Component) Render(w io.Writer) error {
	return RenderView(w, c.View())
}

// RenderView writes the status line and, when there is one, the message line.
func RenderView(w io.Writer, v View) error {
	if _, err := fmt.Fprintf(w, "WebSocket Status: %s\n", v.Status); err != nil {
		return err
	}
	if !v.ShowMessage {
		return nil
	}
	_, err := fmt.Fprintln(w, v.Message)
	return err
}

// OnChange calls fn with the new view whenever the status or the message changes.
func (c *Component) OnChange(fn func(View)) (unsubscribe func()) {
	stopStatus := c.status.Subscribe(func(ws.Status) { fn(c.View()) })
	stopData := c.data.Subscribe(func(ws.Message) { fn(c.View()) })
	return func() {
		stopStatus()
		stopData()
	}
}
