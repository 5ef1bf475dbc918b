package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xdimtech/go-wsecho/pkg/metrics"
	"github.com/xdimtech/go-wsecho/pkg/utils"
)

const closeGracePeriod = time.Second

var allowedSchemes = []string{"ws", "wss"}

// Task is a handle to one WebSocket connection. Closing it detaches every
// listener and closes the connection; a closed task cannot be reused.
type Task struct {
	id  string
	url string

	logger       *zap.Logger
	metrics      *metrics.Collector
	dialer       websocket.Dialer
	header       http.Header
	writeTimeout time.Duration
	readLimit    int64
	queueSize    int

	onMessage func(Message)
	onStatus  func(Status)

	conn      *websocket.Conn
	writeMu   sync.Mutex
	listeners listenerSet
	events    chan event

	statusMu sync.RWMutex
	status   Status

	failure   atomic.Pointer[TransportError]
	closed    atomic.Bool
	closing   chan struct{}
	closeOnce sync.Once
	closeErr  error

	mu        sync.Mutex
	stopWatch func() bool

	group errgroup.Group
	done  chan struct{}
}

// Connect opens a WebSocket to rawURL. onStatus receives Connecting before
// Connect returns; every later status and every message is delivered on the
// task's dispatcher goroutine in the order the transport produced them.
//
// Any failure before the connection is established, including an invalid URL
// and a failed handshake, is returned as a *CreationError. Cancelling ctx
// after Connect returns closes the task.
func Connect(ctx context.Context, rawURL string, onMessage func(Message), onStatus func(Status), opts ...Option) (*Task, error) {
	t := &Task{
		id:        utils.UniqueID(),
		url:       rawURL,
		logger:    zap.NewNop(),
		dialer:    *websocket.DefaultDialer,
		header:    http.Header{},
		queueSize: DefaultQueueSize,
		onMessage: onMessage,
		onStatus:  onStatus,
		status:    Connecting,
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	t.dialer.HandshakeTimeout = DefaultHandshakeTimeout
	if t.onMessage == nil {
		t.onMessage = func(Message) {}
	}
	if t.onStatus == nil {
		t.onStatus = func(Status) {}
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(zap.String("task_id", t.id), zap.String("url", rawURL))

	t.notify(Connecting)

	if err := validateURL(rawURL); err != nil {
		return nil, &CreationError{URL: rawURL, Err: err}
	}

	conn, resp, err := t.dialer.DialContext(ctx, rawURL, t.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.logger.Warn("websocket dial failed", zap.Error(err))
		return nil, &CreationError{URL: rawURL, Err: err}
	}
	if t.readLimit > 0 {
		conn.SetReadLimit(t.readLimit)
	}
	t.conn = conn
	t.events = make(chan event, t.queueSize)
	t.attachListeners()
	t.events <- event{kind: eventOpen}

	t.group.Go(t.readLoop)
	t.group.Go(func() error {
		t.dispatchLoop()
		return nil
	})

	stop := context.AfterFunc(ctx, func() {
		_ = t.Close()
	})
	t.mu.Lock()
	t.stopWatch = stop
	t.mu.Unlock()

	t.logger.Info("websocket connected", zap.String("subprotocol", conn.Subprotocol()))
	return t, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !lo.Contains(allowedSchemes, strings.ToLower(u.Scheme)) {
		return ErrSchemeNotAllowed
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if strings.Contains(rawURL, "#") {
		return ErrFragment
	}
	return nil
}

func (t *Task) attachListeners() {
	t.listeners.attach(eventOpen, func(event) {
		t.transition(Opened)
	})
	t.listeners.attach(eventClose, func(event) {
		t.transition(Closed)
	})
	t.listeners.attach(eventError, func(ev event) {
		t.transition(Failed(ev.err))
	})
	t.listeners.attach(eventMessage, t.handleMessage)
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) URL() string {
	return t.url
}

// Status returns the last status delivered to the status callback.
func (t *Task) Status() Status {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}

// Done is closed once the dispatcher has stopped delivering callbacks.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the read loop and dispatcher exit and returns the
// transport error that ended the connection, if any.
func (t *Task) Wait() error {
	return t.group.Wait()
}

// Send transmits a text frame. A failed write is reported as an Error status.
func (t *Task) Send(text string) {
	t.write(websocket.TextMessage, KindText, utils.Str2Bytes(text))
}

// SendBinary transmits a binary frame. A failed write is reported as an Error status.
func (t *Task) SendBinary(data []byte) {
	t.write(websocket.BinaryMessage, KindBinary, data)
}

func (t *Task) write(frameType int, kind MessageKind, data []byte) {
	if t.closed.Load() {
		t.logger.Debug("send on closed task dropped")
		return
	}
	if t.failure.Load() != nil {
		t.logger.Debug("send after transport failure dropped")
		return
	}

	t.writeMu.Lock()
	if t.writeTimeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	err := t.conn.WriteMessage(frameType, data)
	t.writeMu.Unlock()

	if err != nil {
		t.fail(&TransportError{Op: "write", Err: err})
		return
	}
	t.metrics.Frame(metrics.DirectionOut, kind.String())
}

// fail records the first write failure and closes the connection so the read
// loop reports it through the error listener.
func (t *Task) fail(err *TransportError) {
	t.metrics.SendFailure()
	t.logger.Error("websocket send failed", zap.Error(err))
	if t.failure.CompareAndSwap(nil, err) {
		_ = t.conn.Close()
	}
}

// Close detaches all listeners and closes the connection. Events that arrive
// afterwards are never delivered; a callback already being dispatched may
// still finish. Close does not wait for the dispatcher, so it is safe to call
// from within a callback, and calling it more than once is harmless.
func (t *Task) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.listeners.releaseAll()
		close(t.closing)

		t.mu.Lock()
		stop := t.stopWatch
		t.mu.Unlock()
		if stop != nil {
			stop()
		}

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		if err := t.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			t.closeErr = err
		}
		t.logger.Debug("websocket task closed")
	})
	return t.closeErr
}

func (t *Task) readLoop() error {
	defer close(t.events)
	defer func() {
		_ = t.conn.Close()
	}()

	for {
		frameType, data, err := t.conn.ReadMessage()
		if err != nil {
			if t.closed.Load() {
				return nil
			}
			ev := t.readFailure(err)
			t.emit(ev)
			if ev.kind == eventClose {
				return nil
			}
			return ev.err
		}
		if !t.emit(event{kind: eventMessage, frameType: frameType, data: data}) {
			return nil
		}
	}
}

func (t *Task) readFailure(err error) event {
	if failure := t.failure.Load(); failure != nil {
		return event{kind: eventError, err: failure}
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
		return event{kind: eventClose, err: closeErr}
	}
	return event{kind: eventError, err: &TransportError{Op: "read", Err: err}}
}

func (t *Task) emit(ev event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.closing:
		return false
	}
}

func (t *Task) dispatchLoop() {
	defer close(t.done)
	for {
		select {
		case <-t.closing:
			return
		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.listeners.fire(ev)
		}
	}
}

func (t *Task) transition(next Status) {
	t.statusMu.Lock()
	current := t.status
	if !canTransition(current.Kind, next.Kind) {
		t.statusMu.Unlock()
		t.logger.Debug("ignoring status transition",
			zap.Stringer("from", current), zap.Stringer("to", next))
		return
	}
	t.status = next
	t.statusMu.Unlock()

	t.notify(next)
}

func (t *Task) notify(status Status) {
	t.metrics.Status(status.String())
	if status.Err != nil {
		t.logger.Warn("websocket status", zap.Stringer("status", status), zap.Error(status.Err))
	} else {
		t.logger.Debug("websocket status", zap.Stringer("status", status))
	}
	t.onStatus(status)
}

func (t *Task) handleMessage(ev event) {
	msg, err := decodeFrame(ev.frameType, ev.data)
	if err != nil {
		t.metrics.DecodeError()
		t.logger.Error("dropping undecodable frame", zap.Error(err))
		return
	}
	t.metrics.Frame(metrics.DirectionIn, msg.Kind().String())
	t.onMessage(msg)
}

func decodeFrame(frameType int, data []byte) (Message, error) {
	switch frameType {
	case websocket.TextMessage:
		if !utf8.Valid(data) {
			return Message{}, &DecodeError{FrameType: frameType, Reason: "text frame is not valid UTF-8"}
		}
		return Text(string(data)), nil
	case websocket.BinaryMessage:
		if data == nil {
			data = []byte{}
		}
		return Binary(data), nil
	default:
		return Message{}, &DecodeError{FrameType: frameType, Reason: "unsupported frame type"}
	}
}
