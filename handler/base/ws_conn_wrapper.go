package base

import (
	"context"

	"github.com/xdimtech/go-wsecho/pkg/config"
	"github.com/xdimtech/go-wsecho/pkg/ws"
)

// Socket is the part of a connection handle a component drives.
type Socket interface {
	Send(text string)
	SendBinary(data []byte)
	Close() error
	Status() ws.Status
}

// Connector opens a Socket. onStatus sees Connecting before it returns.
type Connector func(ctx context.Context, url string, onMessage func(ws.Message), onStatus func(ws.Status)) (Socket, error)

// WsConnector builds a Connector backed by ws.Connect.
func WsConnector(opts ...ws.Option) Connector {
	return func(ctx context.Context, url string, onMessage func(ws.Message), onStatus func(ws.Status)) (Socket, error) {
		task, err := ws.Connect(ctx, url, onMessage, onStatus, opts...)
		if err != nil {
			return nil, err
		}
		return task, nil
	}
}

// SocketOptions maps the socket configuration onto ws options.
func SocketOptions(c *config.SocketConf) []ws.Option {
	opts := []ws.Option{
		ws.WithHandshakeTimeout(c.HandshakeTimeout),
		ws.WithWriteTimeout(c.WriteTimeout),
		ws.WithReadLimit(c.ReadLimit),
		ws.WithQueueSize(c.QueueSize),
		ws.WithCompression(c.Compression),
	}
	if len(c.Subprotocols) > 0 {
		opts = append(opts, ws.WithSubprotocols(c.Subprotocols...))
	}
	return opts
}
