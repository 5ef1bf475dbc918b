package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xdimtech/go-wsecho/handler/echo"
	"github.com/xdimtech/go-wsecho/pkg/utils"
)

// ViewSource is anything that can report the current component view.
type ViewSource interface {
	View() echo.View
}

type statusResponse struct {
	echo.View
	Requests int64 `json:"requests"`
}

// StatusServer exposes the component view at /status and the metrics
// registry at /metrics.
type StatusServer struct {
	source         ViewSource
	gatherer       prometheus.Gatherer
	logger         *zap.Logger
	requestCounter atomic.Int64
	server         *http.Server
}

func NewStatusServer(source ViewSource, gatherer prometheus.Gatherer, logger *zap.Logger) *StatusServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusServer{
		source:   source,
		gatherer: gatherer,
		logger:   logger,
	}
}

func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.Status)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled.
func (s *StatusServer) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	s.logger.Info("status server started", zap.String("local", "http://127.0.0.1:"+port))
	if ip, err := utils.GetLocalIP(); err == nil {
		s.logger.Info("status server started", zap.String("public", "http://"+ip+":"+port))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *StatusServer) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteRespWithHttpStatus(w, http.StatusMethodNotAllowed)
		return
	}
	n := s.requestCounter.Add(1)
	utils.WriteResp(w, http.StatusOK, statusResponse{View: s.source.View(), Requests: n})
}
