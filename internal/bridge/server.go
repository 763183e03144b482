package bridge

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/halogen-browser/halogen/backend/internal/infrastructure/monitoring"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // The UI process connects from a local origin
	},
}

// Server accepts bridge websocket connections from the UI process and pumps
// their messages through the dispatcher.
type Server struct {
	dispatcher *Dispatcher
	log        *logging.Logger
	metrics    *monitoring.Metrics
}

// NewServer creates a bridge websocket server.
func NewServer(dispatcher *Dispatcher, log *logging.Logger, metrics *monitoring.Metrics) *Server {
	return &Server{dispatcher: dispatcher, log: log, metrics: metrics}
}

// HandleConnection upgrades the request and serves bridge messages until the
// connection closes. Each request is handled on its own goroutine so one
// slow operation never stalls the others issued concurrently by the UI side;
// writes back to the shared connection are serialized.
func (s *Server) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("bridge websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.WSConnections.Inc()
		defer s.metrics.WSConnections.Dec()
	}
	s.log.Info("bridge connection established", zap.String("remote", conn.RemoteAddr().String()))

	ctx := c.Request.Context()
	var writeMu sync.Mutex
	var wg sync.WaitGroup

	for {
		var msg types.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("bridge read error", zap.Error(err))
			}
			break
		}

		wg.Add(1)
		go func(msg types.Message) {
			defer wg.Done()
			resp := s.dispatcher.Dispatch(ctx, &msg)
			if resp == nil {
				return
			}
			writeMu.Lock()
			err := conn.WriteJSON(resp)
			writeMu.Unlock()
			if err != nil {
				s.log.Warn("bridge write error",
					zap.String("op", msg.Op), zap.Error(err))
			}
		}(msg)
	}

	wg.Wait()
	s.log.Info("bridge connection closed")
}
