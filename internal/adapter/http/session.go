package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/mapview"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrUnknownEvent is returned for an event type the session does not handle.
var ErrUnknownEvent = errors.New("unknown event type")

// Event types accepted on a map session.
const (
	EventPointerDown  = "pointerdown"
	EventPointerMove  = "pointermove"
	EventPointerUp    = "pointerup"
	EventPointerLeave = "pointerleave"
	EventZoomIn       = "zoomin"
	EventZoomOut      = "zoomout"
	EventReset        = "reset"
	EventQuery        = "query"
	EventSeverity     = "severity"
	EventSelect       = "select"
	EventDismiss      = "dismiss"
	EventRefresh      = "refresh"
	EventRender       = "render"
)

// Reply types sent on a map session.
const (
	ReplyView  = "view"
	ReplySVG   = "svg"
	ReplyError = "error"
)

const (
	maxEventSize = 4096
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	writeWait    = 10 * time.Second
)

// Event is one client message. X and Y are screen pixels. For pointerdown,
// a nil Target asks the server to hit-test the point; 0 means background.
type Event struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Target *int    `json:"target,omitempty"`
	ID     int     `json:"id,omitempty"`
	Value  string  `json:"value,omitempty"`
}

// Reply is one server message: the view after an event, a rendered SVG, or
// an error. A failed event leaves the view unchanged.
type Reply struct {
	Type  string        `json:"type"`
	View  *mapview.View `json:"view,omitempty"`
	SVG   string        `json:"svg,omitempty"`
	Error string        `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// session owns one map controller. Events are applied by the single read
// loop, so the controller needs no locking.
type session struct {
	id       string
	conn     *websocket.Conn
	ctrl     *mapview.Controller
	surface  *mapview.SVGSurface
	hotspots domain.HotspotProvider
	metrics  *observability.Metrics
	logger   *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn, hotspots []domain.Hotspot, provider domain.HotspotProvider,
	opts mapview.Options, metrics *observability.Metrics, logger *slog.Logger,
) *session {
	id := uuid.NewString()
	surface := mapview.NewSVGSurface(opts.Projection)
	return &session{
		id:       id,
		conn:     conn,
		ctrl:     mapview.NewController(surface, hotspots, opts),
		surface:  surface,
		hotspots: provider,
		metrics:  metrics,
		logger:   logger.With("session_id", id),
		done:     make(chan struct{}),
	}
}

func (s *Server) handleMapSession(w http.ResponseWriter, r *http.Request) {
	hotspots, err := s.deps.Hotspots.Hotspots(r.Context())
	if err != nil {
		s.logger.Error("open map session failed", "error", err)
		writeInternalError(w, "failed to load hotspots")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, hotspots, s.deps.Hotspots, s.mapOptions(), s.deps.Metrics, s.logger)
	s.register(sess)
	defer s.unregister(sess)

	sess.logger.Info("map session opened", "remote_addr", r.RemoteAddr)
	sess.run(r.Context())
	sess.logger.Info("map session closed")
}

// run sends the initial view, then applies events until the connection
// fails or is closed.
func (ss *session) run(ctx context.Context) {
	defer ss.close()
	go ss.pingLoop()

	ss.conn.SetReadLimit(maxEventSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := ss.write(ss.viewReply()); err != nil {
		return
	}

	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ss.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := ss.write(ss.handle(ctx, data)); err != nil {
			return
		}
	}
}

// handle decodes and applies one raw event. Failures become error replies
// and the session carries on.
func (ss *session) handle(ctx context.Context, data []byte) Reply {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Reply{Type: ReplyError, Error: "invalid JSON event"}
	}
	reply, err := ss.apply(ctx, ev)
	if err != nil {
		ss.logger.Debug("map event rejected", "type", ev.Type, "error", err)
		return Reply{Type: ReplyError, Error: err.Error()}
	}
	return reply
}

// apply runs one event against the controller and returns the reply.
func (ss *session) apply(ctx context.Context, ev Event) (Reply, error) {
	p := mapview.Point{X: ev.X, Y: ev.Y}

	switch ev.Type {
	case EventPointerDown:
		target := mapview.Background
		switch {
		case ev.Target == nil:
			target = ss.ctrl.TargetAt(p)
		case *ev.Target > 0:
			target = mapview.MarkerTarget(*ev.Target)
		}
		if err := ss.ctrl.PointerDown(p, target); err != nil {
			return Reply{}, err
		}
	case EventPointerMove:
		ss.ctrl.PointerMove(p)
	case EventPointerUp:
		ss.ctrl.PointerUp(p)
	case EventPointerLeave:
		ss.ctrl.PointerLeave(p)
	case EventZoomIn:
		ss.ctrl.ZoomIn()
	case EventZoomOut:
		ss.ctrl.ZoomOut()
	case EventReset:
		ss.ctrl.ResetView()
	case EventQuery:
		ss.ctrl.SetQuery(ev.Value)
	case EventSeverity:
		f, err := domain.ParseSeverityFilter(ev.Value)
		if err != nil {
			return Reply{}, err
		}
		ss.ctrl.SetSeverity(f)
	case EventSelect:
		if err := ss.ctrl.Select(ev.ID); err != nil {
			return Reply{}, err
		}
	case EventDismiss:
		ss.ctrl.Dismiss()
	case EventRefresh:
		hs, err := ss.hotspots.Hotspots(ctx)
		if err != nil {
			return Reply{}, fmt.Errorf("refresh hotspots: %w", err)
		}
		ss.ctrl.SetHotspots(hs)
	case EventRender:
		reply, err := ss.svgReply()
		if err != nil {
			return Reply{}, err
		}
		ss.metrics.MapEvents.WithLabelValues(ev.Type).Inc()
		return reply, nil
	default:
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	ss.metrics.MapEvents.WithLabelValues(ev.Type).Inc()
	return ss.viewReply(), nil
}

func (ss *session) viewReply() Reply {
	v := ss.ctrl.Snapshot()
	return Reply{Type: ReplyView, View: &v}
}

func (ss *session) svgReply() (Reply, error) {
	var buf bytes.Buffer
	if err := ss.surface.Render(&buf); err != nil {
		return Reply{}, fmt.Errorf("render map: %w", err)
	}
	return Reply{Type: ReplySVG, SVG: buf.String()}, nil
}

func (ss *session) write(r Reply) error {
	_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ss.conn.WriteJSON(r); err != nil {
		ss.logger.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}

// pingLoop keeps the connection alive. WriteControl is safe to call
// concurrently with the read loop's writes.
func (ss *session) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ss.done:
			return
		case <-ticker.C:
			if err := ss.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (ss *session) close() {
	ss.closeOnce.Do(func() {
		close(ss.done)
		_ = ss.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
			time.Now().Add(time.Second))
		_ = ss.conn.Close()
	})
}
