package rpc

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"publisher/internal/gateway/events"
)

// DeploymentFeedPath serves the websocket feed of deployment events.
const DeploymentFeedPath = "/ws/deployments"

const (
	feedWriteWait = 10 * time.Second
	feedPongWait  = 60 * time.Second
	feedPingEvery = (feedPongWait * 9) / 10
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type Subscriber interface {
	Subscribe(ctx context.Context, subject string) (<-chan events.Envelope, error)
}

type feedOutbound struct {
	Type           string           `json:"type"`
	OrganizationID string           `json:"organizationId,omitempty"`
	Event          *events.Envelope `json:"event,omitempty"`
	Code           string           `json:"code,omitempty"`
	Message        string           `json:"message,omitempty"`
}

// DeploymentFeedHandler streams deployment events of one organization.
type DeploymentFeedHandler struct {
	hub    Subscriber
	logger *zap.SugaredLogger
}

func NewDeploymentFeedHandler(hub Subscriber, logger *zap.SugaredLogger) *DeploymentFeedHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DeploymentFeedHandler{hub: hub, logger: logger}
}

func (h *DeploymentFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if orgID == "" {
		http.Error(w, "organization_id is required", http.StatusBadRequest)
		return
	}

	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(feedPongWait)); err != nil {
		h.logger.Warnw("deployment feed set read deadline failed", "error", err.Error())
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	sub, err := h.hub.Subscribe(ctx, orgID)
	if err != nil {
		_ = conn.WriteJSON(feedOutbound{Type: "error", Code: "invalid_argument", Message: err.Error()})
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		// Closing unblocks the read loop below.
		defer conn.Close()
		defer cancel()
		ticker := time.NewTicker(feedPingEvery)
		defer ticker.Stop()

		if !h.write(conn, feedOutbound{Type: "subscribed", OrganizationID: orgID}) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-sub:
				if !ok {
					return
				}
				if !h.write(conn, feedOutbound{Type: "event", OrganizationID: orgID, Event: &env}) {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(feedWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reads only drive pong handling and detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}

func (h *DeploymentFeedHandler) write(conn *websocket.Conn, out feedOutbound) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(feedWriteWait)); err != nil {
		return false
	}
	if err := conn.WriteJSON(out); err != nil {
		h.logger.Debugw("deployment feed write failed", "error", err.Error())
		return false
	}
	return true
}
