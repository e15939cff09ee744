package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"prismdocs/internal/canvas"
)

// CanvasHandler serves the canvas websocket stream plus the report/session
// HTTP endpoints.
type CanvasHandler struct {
	svc *canvas.Service
}

func NewCanvasHandler(svc *canvas.Service) *CanvasHandler {
	return &CanvasHandler{svc: svc}
}

const (
	canvasWSWriteWait = 10 * time.Second
	canvasWSPongWait  = 60 * time.Second
	canvasWSPingEvery = (canvasWSPongWait * 9) / 10
)

var canvasWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type canvasWSInbound struct {
	Type             string             `json:"type"`
	Idea             string             `json:"idea,omitempty"`
	Template         string             `json:"template,omitempty"`
	Provider         string             `json:"provider,omitempty"`
	Model            string             `json:"model,omitempty"`
	SessionID        string             `json:"sessionId,omitempty"`
	Answer           canvas.AnswerValue `json:"answer,omitempty"`
	SelectedOptionID string             `json:"selectedOptionId,omitempty"`
}

// HandleCanvasWS upgrades to a websocket and serves start/answer requests,
// streaming each request's events back in order. One request is processed
// at a time per connection; events for a request are never interleaved.
func (h *CanvasHandler) HandleCanvasWS(w http.ResponseWriter, r *http.Request) {
	conn, err := canvasWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(canvasWSPongWait)); err != nil {
		log.Printf("canvas ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(canvasWSPongWait))
	})

	writeCh := make(chan canvas.Event, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(canvasWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(canvasWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(canvasWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	emit := func(evt canvas.Event) {
		select {
		case writeCh <- evt:
		case <-ctx.Done():
		}
	}

	for {
		var in canvasWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(canvasWSPongWait))

		switch in.Type {
		case "start":
			h.svc.Start(ctx, canvas.StartRequest{
				Idea:     in.Idea,
				Template: in.Template,
				Provider: in.Provider,
				Model:    in.Model,
			}, emit)
		case "answer":
			h.svc.Answer(ctx, canvas.AnswerRequest{
				SessionID:        in.SessionID,
				Answer:           in.Answer,
				SelectedOptionID: in.SelectedOptionID,
			}, emit)
		default:
			emit(canvas.Event{
				Kind:    canvas.EventError,
				Code:    "BAD_REQUEST",
				Message: "unknown message type: " + in.Type,
			})
		}
	}
}

type reportRequest struct {
	SessionID string `json:"session_id"`
}

// HandleGenerateReport synthesizes the session report.
func (h *CanvasHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	rep, err := h.svc.GenerateReport(r.Context(), req.SessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errorIsNotFound(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, rep)
}

// HandleSession serves GET (snapshot) and DELETE for a session.
func (h *CanvasHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		snap, ok := h.svc.GetSession(sessionID)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, snap)
	case http.MethodDelete:
		if !h.svc.DeleteSession(sessionID) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]bool{"deleted": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func errorIsNotFound(err error) bool {
	return errors.Is(err, canvas.ErrSessionNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("canvas: write response failed: %v", err)
	}
}
