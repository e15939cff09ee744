package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"prismdocs/internal/canvas"
	"prismdocs/internal/llm"
)

type fakeClients struct {
	cli llm.Client
}

func (f fakeClients) New(_ context.Context, _, _ string) (llm.Client, error) {
	return f.cli, nil
}

func newCanvasWSServer(t *testing.T, cli llm.Client) (*httptest.Server, *canvas.Service) {
	t.Helper()
	svc := canvas.NewService(canvas.Options{
		Registry: canvas.NewRegistry(16, time.Hour),
		Clients:  fakeClients{cli: cli},
	})
	srv := httptest.NewServer(http.HandlerFunc(NewCanvasHandler(svc).HandleCanvasWS))
	t.Cleanup(srv.Close)
	return srv, svc
}

func dialCanvasWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) canvas.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var evt canvas.Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

// readUntil consumes progress events and returns the first event of any
// other kind.
func readUntil(t *testing.T, conn *websocket.Conn) canvas.Event {
	t.Helper()
	for {
		evt := readEvent(t, conn)
		if evt.Kind != canvas.EventProgress {
			return evt
		}
	}
}

func TestCanvasWSStartAnswerRoundTrip(t *testing.T) {
	cli := llm.NewFakeClient(
		`{"question":"Who is this for?","type":"single_choice",`+
			`"options":[{"id":"opt_1","label":"Students"},{"id":"opt_2","label":"Teams"}]}`,
		`{"suggest_complete":true,"summary":"Enough to spec it out."}`,
	)
	srv, _ := newCanvasWSServer(t, cli)
	conn := dialCanvasWS(t, srv.URL)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":     "start",
		"idea":     "a study-notes app",
		"template": "web_app",
	}))

	ready := readUntil(t, conn)
	require.Equal(t, canvas.EventReady, ready.Kind)
	require.NotEmpty(t, ready.SessionID)

	question := readUntil(t, conn)
	require.Equal(t, canvas.EventQuestion, question.Kind)
	require.NotNil(t, question.Question)
	require.Len(t, question.Question.Options, 2)
	require.Equal(t, 1, question.Canvas.QuestionCount)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "answer",
		"sessionId": question.SessionID,
		"answer":    "Students",
	}))

	complete := readUntil(t, conn)
	require.Equal(t, canvas.EventComplete, complete.Kind)
	require.Equal(t, "Enough to spec it out.", complete.Message)
	require.True(t, complete.Canvas.IsComplete)
}

func TestCanvasWSListAnswer(t *testing.T) {
	cli := llm.NewFakeClient(
		`{"question":"Which platforms?","type":"single_choice"}`,
		`{"question":"Next?","type":"single_choice"}`,
	)
	srv, svc := newCanvasWSServer(t, cli)
	conn := dialCanvasWS(t, srv.URL)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start", "idea": "idea", "template": "custom"}))
	readUntil(t, conn) // ready
	question := readUntil(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "answer",
		"sessionId": question.SessionID,
		"answer":    []string{"Web", "Mobile"},
	}))
	next := readUntil(t, conn)
	require.Equal(t, canvas.EventQuestion, next.Kind)

	snap, ok := svc.GetSession(question.SessionID)
	require.True(t, ok)
	require.Equal(t, 2, snap.QuestionCount)
}

func TestCanvasWSAnswerUnknownSession(t *testing.T) {
	srv, _ := newCanvasWSServer(t, llm.NewFakeClient())
	conn := dialCanvasWS(t, srv.URL)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "answer",
		"sessionId": "sess_missing",
		"answer":    "x",
	}))
	evt := readEvent(t, conn)
	require.Equal(t, canvas.EventError, evt.Kind)
	require.Equal(t, canvas.CodeAnswerError, evt.Code)
	require.Contains(t, evt.Message, "session not found")
}

func TestCanvasWSUnknownType(t *testing.T) {
	srv, _ := newCanvasWSServer(t, llm.NewFakeClient())
	conn := dialCanvasWS(t, srv.URL)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "restart"}))
	evt := readEvent(t, conn)
	require.Equal(t, canvas.EventError, evt.Kind)
	require.Equal(t, "BAD_REQUEST", evt.Code)
	require.Contains(t, evt.Message, "restart")
}
