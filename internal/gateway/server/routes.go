package server

import (
	"net/http"

	"prismdocs/internal/gateway/handler/rpc"
	"prismdocs/internal/gateway/middleware"
)

func NewMux(canvasHandler *rpc.CanvasHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws/canvas", canvasHandler.HandleCanvasWS)
	mux.HandleFunc("/canvas/report", canvasHandler.HandleGenerateReport)
	mux.HandleFunc("/canvas/session", canvasHandler.HandleSession)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.CORS(mux)
}
