package app

import (
	"context"
	"fmt"
	"log"

	"prismdocs/internal/canvas"
	"prismdocs/internal/gateway/config"
	"prismdocs/internal/gateway/handler/rpc"
	"prismdocs/internal/gateway/repository/llmlog"
	"prismdocs/internal/gateway/repository/report"
	"prismdocs/internal/gateway/server"
	"prismdocs/internal/image"
	"prismdocs/internal/llm"
	"prismdocs/internal/render"
)

type App struct {
	server *server.Server
	logs   *llmlog.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	logStore := llmlog.NewFromEnv()

	clients := llm.NewClientFactory(llm.ProviderKeys{
		Gemini:    cfg.Provider.GeminiAPIKey,
		OpenAI:    cfg.Provider.OpenAIAPIKey,
		Anthropic: cfg.Provider.AnthropicAPIKey,
	}, logStore, cfg.Provider.RPS, cfg.Provider.Burst)

	var images canvas.ImageGenerator
	if cfg.Provider.GeminiAPIKey != "" {
		svc, err := image.New(ctx, cfg.Provider.GeminiAPIKey)
		if err != nil {
			log.Printf("image service unavailable: %v", err)
		} else {
			images = svc
		}
	}

	var reports canvas.ReportStore
	if cfg.Artifact.Enabled {
		s3, err := report.NewS3Store(report.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Printf("report store unavailable, using memory store: %v", err)
			reports = report.NewMemoryStore()
		} else {
			reports = s3
		}
	} else {
		reports = report.NewMemoryStore()
	}

	registry := canvas.NewRegistry(cfg.Canvas.MaxSessions, cfg.Canvas.SessionTTL)
	canvasSvc := canvas.NewService(canvas.Options{
		Registry: registry,
		Clients:  clients,
		Images:   images,
		Renderer: render.NewMarkdownRenderer(),
		Reports:  reports,
		HardCap:  cfg.Canvas.HardCap,
		WorkDir:  cfg.Canvas.WorkDir,
	})

	canvasHandler := rpc.NewCanvasHandler(canvasSvc)

	// Routing & Server
	mux := server.NewMux(canvasHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		logs:   logStore,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return a.logs.Close()
}
