package llm

import (
	"context"
	"log"
	"time"
)

// CallRecord is one audited provider call.
type CallRecord struct {
	Purpose   string
	Provider  string
	Model     string
	Prompt    string
	Response  string
	LatencyMS int64
	Error     string
}

// Recorder persists call records. Recording is best effort; failures must
// not affect the call itself.
type Recorder interface {
	Record(ctx context.Context, rec CallRecord)
}

// WithAudit wraps a client so every call is logged and recorded.
func WithAudit(next Client, provider, model string, rec Recorder) Client {
	return &audited{next: next, provider: provider, model: model, rec: rec}
}

type audited struct {
	next     Client
	provider string
	model    string
	rec      Recorder
}

func (a *audited) Name() string { return a.next.Name() }
func (a *audited) Close() error { return a.next.Close() }

func (a *audited) Call(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	log.Printf("LLM request (%s): %d bytes", req.Label, len(req.SystemPrompt)+len(req.UserPrompt))
	resp, err := a.next.Call(ctx, req)
	if err != nil {
		log.Printf("LLM error (%s): %v", req.Label, err)
	}
	if a.rec != nil {
		record := CallRecord{
			Purpose:   req.Label,
			Provider:  a.provider,
			Model:     a.model,
			Prompt:    truncate(req.SystemPrompt+"\n\n"+req.UserPrompt, 4000),
			Response:  truncate(resp, 4000),
			LatencyMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			record.Error = err.Error()
		}
		a.rec.Record(ctx, record)
	}
	return resp, err
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
