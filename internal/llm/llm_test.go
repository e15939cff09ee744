package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNormalizeProvider(t *testing.T) {
	if got := NormalizeProvider("google"); got != "gemini" {
		t.Fatalf("NormalizeProvider(google) = %q", got)
	}
	if got := NormalizeProvider("gemini"); got != "gemini" {
		t.Fatalf("NormalizeProvider(gemini) = %q", got)
	}
	if got := NormalizeProvider("openai"); got != "openai" {
		t.Fatalf("NormalizeProvider(openai) = %q", got)
	}
}

func TestFakeClientScript(t *testing.T) {
	cli := NewFakeClient("one", "two")
	ctx := context.Background()

	for _, want := range []string{"one", "two", "two", "two"} {
		got, err := cli.Call(ctx, Request{Label: "t"})
		if err != nil {
			t.Fatalf("Call() error: %v", err)
		}
		if got != want {
			t.Fatalf("Call() = %q, want %q", got, want)
		}
	}
	if len(cli.Calls()) != 4 {
		t.Fatalf("Calls() = %d, want 4", len(cli.Calls()))
	}
}

func TestFakeClientFailWith(t *testing.T) {
	cli := NewFakeClient("ok").FailWith(errors.New("boom"))
	ctx := context.Background()

	if _, err := cli.Call(ctx, Request{}); err == nil || err.Error() != "boom" {
		t.Fatalf("first call err = %v, want boom", err)
	}
	if got, err := cli.Call(ctx, Request{}); err != nil || got != "ok" {
		t.Fatalf("second call = %q, %v", got, err)
	}
}

type recorderSpy struct {
	mu   sync.Mutex
	recs []CallRecord
}

func (r *recorderSpy) Record(_ context.Context, rec CallRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
}

func TestWithAuditRecordsCalls(t *testing.T) {
	spy := &recorderSpy{}
	cli := WithAudit(NewFakeClient("response text"), "gemini", "gemini-2.5-flash", spy)

	if cli.Name() != "FakeLLM" {
		t.Fatalf("Name() = %q", cli.Name())
	}

	resp, err := cli.Call(context.Background(), Request{
		SystemPrompt: "sys",
		UserPrompt:   "user",
		Label:        "first_question",
	})
	if err != nil || resp != "response text" {
		t.Fatalf("Call() = %q, %v", resp, err)
	}

	if len(spy.recs) != 1 {
		t.Fatalf("records = %d, want 1", len(spy.recs))
	}
	rec := spy.recs[0]
	if rec.Purpose != "first_question" || rec.Provider != "gemini" || rec.Model != "gemini-2.5-flash" {
		t.Fatalf("record = %+v", rec)
	}
	if !strings.Contains(rec.Prompt, "sys") || !strings.Contains(rec.Prompt, "user") {
		t.Fatalf("prompt not captured: %q", rec.Prompt)
	}
	if rec.Response != "response text" || rec.Error != "" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestWithAuditRecordsErrors(t *testing.T) {
	spy := &recorderSpy{}
	cli := WithAudit(NewFakeClient().FailWith(errors.New("quota")), "gemini", "m", spy)

	if _, err := cli.Call(context.Background(), Request{Label: "next_question"}); err == nil {
		t.Fatalf("expected error")
	}
	if len(spy.recs) != 1 || spy.recs[0].Error != "quota" {
		t.Fatalf("records = %+v", spy.recs)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 4000); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	long := strings.Repeat("é", 5000)
	got := truncate(long, 4000)
	if n := len([]rune(got)); n != 4000 {
		t.Fatalf("truncate rune count = %d, want 4000", n)
	}
}

func TestClientFactoryUnknownProvider(t *testing.T) {
	f := NewClientFactory(ProviderKeys{}, nil, 0, 0)

	if _, err := f.New(context.Background(), "anthropic", "claude"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
	// Gemini without a key is also unavailable.
	if _, err := f.New(context.Background(), "gemini", "m"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestClientFactoryFakeProvider(t *testing.T) {
	spy := &recorderSpy{}
	f := NewClientFactory(ProviderKeys{}, spy, 0, 0)

	cli, err := f.New(context.Background(), "fake", "any")
	if err != nil {
		t.Fatalf("New(fake) error: %v", err)
	}
	defer cli.Close()

	if _, err := cli.Call(context.Background(), Request{Label: "t"}); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(spy.recs) != 1 {
		t.Fatalf("fake client not audited")
	}
}

func TestRPSLimiter(t *testing.T) {
	l := newRPSLimiter(1000, 2)
	defer l.Stop()

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire 1: %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire 2: %v", err)
	}

	// Burst spent; the refill ticker keeps us moving.
	deadline, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := l.Acquire(deadline); err != nil {
		t.Fatalf("Acquire after burst: %v", err)
	}
}

func TestRPSLimiterDisabled(t *testing.T) {
	l := newRPSLimiter(0, 0)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("disabled limiter Acquire: %v", err)
	}
	l.Stop()
}

func TestRPSLimiterStopUnblocks(t *testing.T) {
	l := newRPSLimiter(0.001, 1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- l.Acquire(context.Background()) }()

	l.Stop()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("Acquire succeeded after Stop")
		}
	case <-time.After(time.Second):
		t.Fatalf("Acquire did not unblock on Stop")
	}
}
