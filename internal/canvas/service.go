package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"prismdocs/internal/llm"
)

var (
	ErrSessionNotFound = errors.New("canvas: session not found")
	ErrSessionComplete = errors.New("canvas: session already complete")
	ErrSessionFailed   = errors.New("canvas: session is in error state")
)

// ImageGenerator produces an optional summary illustration. Absent results
// are fine; report generation proceeds without an image.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Renderer turns the assembled report into a document file and returns its
// path. Binary formats live behind this interface.
type Renderer interface {
	Render(ctx context.Context, title, markup, workDir string) (string, error)
}

// ReportStore persists rendered report content under a session-scoped path.
type ReportStore interface {
	Put(ctx context.Context, sessionID, path string, content []byte) error
}

// Options wires a Service. Registry and Clients are required; the rest are
// optional collaborators.
type Options struct {
	Registry *Registry
	Clients  llm.Factory
	Images   ImageGenerator
	Renderer Renderer
	Reports  ReportStore

	// HardCap bounds questions per session (default DefaultHardCap).
	HardCap int
	// ProviderWorkers bounds concurrent provider calls across all sessions
	// (default 2).
	ProviderWorkers int
	// WorkDir is where the renderer writes document files.
	WorkDir string
}

// Service drives the start/continue/complete protocol for canvas sessions.
// Mutating operations on one session serialize on the session's lock;
// blocking provider calls go through a bounded pool so a slow call for one
// session cannot starve unrelated sessions beyond the pool ceiling.
type Service struct {
	registry *Registry
	clients  llm.Factory
	images   ImageGenerator
	renderer Renderer
	reports  ReportStore
	hardCap  int
	pool     *callPool
	workDir  string
}

func NewService(opts Options) *Service {
	hardCap := opts.HardCap
	if hardCap <= 0 {
		hardCap = DefaultHardCap
	}
	return &Service{
		registry: opts.Registry,
		clients:  opts.Clients,
		images:   opts.Images,
		renderer: opts.Renderer,
		reports:  opts.Reports,
		hardCap:  hardCap,
		pool:     newCallPool(opts.ProviderWorkers),
		workDir:  opts.WorkDir,
	}
}

// StartRequest begins a new session.
type StartRequest struct {
	Idea     string `json:"idea"`
	Template string `json:"template"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// AnswerValue accepts either a JSON string or a list of strings; a list is
// joined with ", ".
type AnswerValue []string

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AnswerValue{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("answer must be a string or a list of strings")
	}
	*a = AnswerValue(many)
	return nil
}

func (a AnswerValue) String() string { return strings.Join(a, ", ") }

// AnswerRequest submits the answer to the pending question.
type AnswerRequest struct {
	SessionID        string      `json:"session_id"`
	Answer           AnswerValue `json:"answer"`
	SelectedOptionID string      `json:"selected_option_id,omitempty"`
}

// Start creates a session and asks the first question. Events are emitted
// in order: progress, ready, question; any failure ends with a single
// START_ERROR event and stops the session's forward progress.
func (s *Service) Start(ctx context.Context, req StartRequest, emit Emitter) {
	sess := NewSession(
		newSessionID(),
		req.Idea,
		req.Template,
		llm.NormalizeProvider(req.Provider),
		req.Model,
	)
	s.registry.Put(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	emit(progressEvent("Starting canvas session..."))

	cli, err := s.clients.New(ctx, sess.Provider, sess.Model)
	if err != nil {
		sess.failed = true
		emit(errorEvent(CodeStartError, sess.ID, err))
		return
	}
	defer cli.Close()

	emit(progressEvent("Generating first question..."))

	resp, err := s.callProvider(ctx, cli, llm.Request{
		SystemPrompt: questionSystemPrompt(sess.Template),
		UserPrompt:   firstQuestionPrompt(sess.Idea, sess.Template),
		MaxTokens:    2000,
		Temperature:  0.7,
		JSONMode:     true,
		Label:        "first_question",
	})
	if err != nil {
		sess.failed = true
		emit(errorEvent(CodeStartError, sess.ID, err))
		return
	}

	data, _ := extractObject(resp)
	questionID := newQuestionID()
	question := buildQuestion(data, questionID)
	sess.AddQuestion(question.Question, questionID, question.Options)

	emit(Event{Kind: EventReady, SessionID: sess.ID, Canvas: sess.Snapshot()})
	emit(Event{Kind: EventQuestion, SessionID: sess.ID, Question: &question, Canvas: sess.Snapshot()})
}

// Answer records the user's answer and either asks the next question or
// completes the session. A completed or errored session rejects further
// answers. The history append happens before the provider call and is kept
// even if that call fails.
func (s *Service) Answer(ctx context.Context, req AnswerRequest, emit Emitter) {
	sess, ok := s.registry.Get(req.SessionID)
	if !ok {
		emit(errorEvent(CodeAnswerError, req.SessionID, fmt.Errorf("%w: %s", ErrSessionNotFound, req.SessionID)))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Complete {
		emit(errorEvent(CodeAnswerError, sess.ID, ErrSessionComplete))
		return
	}
	if sess.failed {
		emit(errorEvent(CodeAnswerError, sess.ID, ErrSessionFailed))
		return
	}

	emit(progressEvent("Processing answer..."))

	answer := req.Answer.String()
	sess.History = append(sess.History, HistoryEntry{
		Question: sess.CurrentQuestionLabel(),
		Answer:   answer,
	})

	selected := strings.TrimSpace(req.SelectedOptionID)
	if selected == "" {
		selected = sess.resolveSelectedOption(answer)
	}
	sess.AddAnswer(answer, newAnswerID(), selected)

	cli, err := s.clients.New(ctx, sess.Provider, sess.Model)
	if err != nil {
		sess.failed = true
		emit(errorEvent(CodeAnswerError, sess.ID, err))
		return
	}
	defer cli.Close()

	emit(progressEvent("Generating next question..."))

	resp, err := s.callProvider(ctx, cli, llm.Request{
		SystemPrompt: questionSystemPrompt(sess.Template),
		UserPrompt:   nextQuestionPrompt(sess.Idea, sess.History, sess.QuestionCount),
		MaxTokens:    2000,
		Temperature:  0.7,
		JSONMode:     true,
		Label:        "next_question",
	})
	if err != nil {
		sess.failed = true
		emit(errorEvent(CodeAnswerError, sess.ID, err))
		return
	}

	data, _ := extractObject(resp)
	hardCapReached := sess.QuestionCount >= s.hardCap
	if shouldComplete(boolField(data, "suggest_complete"), sess.QuestionCount, s.hardCap) {
		sess.Complete = true
		emit(Event{
			Kind:      EventComplete,
			SessionID: sess.ID,
			Message:   completionMessage(stringField(data, "summary"), hardCapReached),
			Canvas:    sess.Snapshot(),
		})
		return
	}

	questionID := newQuestionID()
	question := buildQuestion(data, questionID)
	sess.AddQuestion(question.Question, questionID, question.Options)

	emit(Event{Kind: EventQuestion, SessionID: sess.ID, Question: &question, Canvas: sess.Snapshot()})
}

// GetSession returns a snapshot of a session.
func (s *Service) GetSession(id string) (*Snapshot, bool) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Snapshot(), true
}

// DeleteSession removes a session and reports whether it existed.
func (s *Service) DeleteSession(id string) bool {
	return s.registry.Delete(id)
}

func (s *Service) callProvider(ctx context.Context, cli llm.Client, req llm.Request) (string, error) {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	return cli.Call(ctx, req)
}

// callPool bounds the number of in-flight provider calls across sessions.
type callPool struct {
	sem chan struct{}
}

func newCallPool(n int) *callPool {
	if n <= 0 {
		n = 2
	}
	return &callPool{sem: make(chan struct{}, n)}
}

func (p *callPool) acquire(ctx context.Context) (func(), error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, nil
	}
}
