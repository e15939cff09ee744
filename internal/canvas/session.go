package canvas

import "sync"

// HistoryEntry is one completed question/answer turn.
type HistoryEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is one user's elicitation dialog: the dialog tree, the flat
// conversation history, and the turn counters. All mutation goes through
// AddQuestion/AddAnswer; the registry owns the session and the service
// serializes mutating operations via mu.
type Session struct {
	mu sync.Mutex

	ID       string
	Idea     string
	Template string
	Provider string
	Model    string

	Tree    *Node
	History []HistoryEntry

	CurrentQuestionID      string
	CurrentQuestionOptions []Option

	QuestionCount int
	Complete      bool

	// failed marks a session whose last operation errored; forward progress
	// (further provider calls) stops but the session data survives.
	failed bool
}

// Snapshot is the externally visible session state carried on events.
type Snapshot struct {
	SessionID     string `json:"session_id"`
	Idea          string `json:"idea"`
	Template      string `json:"template"`
	Nodes         *Node  `json:"nodes"`
	QuestionCount int    `json:"question_count"`
	IsComplete    bool   `json:"is_complete"`
}

// NewSession creates a session whose tree holds only the root idea node.
func NewSession(id, idea, template, provider, model string) *Session {
	return &Session{
		ID:       id,
		Idea:     idea,
		Template: template,
		Provider: provider,
		Model:    model,
		Tree: &Node{
			ID:          "root",
			Kind:        NodeRoot,
			Label:       truncateLabel(idea, rootLabelLimit),
			Description: idea,
		},
	}
}

// AddQuestion inserts a question node at the deepest open branch and records
// the question's options for the pending turn.
func (s *Session) AddQuestion(text, questionID string, options []Option) {
	node := &Node{
		ID:          questionID,
		Kind:        NodeQuestion,
		Label:       truncateLabel(text, nodeLabelLimit),
		Description: text,
	}
	insertAtDeepestOpenQuestion(s.Tree, node)
	s.CurrentQuestionID = questionID
	s.CurrentQuestionOptions = options
	s.QuestionCount++
}

// AddAnswer attaches an answer node under the current question, recording
// every option that was offered plus the one selected. The pending turn's
// options are cleared afterwards; they live for exactly one turn.
func (s *Session) AddAnswer(answer, answerID, selectedOptionID string) {
	node := &Node{
		ID:               answerID,
		Kind:             NodeAnswer,
		Label:            truncateLabel(answer, nodeLabelLimit),
		Description:      answer,
		Options:          s.CurrentQuestionOptions,
		SelectedOptionID: selectedOptionID,
	}
	if s.CurrentQuestionID != "" {
		attachChild(s.Tree, s.CurrentQuestionID, node)
	}
	s.CurrentQuestionOptions = nil
}

// CurrentQuestionLabel returns the label of the most recent question node,
// or "" if no question is pending.
func (s *Session) CurrentQuestionLabel() string {
	if s.CurrentQuestionID == "" {
		return ""
	}
	if n := findNode(s.Tree, s.CurrentQuestionID); n != nil {
		return n.Label
	}
	return ""
}

// resolveSelectedOption matches answer text against the pending turn's
// options, by id or by label, first match wins.
func (s *Session) resolveSelectedOption(answer string) string {
	for _, opt := range s.CurrentQuestionOptions {
		if opt.ID == answer || opt.Label == answer {
			return opt.ID
		}
	}
	return ""
}

// Snapshot deep-copies the tree so the snapshot stays stable while later
// turns keep mutating the session.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		SessionID:     s.ID,
		Idea:          s.Idea,
		Template:      s.Template,
		Nodes:         cloneNode(s.Tree),
		QuestionCount: s.QuestionCount,
		IsComplete:    s.Complete,
	}
}
