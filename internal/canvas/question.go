package canvas

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// QuestionType discriminates how a question is presented.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionApproach     QuestionType = "approach"
)

// Option is one selectable choice offered with a single_choice question.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Recommended bool   `json:"recommended"`
}

// Approach is one alternative offered with an approach question, including
// its trade-offs.
type Approach struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Recommended bool     `json:"recommended"`
}

// Question is one turn's prompt to the user.
type Question struct {
	ID         string       `json:"id"`
	Question   string       `json:"question"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options"`
	Approaches []Approach   `json:"approaches"`
	AllowSkip  bool         `json:"allow_skip"`
	Context    string       `json:"context,omitempty"`
}

const defaultQuestionText = "What would you like to do?"

func newSessionID() string  { return "sess_" + uuid.NewString()[:12] }
func newQuestionID() string { return "q_" + hexID(8) }
func newAnswerID() string   { return "a_" + hexID(8) }

func hexID(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}

// buildQuestion maps a loosely-typed decoded provider object into a
// Question. Missing or unrecognized fields fall back to defaults so the
// dialog can always present something to the user; an empty object yields a
// default single_choice question with no options.
func buildQuestion(data map[string]any, questionID string) Question {
	qt := QuestionType(stringField(data, "type"))
	if qt != QuestionSingleChoice && qt != QuestionApproach {
		qt = QuestionSingleChoice
	}

	var options []Option
	if qt == QuestionSingleChoice {
		for _, raw := range listField(data, "options") {
			opt, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id := stringField(opt, "id")
			if id == "" {
				id = fmt.Sprintf("opt_%s", hexID(6))
			}
			options = append(options, Option{
				ID:          id,
				Label:       stringField(opt, "label"),
				Description: stringField(opt, "description"),
				Recommended: boolField(opt, "recommended"),
			})
		}
	}

	var approaches []Approach
	if qt == QuestionApproach {
		for _, raw := range listField(data, "approaches") {
			appr, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id := stringField(appr, "id")
			if id == "" {
				id = fmt.Sprintf("appr_%s", hexID(6))
			}
			approaches = append(approaches, Approach{
				ID:          id,
				Title:       stringField(appr, "title"),
				Description: stringField(appr, "description"),
				Pros:        stringListField(appr, "pros"),
				Cons:        stringListField(appr, "cons"),
				Recommended: boolField(appr, "recommended"),
			})
		}
	}

	text := stringField(data, "question")
	if text == "" {
		text = defaultQuestionText
	}

	return Question{
		ID:         questionID,
		Question:   text,
		Type:       qt,
		Options:    options,
		Approaches: approaches,
		AllowSkip:  true,
		Context:    stringField(data, "context"),
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func listField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	l, _ := m[key].([]any)
	return l
}

func stringListField(m map[string]any, key string) []string {
	var out []string
	for _, v := range listField(m, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
