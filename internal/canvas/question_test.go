package canvas

import (
	"strings"
	"testing"
)

func TestBuildQuestionSingleChoice(t *testing.T) {
	data := map[string]any{
		"question": "Who is this for?",
		"type":     "single_choice",
		"context":  "Audience shapes everything else.",
		"options": []any{
			map[string]any{"id": "opt_1", "label": "Students", "recommended": true},
			map[string]any{"label": "Teams", "description": "Shared workspaces"},
			"not an object",
		},
	}
	q := buildQuestion(data, "q_abc")

	if q.ID != "q_abc" || q.Question != "Who is this for?" || q.Type != QuestionSingleChoice {
		t.Fatalf("question = %+v", q)
	}
	if !q.AllowSkip {
		t.Fatalf("AllowSkip = false")
	}
	if q.Context != "Audience shapes everything else." {
		t.Fatalf("Context = %q", q.Context)
	}
	if len(q.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(q.Options))
	}
	if q.Options[0].ID != "opt_1" || !q.Options[0].Recommended {
		t.Fatalf("option 0 = %+v", q.Options[0])
	}
	// Missing option ids get synthesized.
	if !strings.HasPrefix(q.Options[1].ID, "opt_") || len(q.Options[1].ID) != len("opt_")+6 {
		t.Fatalf("synthesized option id = %q", q.Options[1].ID)
	}
}

func TestBuildQuestionApproach(t *testing.T) {
	data := map[string]any{
		"question": "How should state sync work?",
		"type":     "approach",
		"approaches": []any{
			map[string]any{
				"title":       "CRDT",
				"description": "Conflict-free merges",
				"pros":        []any{"offline-first", 42, "no server coordination"},
				"cons":        []any{"complexity"},
				"recommended": true,
			},
		},
	}
	q := buildQuestion(data, "q_1")

	if q.Type != QuestionApproach {
		t.Fatalf("Type = %q", q.Type)
	}
	if len(q.Approaches) != 1 {
		t.Fatalf("approaches = %d", len(q.Approaches))
	}
	a := q.Approaches[0]
	if !strings.HasPrefix(a.ID, "appr_") {
		t.Fatalf("synthesized approach id = %q", a.ID)
	}
	// Non-string list entries are dropped, not coerced.
	if len(a.Pros) != 2 || len(a.Cons) != 1 || !a.Recommended {
		t.Fatalf("approach = %+v", a)
	}
	// Approach questions carry no plain options.
	if q.Options != nil {
		t.Fatalf("options = %+v", q.Options)
	}
}

func TestBuildQuestionDefaults(t *testing.T) {
	q := buildQuestion(nil, "q_1")
	if q.Question != defaultQuestionText {
		t.Fatalf("Question = %q", q.Question)
	}
	if q.Type != QuestionSingleChoice {
		t.Fatalf("Type = %q", q.Type)
	}

	q = buildQuestion(map[string]any{"type": "essay"}, "q_2")
	if q.Type != QuestionSingleChoice {
		t.Fatalf("unrecognized type = %q", q.Type)
	}
}

func TestIDShapes(t *testing.T) {
	if id := newSessionID(); !strings.HasPrefix(id, "sess_") || len(id) != len("sess_")+12 {
		t.Fatalf("session id = %q", id)
	}
	if id := newQuestionID(); !strings.HasPrefix(id, "q_") || len(id) != len("q_")+8 {
		t.Fatalf("question id = %q", id)
	}
	if id := newAnswerID(); !strings.HasPrefix(id, "a_") || len(id) != len("a_")+8 {
		t.Fatalf("answer id = %q", id)
	}
	if newQuestionID() == newQuestionID() {
		t.Fatalf("question ids collide")
	}
}
