package canvas

import "testing"

func TestShouldComplete(t *testing.T) {
	cases := []struct {
		name  string
		hint  bool
		count int
		cap   int
		want  bool
	}{
		{"hint below cap", true, 3, 25, true},
		{"hint at zero", true, 0, 25, true},
		{"no hint below cap", false, 24, 25, false},
		{"no hint at cap", false, 25, 25, true},
		{"no hint above cap", false, 30, 25, true},
	}
	for _, tc := range cases {
		if got := shouldComplete(tc.hint, tc.count, tc.cap); got != tc.want {
			t.Fatalf("%s: shouldComplete(%v, %d, %d) = %v, want %v",
				tc.name, tc.hint, tc.count, tc.cap, got, tc.want)
		}
	}
}

func TestCompletionMessagePriority(t *testing.T) {
	if got := completionMessage("provider summary", true); got != "provider summary" {
		t.Fatalf("summary not preferred: %q", got)
	}
	if got := completionMessage("", true); got != hardCapCompletionMessage {
		t.Fatalf("hard-cap message not used: %q", got)
	}
	if got := completionMessage("", false); got != genericCompletionMessage {
		t.Fatalf("generic message not used: %q", got)
	}
}
