package canvas

import (
	"encoding/json"
	"strings"
)

// extractObject recovers a single JSON object from an arbitrary provider
// response. It first tries a strict parse of the whole string; on failure it
// scans from the first '{' with a brace-depth counter and parses the span
// where depth returns to zero. Returns (nil, false) when no object can be
// recovered — callers treat that as "no structured data", never an error.
//
// The scanner counts braces only; it does not track string-literal state, so
// a literal '{' or '}' inside a quoted value can shift the span. Kept that
// way deliberately to match the reference extraction behavior.
func extractObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					if err := json.Unmarshal([]byte(text[start:i+1]), &obj); err != nil {
						return nil, false
					}
					return obj, true
				}
			}
		}
	}
	return nil, false
}
