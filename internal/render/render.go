// Package render writes assembled reports to document files. Typesetting
// and binary formats (PDF, slide decks) belong to external renderers that
// satisfy the same call shape.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkdownRenderer writes the report as a .md file into workDir and returns
// the file path.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) Render(_ context.Context, title, markup, workDir string) (string, error) {
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("render: create work dir: %w", err)
	}
	path := filepath.Join(workDir, fileStem(title)+".md")
	content := fmt.Sprintf("# %s\n\n%s\n", title, markup)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("render: write document: %w", err)
	}
	return path, nil
}

func fileStem(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "canvas-report"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}
