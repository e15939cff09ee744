package canvas

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"prismdocs/internal/llm"
)

// Report is the synthesized outcome of a completed (or simply explored)
// session: the document text plus optional rendered-file and image handles.
type Report struct {
	Title        string `json:"title"`
	Markdown     string `json:"markdown_content"`
	DocumentPath string `json:"document_path,omitempty"`
	Image        []byte `json:"image,omitempty"`
	ImageFormat  string `json:"image_format,omitempty"`
}

// sectionPlan is the fixed template → document structure mapping.
type sectionPlan struct {
	docType    string
	writerRole string
	sections   string
}

func planForTemplate(template string) sectionPlan {
	switch template {
	case "startup", "web_app", "ai_agent", "tech_stack":
		return sectionPlan{
			docType:    "Implementation Plan",
			writerRole: "expert technical writer and product strategist",
			sections: `1. **Executive Summary** - A brief overview of the project (2-3 paragraphs)
2. **Project Overview** - Goals, target users, and key value propositions
3. **Technical Architecture** - Recommended tech stack, system components, and architecture patterns
4. **Feature Breakdown** - Detailed list of features organized by priority (MVP, Phase 2, Future)
5. **Implementation Roadmap** - Phased approach with milestones and estimated timelines
6. **Risk Analysis** - Potential challenges and mitigation strategies
7. **Success Metrics** - KPIs and how to measure project success
8. **Next Steps** - Immediate action items to get started`,
		}
	case "project_spec":
		return sectionPlan{
			docType:    "Project Specification",
			writerRole: "expert project manager and technical writer",
			sections: `1. **Executive Summary** - Brief overview of the project scope
2. **Project Goals & Objectives** - What success looks like
3. **Scope & Deliverables** - What's included and excluded
4. **Requirements** - Functional and non-functional requirements
5. **Timeline & Milestones** - Key dates and checkpoints
6. **Resources & Budget** - Required resources and cost estimates
7. **Risks & Dependencies** - Potential blockers and how to mitigate
8. **Acceptance Criteria** - How deliverables will be validated`,
		}
	case "feature":
		return sectionPlan{
			docType:    "Feature Specification",
			writerRole: "expert product manager and technical writer",
			sections: `1. **Feature Overview** - What this feature does and why it matters
2. **User Stories** - Who benefits and how
3. **Functional Requirements** - Detailed behavior specifications
4. **UI/UX Considerations** - Interface and experience design notes
5. **Technical Approach** - How to implement this feature
6. **Edge Cases & Error Handling** - What could go wrong and how to handle it
7. **Testing Strategy** - How to validate the feature works correctly
8. **Rollout Plan** - How to release this feature safely`,
		}
	default:
		return sectionPlan{
			docType:    "Comprehensive Plan",
			writerRole: "expert writer who adapts to any domain",
			sections: `Analyze the idea and questions/answers to determine the appropriate document structure.
Choose sections that make sense for this specific idea, e.g. vision and audience for
creative projects, market and business model for business ideas, goals and timeline for
personal projects, methodology and outcomes for research.`,
		}
	}
}

// GenerateReport synthesizes the session into a document: one provider call
// for the body, then the decision-tree outline and footer, then optional
// image generation, rendering and artifact storage.
func (s *Service) GenerateReport(ctx context.Context, sessionID string) (*Report, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.failed {
		return nil, ErrSessionFailed
	}

	cli, err := s.clients.New(ctx, sess.Provider, sess.Model)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	plan := planForTemplate(sess.Template)

	systemPrompt := fmt.Sprintf(`You are an %s. Your task is to generate a comprehensive %s document based on the user's idea exploration session.

The document should be in Markdown format. Structure it with the following sections (adapt as needed based on the idea):

%s

Make the document actionable, specific, and tailored to the decisions made during the exploration session. Use proper Markdown formatting with headers, bullet points, and emphasis where appropriate.`,
		plan.writerRole, plan.docType, plan.sections)

	userPrompt := fmt.Sprintf(`Based on the following idea exploration session, generate a comprehensive %s document.

ORIGINAL IDEA:
%s

TEMPLATE: %s

EXPLORATION Q&A:
%s

Please generate a detailed, actionable %s document in Markdown format. Make sure to reference the specific decisions and answers provided during the exploration.`,
		plan.docType, sess.Idea, titleCaseTemplate(sess.Template), historyText(sess.History), plan.docType)

	body, err := s.callProvider(ctx, cli, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    4000,
		Temperature:  0.7,
		Label:        "generate_report",
	})
	if err != nil {
		return nil, err
	}

	markdown := stripCodeFence(body)

	title := fmt.Sprintf("%s: %s", plan.docType, truncateLabel(sess.Idea, 50))

	full := markdown
	if outline := decisionTreeMarkdown(sess.Tree); outline != "" {
		full += "\n\n" + outline
	}
	full += fmt.Sprintf("\n\n---\n*Generated by PrismDocs on %s | Based on %d exploration questions*",
		time.Now().Format("2006-01-02 15:04"), sess.QuestionCount)

	report := &Report{Title: title, Markdown: full}

	if s.images != nil {
		if img, err := s.images.Generate(ctx, reportImagePrompt(title, markdown)); err != nil {
			log.Printf("canvas: summary image for %s failed: %v", sess.ID, err)
		} else if len(img) > 0 {
			report.Image = img
			report.ImageFormat = "png"
		}
	}

	if s.renderer != nil {
		path, err := s.renderer.Render(ctx, title, full, s.workDir)
		if err != nil {
			log.Printf("canvas: render for %s failed: %v", sess.ID, err)
		} else {
			report.DocumentPath = path
		}
	}

	if s.reports != nil {
		if err := s.reports.Put(ctx, sess.ID, "report/"+cleanFileName(title)+".md", []byte(full)); err != nil {
			log.Printf("canvas: store report for %s failed: %v", sess.ID, err)
		}
	}

	return report, nil
}

// decisionTreeMarkdown renders the dialog tree as a labeled outline, one
// line per node, depth-first, with a kind-specific marker. A root-only tree
// yields just the root line.
func decisionTreeMarkdown(root *Node) string {
	var lines []string
	appendNodeLines(root, &lines, 0)
	if len(lines) == 0 {
		return ""
	}
	return "## Decision Tree\n\n" + strings.Join(lines, "\n")
}

func appendNodeLines(node *Node, lines *[]string, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch node.Kind {
	case NodeRoot:
		*lines = append(*lines, fmt.Sprintf("- \U0001F4A1 **%s**", node.Label))
	case NodeQuestion:
		*lines = append(*lines, fmt.Sprintf("%s- ❓ *%s*", indent, node.Label))
	case NodeAnswer:
		*lines = append(*lines, fmt.Sprintf("%s- ✅ **%s**", indent, node.Label))
	case NodeApproach:
		*lines = append(*lines, fmt.Sprintf("%s- \U0001F527 **%s**", indent, node.Label))
	}
	for _, c := range node.Children {
		appendNodeLines(c, lines, depth+1)
	}
}

func reportImagePrompt(title, markdown string) string {
	snippet := []rune(strings.TrimSpace(markdown))
	if len(snippet) > 1500 {
		snippet = snippet[:1500]
	}
	return fmt.Sprintf("Create a clean, hand-drawn style infographic that summarizes this "+
		"implementation plan. Use warm colors, whiteboard aesthetics, simple "+
		"icons, and arrows connecting concepts. Include the main title at the top.\n\n"+
		"Title: %s\n\nKey points to visualize:\n%s", title, string(snippet))
}

// stripCodeFence removes a wrapping markdown code fence from a provider
// response, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```markdown") {
		s = s[len("```markdown"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// cleanFileName reduces a title to a safe file name stem.
func cleanFileName(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > 50 {
		out = out[:50]
	}
	if out == "" {
		out = "canvas_report"
	}
	return out
}

func titleCaseTemplate(template string) string {
	parts := strings.Split(template, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
