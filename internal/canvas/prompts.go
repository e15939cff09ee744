package canvas

import (
	"fmt"
	"strings"
)

// templateContexts steer question generation per canvas template. Unknown
// templates fall back to "custom".
var templateContexts = map[string]string{
	"startup": `The user wants to plan a startup. Focus on gathering information for these key areas:
- One compelling story or statistic that illustrates the problem, and why it matters now
- Who exactly has this pain and how they solve it today
- The core solution, key differentiators, and MVP scope
- Target market size, customer acquisition, go-to-market approach
- Revenue or impact model, team and resources, key risks and mitigation`,
	"web_app": `The user wants to build a web application. Focus on:
- Core functionality and features
- Target users and use cases
- Tech stack decisions (frontend, backend, database)
- Architecture approach (monolith, microservices, serverless)
- Authentication and authorization
- Deployment and infrastructure
- Scalability considerations`,
	"ai_agent": `The user wants to build an AI/agentic system. Focus on:
- Agent purpose and capabilities
- Tool integrations needed
- Memory and state management
- Orchestration approach (single agent, multi-agent)
- LLM provider and model selection
- Guardrails and safety measures
- Evaluation and testing strategy`,
	"project_spec": `The user wants to plan a project. Focus on:
- Project goals and success criteria
- Scope and deliverables
- Key milestones and timeline
- Dependencies and blockers
- Resource requirements
- Risk assessment
- Communication and documentation`,
	"tech_stack": `The user wants to make technology decisions. Focus on:
- Requirements and constraints
- Options with trade-offs
- Team expertise and learning curve
- Performance and scalability needs
- Ecosystem and community support
- Cost considerations
- Migration and integration challenges`,
	"custom": `The user has a custom idea. Adapt your questions to explore:
- Core concept and goals
- Target audience/users
- Key requirements and constraints
- Implementation approach
- Potential challenges
- Success criteria`,
	"implement_feature": `The user wants to implement a feature. Focus on:
- Feature requirements and acceptance criteria
- User stories and edge cases
- Dependencies and integration points
- Implementation approach (step-by-step)
- Testing strategy
- Rollout and monitoring plan`,
	"solve_problem": `The user wants to explore different approaches to solve a technical problem. Focus on:
- Problem definition and constraints
- Available resources and limitations
- Present 2-4 DIFFERENT APPROACHES with clear trade-offs
- For each approach: pros, cons, complexity, when to use
- Your recommendation with reasoning
IMPORTANT: Always present multiple approaches so the user can make an informed decision.`,
	"performance": `The user wants to optimize performance. Focus on:
- Current bottlenecks and symptoms
- Metrics and benchmarks (what to measure)
- Profiling approach
- Quick wins vs long-term optimizations
- Implementation priority
- Testing and validation plan`,
	"scaling": `The user wants to scale a system. Focus on:
- Current load and capacity limits
- Target scale requirements
- Horizontal vs vertical scaling trade-offs
- Database scaling strategies
- Caching and CDN strategies
- Cost implications and migration plan`,
	"security_review": `The user wants to review and improve security. Focus on:
- Threat model and attack surface
- Authentication and authorization
- Data encryption (at rest, in transit)
- Input validation and sanitization
- Dependency vulnerabilities
- Compliance requirements and security testing`,
	"code_architecture": `The user wants to design or refactor code architecture. Focus on:
- Current pain points and technical debt
- Design patterns and principles
- Module/package structure
- Dependency management
- Testing architecture
- Migration strategy if refactoring`,
}

func templateContext(template string) string {
	if ctx, ok := templateContexts[template]; ok {
		return ctx
	}
	return templateContexts["custom"]
}

func questionSystemPrompt(template string) string {
	return fmt.Sprintf(`You are an expert product strategist and technical architect helping users explore and refine their ideas through guided questioning.

Your role is to ask ONE thoughtful question at a time to help the user think through their idea comprehensively.

CONTEXT FOR THIS SESSION:
%s

QUESTION STYLE GUIDELINES:
1. Ask ONE question at a time - never multiple questions in one response
2. ALWAYS provide 3-5 multiple choice options - users can still type custom answers in the UI
3. When there are clear trade-offs between approaches, present them as an "approach" type with pros/cons
4. Include your recommendation and explain why briefly
5. Questions should build on previous answers logically
6. Be conversational but efficient - don't waste the user's time

QUESTION TYPES:
- "single_choice": ALWAYS use this type with 3-5 options.
- "approach": When presenting 2-3 different approaches with trade-offs (include pros/cons)

JSON OUTPUT FORMAT:
{
  "question": "Your question text here?",
  "type": "single_choice" | "approach",
  "options": [
    {"id": "opt_1", "label": "Option 1", "description": "Brief explanation", "recommended": true}
  ],
  "approaches": [
    {"id": "approach_1", "title": "Approach Name", "description": "What this approach means", "pros": ["Pro 1"], "cons": ["Con 1"], "recommended": true}
  ],
  "context": "Optional additional context about why you're asking this"
}

Return ONLY valid JSON, no markdown formatting.`, templateContext(template))
}

func firstQuestionPrompt(idea, template string) string {
	return fmt.Sprintf(`The user wants to explore this idea:

"%s"

Template type: %s

Generate the FIRST question to start exploring this idea. This should be a foundational question that helps establish the core direction. Consider what's the most important thing to understand first about their idea.

Return the question as JSON.`, idea, template)
}

func nextQuestionPrompt(idea string, history []HistoryEntry, questionCount int) string {
	return fmt.Sprintf(`Original idea: "%s"

Conversation so far:
%s

Questions asked: %d

IMPORTANT - COMPLETION CRITERIA:
Evaluate whether you have gathered enough information to create a useful implementation spec. You should STOP asking questions and set "suggest_complete": true when:
1. You understand the core concept, goals, and target users
2. Key technical/implementation decisions have been made
3. You have a clear picture of scope and priorities
4. Asking more questions would provide diminishing returns

For simple ideas, 5-8 questions may be enough.
For complex projects, 10-15 questions may be needed.
Do NOT ask unnecessary questions just to reach a number.

If you determine we have enough information, return:
{
  "suggest_complete": true,
  "summary": "Brief summary of what we've learned and are ready to spec out"
}

Otherwise, generate the NEXT logical question that addresses the most important remaining gap.

Return your response as JSON.`, idea, historyText(history), questionCount)
}

func historyText(history []HistoryEntry) string {
	var b strings.Builder
	for i, item := range history {
		fmt.Fprintf(&b, "\nQ%d: %s\nA%d: %s\n", i+1, item.Question, i+1, item.Answer)
	}
	return b.String()
}
