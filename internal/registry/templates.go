package registry

import "strings"

// AgentType selects a built-in template for agent creation
type AgentType string

const (
	TypeResearch      AgentType = "research"
	TypeCodeGenerator AgentType = "code_generator"
	TypeDataAnalyst   AgentType = "data_analyst"
	TypeCustom        AgentType = "custom"
)

// Template is a pre-defined agent configuration
type Template struct {
	Name         string
	Description  string
	Prompts      Prompts
	Capabilities []string
}

var templates = map[AgentType]Template{
	TypeResearch: {
		Name:        "Research Agent",
		Description: "Deep research with multi-page expert output",
		Prompts: Prompts{
			Plan:    "You are a research planner. Create a comprehensive research outline with sources, methodologies, and expected outcomes. Include: 1) Research questions, 2) Data sources, 3) Analysis methods, 4) Expected deliverables.",
			Execute: "You are a research executor. Gather information, analyze data, and produce a detailed multi-page report with citations. Structure: Executive Summary, Introduction, Methodology, Findings, Analysis, Conclusions, References.",
			Refine:  "You are a research editor. Polish the report for clarity, accuracy, and professional presentation. Ensure proper citations, consistent formatting, and logical flow.",
		},
		Capabilities: []string{"web_search", "document_analysis", "citation_management", "report_generation"},
	},
	TypeCodeGenerator: {
		Name:        "Code Generation Agent",
		Description: "Generate production-ready code with tests",
		Prompts: Prompts{
			Plan:    "You are a software architect. Design the solution architecture, identify components, and plan the implementation. Include: 1) System design, 2) Component breakdown, 3) API contracts, 4) Testing strategy.",
			Execute: "You are a senior developer. Implement the solution with clean code, proper error handling, and documentation. Follow best practices and ensure modularity.",
			Refine:  "You are a code reviewer. Optimize performance, ensure best practices, and add comprehensive tests. Check for security issues, improve readability, and validate edge cases.",
		},
		Capabilities: []string{"code_generation", "testing", "documentation", "linting"},
	},
	TypeDataAnalyst: {
		Name:        "Data Analysis Agent",
		Description: "Analyze data and produce insights",
		Prompts: Prompts{
			Plan:    "You are a data scientist. Plan the analysis approach, identify metrics, and design visualizations. Include: 1) Data exploration strategy, 2) Statistical methods, 3) Visualization types, 4) Insight extraction plan.",
			Execute: "You are a data analyst. Process the data, perform statistical analysis, and generate insights. Create visualizations, calculate metrics, identify patterns, and test hypotheses.",
			Refine:  "You are a data storyteller. Create compelling narratives and actionable recommendations from the analysis. Ensure clarity, highlight key findings, and provide business context.",
		},
		Capabilities: []string{"data_processing", "statistical_analysis", "visualization", "reporting"},
	},
}

// TemplateFor returns the template for an agent type. Unknown types fall
// back to the research template, matching create-with-defaults behavior.
func TemplateFor(agentType string) Template {
	t := AgentType(strings.ToLower(strings.TrimSpace(agentType)))
	if tpl, ok := templates[t]; ok {
		return tpl
	}
	return templates[TypeResearch]
}
