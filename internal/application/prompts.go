package application

import (
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
)

// Suggestion sections understood by Suggest.
const (
	SectionUIRequirement  = "ui_requirement"
	SectionAPISpec        = "api_specification"
	SectionLLMPrompt      = "llm_prompt"
	SectionDatabaseSchema = "database_schema"
	SectionTechStack      = "tech_stack"
)

type sectionTemplate struct {
	defaultModel string
	defaultTemp  float64
	build        func(inputs map[string]string) string
}

var sectionTemplates = map[string]sectionTemplate{
	SectionUIRequirement: {
		defaultModel: "llama3.2",
		defaultTemp:  0.7,
		build: func(in map[string]string) string {
			return fmt.Sprintf(`You are an expert UI/UX designer and requirements analyst.

Generate a detailed UI requirement description for the following:
- Feature/Module: %s
- Screen/Component: %s

Provide:
1. A comprehensive requirement description (100-200 words)
2. Key validation rules (2-3 rules)
3. Business rules (2-3 rules)
4. Suggest if this is Master or Detail component

Format your response as structured text with clear sections.`,
				in["feature_module"], in["screen_component"])
		},
	},
	SectionAPISpec: {
		defaultModel: "mistral",
		defaultTemp:  0.5,
		build: func(in map[string]string) string {
			method := in["method"]
			if method == "" {
				method = "GET"
			}
			return fmt.Sprintf(`You are an expert API architect and backend developer.

Generate a detailed API specification for:
- API Name: %s
- Endpoint: %s
- HTTP Method: %s

Provide:
1. Request payload structure (JSON format)
2. Response payload structure (JSON format)
3. Business rules and validation logic
4. Error handling considerations

Format your response as structured text with clear sections.`,
				in["api_name"], in["endpoint"], method)
		},
	},
	SectionLLMPrompt: {
		defaultModel: "mistral",
		defaultTemp:  0.7,
		build: func(in map[string]string) string {
			var b strings.Builder
			fmt.Fprintf(&b, `You are an expert prompt engineer specializing in GenAI applications.

Generate a detailed LLM prompt for the following use case:
- Use Case: %s
`, in["use_case"])
			if context := in["context"]; context != "" {
				fmt.Fprintf(&b, "- Context: %s\n", context)
			}
			b.WriteString(`
Provide:
1. A well-crafted prompt template with placeholders like [VARIABLE_NAME]
2. List of input variables needed
3. Expected output format (JSON or text)
4. Suggested model and temperature parameters
5. Example usage

Format your response as structured text with clear sections.`)
			return b.String()
		},
	},
	SectionDatabaseSchema: {
		defaultModel: "mistral",
		defaultTemp:  0.5,
		build: func(in map[string]string) string {
			return fmt.Sprintf(`You are an expert database architect and data modeler.

Generate database schema suggestions for the following feature:
- Feature Description: %s

Provide:
1. Recommended tables and their purposes
2. Key fields for each table with data types
3. Primary and foreign key relationships
4. Constraints and validation rules
5. Indexing suggestions

Format your response as structured text with clear sections and a table format where applicable.`,
				in["feature_description"])
		},
	},
	SectionTechStack: {
		defaultModel: "deepseek-r1",
		defaultTemp:  0.6,
		build: func(in map[string]string) string {
			return fmt.Sprintf(`You are an expert software architect with deep knowledge of modern technology stacks.

Recommend a technology stack for the following project:
- Requirements: %s

Provide:
1. Frontend framework recommendation with rationale
2. Backend framework recommendation with rationale
3. Database recommendation with rationale
4. LLM/AI framework recommendation with rationale
5. DevOps and deployment tools
6. Version control strategy

Format your response as structured text with clear sections and detailed rationale for each choice.`,
				in["project_requirements"])
		},
	},
}

func buildPrompt(req domain.SuggestionRequest) (prompt, model string, temperature float64, err error) {
	tpl, ok := sectionTemplates[req.Section]
	if !ok {
		return "", "", 0, fmt.Errorf("unknown suggestion section %q", req.Section)
	}

	model = req.Model
	if strings.TrimSpace(model) == "" {
		model = tpl.defaultModel
	}
	temperature = tpl.defaultTemp
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if temperature < 0 || temperature > 2 {
		return "", "", 0, fmt.Errorf("temperature %v outside [0.0, 2.0]", temperature)
	}

	inputs := req.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	return tpl.build(inputs), model, temperature, nil
}
