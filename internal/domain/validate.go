package domain

import (
	"fmt"
	"strings"
	"time"
)

// Enumerated value sets. Every enumerated field is restricted to its set;
// violations are rejected before persistence.
var (
	Priorities     = []string{"Must", "Should", "Could", "Won't"}
	MasterDetails  = []string{"Master", "Detail", "N/A"}
	HTTPMethods    = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
	APITypes       = []string{"Internal", "External", "Third-Party"}
	ConstraintTags = []string{"Primary Key", "Foreign Key", "Not Null", "Unique", "Auto Increment", "Indexed", "Check", "Default"}
	TechCategories = []string{"Frontend", "Backend", "Database", "LLM", "Infrastructure", "DevOps", "Testing", "Other"}
	TraceStatuses  = []string{"Planned", "In Progress", "Implemented", "Approved"}
)

const (
	DefaultDocumentVersion = "1.0"
	DefaultModel           = "llama3.2"
	DefaultTemperature     = 0.7

	maxNameLen = 255
	maxTextLen = 5000
)

// ValidateProject checks and normalizes the whole aggregate in place.
// It is pure: no side effects beyond mutating the passed value, and the
// first violation is returned as a *ValidationError.
func ValidateProject(p *Project) error {
	if err := validateOverview(p); err != nil {
		return err
	}
	for i := range p.UIRequirements {
		if err := validateUIRequirement(&p.UIRequirements[i], i); err != nil {
			return err
		}
	}
	for i := range p.APISpecs {
		if err := validateAPISpec(&p.APISpecs[i], i); err != nil {
			return err
		}
	}
	for i := range p.LLMPrompts {
		if err := validateLLMPrompt(&p.LLMPrompts[i], i); err != nil {
			return err
		}
	}
	for i := range p.SchemaFields {
		if err := validateSchemaField(&p.SchemaFields[i], i); err != nil {
			return err
		}
	}
	for i := range p.TechStack {
		if err := validateTechStackEntry(&p.TechStack[i], i); err != nil {
			return err
		}
	}
	for i := range p.TraceabilityLinks {
		if err := validateTraceabilityLink(&p.TraceabilityLinks[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateOverview(p *Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.BusinessGoal = strings.TrimSpace(p.BusinessGoal)
	p.DocumentVersion = defaultString(strings.TrimSpace(p.DocumentVersion), DefaultDocumentVersion)
	p.PreparedBy = strings.TrimSpace(p.PreparedBy)
	p.ApprovedBy = strings.TrimSpace(p.ApprovedBy)
	p.TargetReleaseDate = strings.TrimSpace(p.TargetReleaseDate)

	if p.Name == "" {
		return invalid("overview", -1, "name", "required")
	}
	if len(p.Name) > maxNameLen {
		return invalid("overview", -1, "name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	if p.Description == "" {
		return invalid("overview", -1, "description", "required")
	}
	if p.BusinessGoal == "" {
		return invalid("overview", -1, "business_goal", "required")
	}
	if p.TargetReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", p.TargetReleaseDate); err != nil {
			return invalid("overview", -1, "target_release_date", "must be a YYYY-MM-DD date")
		}
	}
	return nil
}

func validateUIRequirement(r *UIRequirement, i int) error {
	r.RequirementID = strings.TrimSpace(r.RequirementID)
	r.FeatureModule = strings.TrimSpace(r.FeatureModule)
	r.Screen = strings.TrimSpace(r.Screen)
	r.Description = strings.TrimSpace(r.Description)
	r.MasterDetail = defaultString(strings.TrimSpace(r.MasterDetail), "N/A")
	r.Priority = defaultString(strings.TrimSpace(r.Priority), "Should")

	if r.RequirementID == "" {
		return invalid("ui_requirement", i, "requirement_id", "required")
	}
	if r.Screen == "" {
		return invalid("ui_requirement", i, "screen", "required")
	}
	if r.Description == "" {
		return invalid("ui_requirement", i, "description", "required")
	}
	if canon, ok := match(MasterDetails, r.MasterDetail); ok {
		r.MasterDetail = canon
	} else {
		return invalid("ui_requirement", i, "master_detail", oneOf(MasterDetails))
	}
	if canon, ok := match(Priorities, r.Priority); ok {
		r.Priority = canon
	} else {
		return invalid("ui_requirement", i, "priority", oneOf(Priorities))
	}
	return nil
}

func validateAPISpec(s *APISpec, i int) error {
	s.APIID = strings.TrimSpace(s.APIID)
	s.Name = strings.TrimSpace(s.Name)
	s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
	s.Endpoint = strings.TrimSpace(s.Endpoint)
	s.APIType = defaultString(strings.TrimSpace(s.APIType), "Internal")

	if s.APIID == "" {
		return invalid("api_spec", i, "api_id", "required")
	}
	if s.Name == "" {
		return invalid("api_spec", i, "name", "required")
	}
	if _, ok := match(HTTPMethods, s.Method); !ok {
		return invalid("api_spec", i, "method", oneOf(HTTPMethods))
	}
	if s.Endpoint == "" {
		return invalid("api_spec", i, "endpoint", "required")
	}
	if canon, ok := match(APITypes, s.APIType); ok {
		s.APIType = canon
	} else {
		return invalid("api_spec", i, "api_type", oneOf(APITypes))
	}
	// Request/response payloads are user-defined opaque text, only bounded.
	if len(s.RequestPayload) > maxTextLen {
		return invalid("api_spec", i, "request_payload", fmt.Sprintf("must be at most %d characters", maxTextLen))
	}
	if len(s.ResponsePayload) > maxTextLen {
		return invalid("api_spec", i, "response_payload", fmt.Sprintf("must be at most %d characters", maxTextLen))
	}
	return nil
}

func validateLLMPrompt(p *LLMPrompt, i int) error {
	p.PromptID = strings.TrimSpace(p.PromptID)
	p.UseCase = strings.TrimSpace(p.UseCase)
	p.Template = strings.TrimSpace(p.Template)
	p.ModelName = defaultString(strings.TrimSpace(p.ModelName), DefaultModel)
	if p.Temperature == nil {
		temp := DefaultTemperature
		p.Temperature = &temp
	}

	if p.PromptID == "" {
		return invalid("llm_prompt", i, "prompt_id", "required")
	}
	if p.UseCase == "" {
		return invalid("llm_prompt", i, "use_case", "required")
	}
	if p.Template == "" {
		return invalid("llm_prompt", i, "template", "required")
	}
	if len(p.Template) > maxTextLen {
		return invalid("llm_prompt", i, "template", fmt.Sprintf("must be at most %d characters", maxTextLen))
	}
	if *p.Temperature < 0.0 || *p.Temperature > 2.0 {
		return invalid("llm_prompt", i, "temperature", "must be between 0.0 and 2.0")
	}
	return nil
}

func validateSchemaField(f *SchemaField, i int) error {
	f.TableName = strings.TrimSpace(f.TableName)
	f.FieldName = strings.TrimSpace(f.FieldName)
	f.DataType = strings.TrimSpace(f.DataType)
	f.Relationship = defaultString(strings.TrimSpace(f.Relationship), "N/A")

	if f.TableName == "" {
		return invalid("schema_field", i, "table_name", "required")
	}
	if f.FieldName == "" {
		return invalid("schema_field", i, "field_name", "required")
	}
	if f.DataType == "" {
		return invalid("schema_field", i, "data_type", "required")
	}
	tags := make([]string, 0, len(f.Constraints))
	for _, tag := range f.Constraints {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		canon, ok := match(ConstraintTags, trimmed)
		if !ok {
			return invalid("schema_field", i, "constraints", oneOf(ConstraintTags))
		}
		tags = append(tags, canon)
	}
	f.Constraints = tags
	return nil
}

func validateTechStackEntry(t *TechStackEntry, i int) error {
	t.Category = strings.TrimSpace(t.Category)
	t.Technology = strings.TrimSpace(t.Technology)
	t.Version = strings.TrimSpace(t.Version)
	t.RepositoryURL = strings.TrimSpace(t.RepositoryURL)

	if canon, ok := match(TechCategories, t.Category); ok {
		t.Category = canon
	} else {
		return invalid("tech_stack", i, "category", oneOf(TechCategories))
	}
	if t.Technology == "" {
		return invalid("tech_stack", i, "technology", "required")
	}
	return nil
}

func validateTraceabilityLink(l *TraceabilityLink, i int) error {
	l.RequirementID = strings.TrimSpace(l.RequirementID)
	l.BusinessRequirement = strings.TrimSpace(l.BusinessRequirement)
	l.Status = defaultString(strings.TrimSpace(l.Status), "Planned")
	l.LinkedUIIDs = trimAll(l.LinkedUIIDs)
	l.LinkedAPIIDs = trimAll(l.LinkedAPIIDs)
	l.LinkedLLMIDs = trimAll(l.LinkedLLMIDs)

	if l.RequirementID == "" {
		return invalid("traceability_link", i, "requirement_id", "required")
	}
	if l.BusinessRequirement == "" {
		return invalid("traceability_link", i, "business_requirement", "required")
	}
	if canon, ok := match(TraceStatuses, l.Status); ok {
		l.Status = canon
	} else {
		return invalid("traceability_link", i, "status", oneOf(TraceStatuses))
	}
	// Linked ids may dangle: a link referencing a removed UI/API/LLM id is a
	// display concern, not a validation failure.
	return nil
}

// match resolves a value against a set case-insensitively and returns the
// canonical spelling.
func match(set []string, value string) (string, bool) {
	for _, item := range set {
		if strings.EqualFold(item, value) {
			return item, true
		}
	}
	return "", false
}

func oneOf(set []string) string {
	return "must be one of " + strings.Join(set, ", ")
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

func defaultString(input, fallback string) string {
	if input == "" {
		return fallback
	}
	return input
}
