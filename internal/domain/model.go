package domain

import "time"

// Project is the aggregate root: overview fields plus the ordered child
// collections that make up one Business Requirement Document.
type Project struct {
	ID                string
	Name              string
	Description       string
	BusinessGoal      string
	DocumentVersion   string
	PreparedBy        string
	ApprovedBy        string
	TargetReleaseDate string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	UIRequirements    []UIRequirement
	APISpecs          []APISpec
	LLMPrompts        []LLMPrompt
	SchemaFields      []SchemaField
	TechStack         []TechStackEntry
	TraceabilityLinks []TraceabilityLink
}

type UIRequirement struct {
	RequirementID  string
	FeatureModule  string
	Screen         string
	Description    string
	ValidationRule string
	BusinessRule   string
	MasterDetail   string
	Priority       string
}

type APISpec struct {
	APIID           string
	Name            string
	Method          string
	Endpoint        string
	RequestPayload  string
	ResponsePayload string
	BusinessRule    string
	APIType         string
}

// LLMPrompt's temperature is a pointer so an explicit 0.0 survives the
// round trip; validation fills in the default when it is absent.
type LLMPrompt struct {
	PromptID       string
	UseCase        string
	Template       string
	InputVariables string
	ExpectedOutput string
	ModelName      string
	Temperature    *float64
	Options        string
}

type SchemaField struct {
	TableName    string
	FieldName    string
	DataType     string
	Constraints  []string
	Relationship string
	Description  string
}

type TechStackEntry struct {
	Category      string
	Technology    string
	Version       string
	Rationale     string
	RepositoryURL string
}

type TraceabilityLink struct {
	RequirementID       string
	BusinessRequirement string
	LinkedUIIDs         []string
	LinkedAPIIDs        []string
	LinkedLLMIDs        []string
	Status              string
}

// ProjectSummary is the list-view shape: no child collections loaded.
type ProjectSummary struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EditSession tracks one browser session's current project selection.
// Sessions are anonymous: they carry no credentials, only the UI state
// that would otherwise live in ambient globals.
type EditSession struct {
	ID               uint
	TokenHash        string
	CurrentProjectID string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

// SuggestionRequest names the section a suggestion targets, the
// user-supplied field values to fill into its prompt template, and the
// model parameters for the call. A nil temperature means "use the
// section default"; an explicit 0.0 is a valid deterministic setting.
type SuggestionRequest struct {
	Section     string
	Inputs      map[string]string
	Model       string
	Temperature *float64
}
