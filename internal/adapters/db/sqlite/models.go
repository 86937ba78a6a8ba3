package sqlite

import "time"

type ProjectModel struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"not null;index"`
	Description       string `gorm:"not null"`
	BusinessGoal      string `gorm:"not null"`
	DocumentVersion   string `gorm:"not null;default:'1.0'"`
	PreparedBy        string
	ApprovedBy        string
	TargetReleaseDate string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ProjectModel) TableName() string { return "projects" }

type UIRequirementModel struct {
	ID             uint   `gorm:"primaryKey"`
	ProjectID      string `gorm:"not null;index"`
	Position       int    `gorm:"not null"`
	RequirementID  string `gorm:"not null"`
	FeatureModule  string
	Screen         string `gorm:"not null"`
	Description    string `gorm:"not null"`
	ValidationRule string
	BusinessRule   string
	MasterDetail   string `gorm:"not null;default:'N/A'"`
	Priority       string `gorm:"not null;default:'Should'"`
}

func (UIRequirementModel) TableName() string { return "ui_requirements" }

type APISpecModel struct {
	ID              uint   `gorm:"primaryKey"`
	ProjectID       string `gorm:"not null;index"`
	Position        int    `gorm:"not null"`
	APIID           string `gorm:"not null"`
	Name            string `gorm:"not null"`
	Method          string `gorm:"not null"`
	Endpoint        string `gorm:"not null"`
	RequestPayload  string
	ResponsePayload string
	BusinessRule    string
	APIType         string `gorm:"not null;default:'Internal'"`
}

func (APISpecModel) TableName() string { return "api_specs" }

type LLMPromptModel struct {
	ID             uint   `gorm:"primaryKey"`
	ProjectID      string `gorm:"not null;index"`
	Position       int    `gorm:"not null"`
	PromptID       string `gorm:"not null"`
	UseCase        string `gorm:"not null"`
	Template       string `gorm:"not null"`
	InputVariables string
	ExpectedOutput string
	// No gorm default: with one, an explicit 0.0 would be dropped from
	// the insert and replaced by the column default.
	ModelName      string  `gorm:"not null"`
	Temperature    float64 `gorm:"not null"`
	Options        string
}

func (LLMPromptModel) TableName() string { return "llm_prompts" }

type SchemaFieldModel struct {
	ID           uint   `gorm:"primaryKey"`
	ProjectID    string `gorm:"not null;index"`
	Position     int    `gorm:"not null"`
	TableName_   string `gorm:"column:table_name;not null"`
	FieldName    string `gorm:"not null"`
	DataType     string `gorm:"not null"`
	Constraints  string `gorm:"not null;default:''"`
	Relationship string `gorm:"not null;default:'N/A'"`
	Description  string
}

func (SchemaFieldModel) TableName() string { return "schema_fields" }

type TechStackEntryModel struct {
	ID            uint   `gorm:"primaryKey"`
	ProjectID     string `gorm:"not null;index"`
	Position      int    `gorm:"not null"`
	Category      string `gorm:"not null"`
	Technology    string `gorm:"not null"`
	Version       string
	Rationale     string
	RepositoryURL string
}

func (TechStackEntryModel) TableName() string { return "tech_stack_entries" }

type TraceabilityLinkModel struct {
	ID                  uint   `gorm:"primaryKey"`
	ProjectID           string `gorm:"not null;index"`
	Position            int    `gorm:"not null"`
	RequirementID       string `gorm:"not null"`
	BusinessRequirement string `gorm:"not null"`
	LinkedUIIDs         string `gorm:"not null;default:''"`
	LinkedAPIIDs        string `gorm:"not null;default:''"`
	LinkedLLMIDs        string `gorm:"not null;default:''"`
	Status              string `gorm:"not null;default:'Planned'"`
}

func (TraceabilityLinkModel) TableName() string { return "traceability_links" }

type EditSessionModel struct {
	ID               uint   `gorm:"primaryKey"`
	TokenHash        string `gorm:"not null;uniqueIndex"`
	CurrentProjectID string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

func (EditSessionModel) TableName() string { return "edit_sessions" }
