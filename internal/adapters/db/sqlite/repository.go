package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type ProjectRepository struct {
	db *gorm.DB
}

// Open uses the cgo-free modernc driver. Foreign keys are off by default
// in sqlite; the pragma makes ON DELETE CASCADE effective.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=foreign_keys(1)",
	}, &gorm.Config{})
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, value domain.Project) (domain.Project, error) {
	now := time.Now().UTC()
	m := projectToModel(value)
	m.CreatedAt = now
	m.UpdatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return insertChildren(tx, m.ID, value)
	})
	if err != nil {
		return domain.Project{}, err
	}

	return r.GetProject(ctx, m.ID)
}

func (r *ProjectRepository) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var m ProjectModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, err
	}

	p := modelToProject(m)
	if err := r.loadChildren(ctx, &p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	rows := make([]ProjectModel, 0)
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.ProjectSummary, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.ProjectSummary{
			ID:        m.ID,
			Name:      m.Name,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return result, nil
}

// UpdateProject replaces the project row and every child set in one
// transaction. A failure while writing any child rolls the whole update
// back, so a project can never end up with a mixed child set.
func (r *ProjectRepository) UpdateProject(ctx context.Context, value domain.Project) (domain.Project, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ProjectModel
		if err := tx.First(&existing, "id = ?", value.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		m := projectToModel(value)
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&m).Error; err != nil {
			return err
		}

		for _, model := range []any{
			&UIRequirementModel{}, &APISpecModel{}, &LLMPromptModel{},
			&SchemaFieldModel{}, &TechStackEntryModel{}, &TraceabilityLinkModel{},
		} {
			if err := tx.Where("project_id = ?", value.ID).Delete(model).Error; err != nil {
				return err
			}
		}

		return insertChildren(tx, value.ID, value)
	})
	if err != nil {
		return domain.Project{}, err
	}

	return r.GetProject(ctx, value.ID)
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&ProjectModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertChildren(tx *gorm.DB, projectID string, value domain.Project) error {
	for i, item := range value.UIRequirements {
		m := UIRequirementModel{
			ProjectID:      projectID,
			Position:       i,
			RequirementID:  item.RequirementID,
			FeatureModule:  item.FeatureModule,
			Screen:         item.Screen,
			Description:    item.Description,
			ValidationRule: item.ValidationRule,
			BusinessRule:   item.BusinessRule,
			MasterDetail:   item.MasterDetail,
			Priority:       item.Priority,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	for i, item := range value.APISpecs {
		m := APISpecModel{
			ProjectID:       projectID,
			Position:        i,
			APIID:           item.APIID,
			Name:            item.Name,
			Method:          item.Method,
			Endpoint:        item.Endpoint,
			RequestPayload:  item.RequestPayload,
			ResponsePayload: item.ResponsePayload,
			BusinessRule:    item.BusinessRule,
			APIType:         item.APIType,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	for i, item := range value.LLMPrompts {
		m := LLMPromptModel{
			ProjectID:      projectID,
			Position:       i,
			PromptID:       item.PromptID,
			UseCase:        item.UseCase,
			Template:       item.Template,
			InputVariables: item.InputVariables,
			ExpectedOutput: item.ExpectedOutput,
			ModelName:      item.ModelName,
			Temperature:    temperatureColumn(item.Temperature),
			Options:        item.Options,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	for i, item := range value.SchemaFields {
		m := SchemaFieldModel{
			ProjectID:    projectID,
			Position:     i,
			TableName_:   item.TableName,
			FieldName:    item.FieldName,
			DataType:     item.DataType,
			Constraints:  joinCSV(item.Constraints),
			Relationship: item.Relationship,
			Description:  item.Description,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	for i, item := range value.TechStack {
		m := TechStackEntryModel{
			ProjectID:     projectID,
			Position:      i,
			Category:      item.Category,
			Technology:    item.Technology,
			Version:       item.Version,
			Rationale:     item.Rationale,
			RepositoryURL: item.RepositoryURL,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	for i, item := range value.TraceabilityLinks {
		m := TraceabilityLinkModel{
			ProjectID:           projectID,
			Position:            i,
			RequirementID:       item.RequirementID,
			BusinessRequirement: item.BusinessRequirement,
			LinkedUIIDs:         joinCSV(item.LinkedUIIDs),
			LinkedAPIIDs:        joinCSV(item.LinkedAPIIDs),
			LinkedLLMIDs:        joinCSV(item.LinkedLLMIDs),
			Status:              item.Status,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepository) loadChildren(ctx context.Context, p *domain.Project) error {
	uiRows := make([]UIRequirementModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&uiRows).Error; err != nil {
		return err
	}
	p.UIRequirements = make([]domain.UIRequirement, 0, len(uiRows))
	for _, m := range uiRows {
		p.UIRequirements = append(p.UIRequirements, domain.UIRequirement{
			RequirementID:  m.RequirementID,
			FeatureModule:  m.FeatureModule,
			Screen:         m.Screen,
			Description:    m.Description,
			ValidationRule: m.ValidationRule,
			BusinessRule:   m.BusinessRule,
			MasterDetail:   m.MasterDetail,
			Priority:       m.Priority,
		})
	}

	apiRows := make([]APISpecModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&apiRows).Error; err != nil {
		return err
	}
	p.APISpecs = make([]domain.APISpec, 0, len(apiRows))
	for _, m := range apiRows {
		p.APISpecs = append(p.APISpecs, domain.APISpec{
			APIID:           m.APIID,
			Name:            m.Name,
			Method:          m.Method,
			Endpoint:        m.Endpoint,
			RequestPayload:  m.RequestPayload,
			ResponsePayload: m.ResponsePayload,
			BusinessRule:    m.BusinessRule,
			APIType:         m.APIType,
		})
	}

	promptRows := make([]LLMPromptModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&promptRows).Error; err != nil {
		return err
	}
	p.LLMPrompts = make([]domain.LLMPrompt, 0, len(promptRows))
	for _, m := range promptRows {
		p.LLMPrompts = append(p.LLMPrompts, domain.LLMPrompt{
			PromptID:       m.PromptID,
			UseCase:        m.UseCase,
			Template:       m.Template,
			InputVariables: m.InputVariables,
			ExpectedOutput: m.ExpectedOutput,
			ModelName:      m.ModelName,
			Temperature:    &m.Temperature,
			Options:        m.Options,
		})
	}

	fieldRows := make([]SchemaFieldModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&fieldRows).Error; err != nil {
		return err
	}
	p.SchemaFields = make([]domain.SchemaField, 0, len(fieldRows))
	for _, m := range fieldRows {
		p.SchemaFields = append(p.SchemaFields, domain.SchemaField{
			TableName:    m.TableName_,
			FieldName:    m.FieldName,
			DataType:     m.DataType,
			Constraints:  splitCSV(m.Constraints),
			Relationship: m.Relationship,
			Description:  m.Description,
		})
	}

	techRows := make([]TechStackEntryModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&techRows).Error; err != nil {
		return err
	}
	p.TechStack = make([]domain.TechStackEntry, 0, len(techRows))
	for _, m := range techRows {
		p.TechStack = append(p.TechStack, domain.TechStackEntry{
			Category:      m.Category,
			Technology:    m.Technology,
			Version:       m.Version,
			Rationale:     m.Rationale,
			RepositoryURL: m.RepositoryURL,
		})
	}

	traceRows := make([]TraceabilityLinkModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", p.ID).Order("position").Find(&traceRows).Error; err != nil {
		return err
	}
	p.TraceabilityLinks = make([]domain.TraceabilityLink, 0, len(traceRows))
	for _, m := range traceRows {
		p.TraceabilityLinks = append(p.TraceabilityLinks, domain.TraceabilityLink{
			RequirementID:       m.RequirementID,
			BusinessRequirement: m.BusinessRequirement,
			LinkedUIIDs:         splitCSV(m.LinkedUIIDs),
			LinkedAPIIDs:        splitCSV(m.LinkedAPIIDs),
			LinkedLLMIDs:        splitCSV(m.LinkedLLMIDs),
			Status:              m.Status,
		})
	}

	return nil
}

func (r *ProjectRepository) CreateSession(ctx context.Context, value domain.EditSession) (domain.EditSession, error) {
	m := EditSessionModel{
		TokenHash:        value.TokenHash,
		CurrentProjectID: value.CurrentProjectID,
		ExpiresAt:        value.ExpiresAt,
		CreatedAt:        time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.EditSession{}, err
	}
	return sessionToDomain(m), nil
}

func (r *ProjectRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.EditSession, error) {
	var m EditSessionModel
	if err := r.db.WithContext(ctx).First(&m, "token_hash = ?", tokenHash).Error; err != nil {
		return domain.EditSession{}, err
	}
	return sessionToDomain(m), nil
}

func (r *ProjectRepository) SetSessionProject(ctx context.Context, tokenHash, projectID string) error {
	return r.db.WithContext(ctx).Model(&EditSessionModel{}).
		Where("token_hash = ?", tokenHash).
		Update("current_project_id", projectID).Error
}

func (r *ProjectRepository) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Delete(&EditSessionModel{}, "token_hash = ?", tokenHash).Error
}

func projectToModel(p domain.Project) ProjectModel {
	return ProjectModel{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		BusinessGoal:      p.BusinessGoal,
		DocumentVersion:   p.DocumentVersion,
		PreparedBy:        p.PreparedBy,
		ApprovedBy:        p.ApprovedBy,
		TargetReleaseDate: p.TargetReleaseDate,
	}
}

func modelToProject(m ProjectModel) domain.Project {
	return domain.Project{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		BusinessGoal:      m.BusinessGoal,
		DocumentVersion:   m.DocumentVersion,
		PreparedBy:        m.PreparedBy,
		ApprovedBy:        m.ApprovedBy,
		TargetReleaseDate: m.TargetReleaseDate,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func sessionToDomain(m EditSessionModel) domain.EditSession {
	return domain.EditSession{
		ID:               m.ID,
		TokenHash:        m.TokenHash,
		CurrentProjectID: m.CurrentProjectID,
		ExpiresAt:        m.ExpiresAt,
		CreatedAt:        m.CreatedAt,
	}
}

// temperatureColumn flattens the pointer for the NOT NULL column.
// Validated prompts always carry a value; the default only covers rows
// written through other paths.
func temperatureColumn(t *float64) float64 {
	if t == nil {
		return domain.DefaultTemperature
	}
	return *t
}

func joinCSV(values []string) string {
	return strings.Join(values, ", ")
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
