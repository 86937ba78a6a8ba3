package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
)

type fakeRepo struct {
	projects map[string]domain.Project
	sessions map[string]domain.EditSession
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: map[string]domain.Project{},
		sessions: map[string]domain.EditSession{},
	}
}

func (f *fakeRepo) CreateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetProject(_ context.Context, id string) (domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListProjects(_ context.Context) ([]domain.ProjectSummary, error) {
	out := make([]domain.ProjectSummary, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, domain.ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (f *fakeRepo) UpdateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	if _, ok := f.projects[p.ID]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeRepo) DeleteProject(_ context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeRepo) CreateSession(_ context.Context, s domain.EditSession) (domain.EditSession, error) {
	s.ID = uint(len(f.sessions) + 1)
	f.sessions[s.TokenHash] = s
	return s, nil
}

func (f *fakeRepo) GetSessionByTokenHash(_ context.Context, hash string) (domain.EditSession, error) {
	s, ok := f.sessions[hash]
	if !ok {
		return domain.EditSession{}, errors.New("not found")
	}
	return s, nil
}

func (f *fakeRepo) SetSessionProject(_ context.Context, hash, projectID string) error {
	s, ok := f.sessions[hash]
	if !ok {
		return errors.New("not found")
	}
	s.CurrentProjectID = projectID
	f.sessions[hash] = s
	return nil
}

func (f *fakeRepo) DeleteSessionByTokenHash(_ context.Context, hash string) error {
	delete(f.sessions, hash)
	return nil
}

type fakeSuggester struct {
	err      error
	response string
	prompt   string
	model    string
	temp     float64
}

func (f *fakeSuggester) Generate(_ context.Context, model, prompt string, temperature float64) (string, error) {
	f.model, f.prompt, f.temp = model, prompt, temperature
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeSuggester) ListModels(_ context.Context) ([]string, error) {
	return []string{"llama3.2"}, nil
}

func (f *fakeSuggester) Ping(_ context.Context) error { return f.err }

type fakeExporter struct{ path string }

func (f *fakeExporter) ExportProject(domain.Project) (string, error) { return f.path, nil }

func newService(repo *fakeRepo, suggester *fakeSuggester) *ProjectService {
	return NewProjectService(repo, suggester, &fakeExporter{path: "/tmp/out.xlsx"})
}

func minimalProject() domain.Project {
	return domain.Project{
		Name:         "Customer Feedback Platform",
		Description:  "Collects product feedback.",
		BusinessGoal: "Faster triage.",
	}
}

func TestCreateProjectAssignsIDAndNormalizes(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeSuggester{})

	created, err := svc.CreateProject(context.Background(), minimalProject())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated project id")
	}
	if created.DocumentVersion != "1.0" {
		t.Errorf("expected default document version, got %q", created.DocumentVersion)
	}
}

func TestCreateProjectRejectsInvalidAggregate(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeSuggester{})

	p := minimalProject()
	p.UIRequirements = []domain.UIRequirement{{RequirementID: "UI-001", Screen: "Form", Description: "x", Priority: "Urgent"}}

	_, err := svc.CreateProject(context.Background(), p)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.projects) != 0 {
		t.Error("invalid project must not be persisted")
	}
}

func TestUpdateProjectRequiresID(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSuggester{})

	if _, err := svc.UpdateProject(context.Background(), minimalProject()); err == nil {
		t.Fatal("expected update without id to fail")
	}
}

func TestSuggestBuildsSectionPrompt(t *testing.T) {
	suggester := &fakeSuggester{response: "generated requirement"}
	svc := newService(newFakeRepo(), suggester)

	got, err := svc.Suggest(context.Background(), domain.SuggestionRequest{
		Section: SectionUIRequirement,
		Inputs: map[string]string{
			"feature_module":   "Feedback Form",
			"screen_component": "Submission Form",
		},
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != "generated requirement" {
		t.Errorf("unexpected suggestion %q", got)
	}
	if suggester.model != "llama3.2" || suggester.temp != 0.7 {
		t.Errorf("expected section defaults, got model=%q temp=%v", suggester.model, suggester.temp)
	}
	if !strings.Contains(suggester.prompt, "Feedback Form") || !strings.Contains(suggester.prompt, "Submission Form") {
		t.Errorf("prompt missing inputs: %q", suggester.prompt)
	}
}

func TestSuggestKeepsExplicitZeroTemperature(t *testing.T) {
	suggester := &fakeSuggester{response: "deterministic answer"}
	svc := newService(newFakeRepo(), suggester)

	zero := 0.0
	_, err := svc.Suggest(context.Background(), domain.SuggestionRequest{
		Section:     SectionAPISpec,
		Inputs:      map[string]string{"api_name": "Submit Feedback", "endpoint": "/api/v1/feedback"},
		Temperature: &zero,
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if suggester.temp != 0.0 {
		t.Errorf("explicit zero temperature rewritten to %v", suggester.temp)
	}
}

func TestSuggestUnknownSection(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSuggester{})

	if _, err := svc.Suggest(context.Background(), domain.SuggestionRequest{Section: "poetry"}); err == nil {
		t.Fatal("expected unknown section to fail")
	}
}

func TestSuggestionFailureDoesNotBlockEditing(t *testing.T) {
	down := errors.New("suggestion service unavailable")
	repo := newFakeRepo()
	svc := newService(repo, &fakeSuggester{err: down})
	ctx := context.Background()

	if _, err := svc.Suggest(ctx, domain.SuggestionRequest{Section: SectionTechStack, Inputs: map[string]string{"project_requirements": "feedback tool"}}); !errors.Is(err, down) {
		t.Fatalf("expected suggestion failure to surface, got %v", err)
	}

	created, err := svc.CreateProject(ctx, minimalProject())
	if err != nil {
		t.Fatalf("create after suggestion failure: %v", err)
	}
	if _, err := svc.GetProject(ctx, created.ID); err != nil {
		t.Fatalf("get after suggestion failure: %v", err)
	}
}

func TestSessionSelectionLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeSuggester{})
	ctx := context.Background()

	token, err := svc.StartSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	created, err := svc.CreateProject(ctx, minimalProject())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := svc.SelectProject(ctx, token, created.ID); err != nil {
		t.Fatalf("select project: %v", err)
	}

	session, err := svc.ResolveSession(ctx, token)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if session.CurrentProjectID != created.ID {
		t.Errorf("expected selection %q, got %q", created.ID, session.CurrentProjectID)
	}

	if err := svc.EndSession(ctx, token); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, token); err == nil {
		t.Fatal("expected resolving an ended session to fail")
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeSuggester{})
	ctx := context.Background()

	token, err := svc.StartSession(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, token); err == nil {
		t.Fatal("expected expired session to be rejected")
	}
}
