package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/application"
	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
)

type memRepo struct {
	projects map[string]domain.Project
}

func (m *memRepo) CreateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = p
	return p, nil
}

func (m *memRepo) GetProject(_ context.Context, id string) (domain.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) ListProjects(_ context.Context) ([]domain.ProjectSummary, error) {
	out := make([]domain.ProjectSummary, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, domain.ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (m *memRepo) UpdateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	if _, ok := m.projects[p.ID]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	m.projects[p.ID] = p
	return p, nil
}

func (m *memRepo) DeleteProject(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *memRepo) CreateSession(_ context.Context, s domain.EditSession) (domain.EditSession, error) {
	return s, nil
}

func (m *memRepo) GetSessionByTokenHash(context.Context, string) (domain.EditSession, error) {
	return domain.EditSession{}, errors.New("not found")
}

func (m *memRepo) SetSessionProject(context.Context, string, string) error { return nil }

func (m *memRepo) DeleteSessionByTokenHash(context.Context, string) error { return nil }

type memSuggester struct{}

func (memSuggester) Generate(context.Context, string, string, float64) (string, error) {
	return "generated", nil
}

func (memSuggester) ListModels(context.Context) ([]string, error) {
	return []string{"llama3.2"}, nil
}

func (memSuggester) Ping(context.Context) error { return nil }

type memExporter struct{}

func (memExporter) ExportProject(domain.Project) (string, error) { return "/tmp/out.xlsx", nil }

func startTestServer(t *testing.T) (net.Conn, *memRepo) {
	t.Helper()

	repo := &memRepo{projects: map[string]domain.Project{}}
	svc := application.NewProjectService(repo, memSuggester{}, memExporter{})

	socket := filepath.Join(t.TempDir(), "brdstudio.sock")
	srv, err := Start(socket, svc)
	if err != nil {
		t.Fatalf("start rpc server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := net.Dial("unix", socket)
	if err != nil {
		t.Fatalf("dial rpc socket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, repo
}

func call(t *testing.T, conn net.Conn, method string, params any) response {
	t.Helper()

	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	enc := json.NewEncoder(conn)
	if err := enc.Encode(request{JSONRPC: "2.0", Method: method, Params: raw, ID: 1}); err != nil {
		t.Fatalf("send request: %v", err)
	}

	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp
}

func TestProjectLifecycleOverRPC(t *testing.T) {
	conn, _ := startTestServer(t)

	created := call(t, conn, "projects.create", map[string]any{
		"project": domain.Project{
			Name:         "Customer Feedback Platform",
			Description:  "Collects feedback.",
			BusinessGoal: "Faster triage.",
		},
	})
	if created.Error != nil {
		t.Fatalf("create failed: %+v", created.Error)
	}

	var p domain.Project
	remarshal(t, created.Result, &p)
	if p.ID == "" {
		t.Fatal("expected generated project id")
	}

	got := call(t, conn, "projects.get", map[string]any{"id": p.ID})
	if got.Error != nil {
		t.Fatalf("get failed: %+v", got.Error)
	}

	deleted := call(t, conn, "projects.delete", map[string]any{"id": p.ID})
	if deleted.Error != nil {
		t.Fatalf("delete failed: %+v", deleted.Error)
	}

	missing := call(t, conn, "projects.get", map[string]any{"id": p.ID})
	if missing.Error == nil || missing.Error.Code != 40400 {
		t.Fatalf("expected not-found error, got %+v", missing.Error)
	}
}

func TestInvalidProjectRejectedOverRPC(t *testing.T) {
	conn, repo := startTestServer(t)

	resp := call(t, conn, "projects.create", map[string]any{
		"project": domain.Project{
			Name:         "Broken",
			Description:  "x",
			BusinessGoal: "y",
			UIRequirements: []domain.UIRequirement{
				{RequirementID: "UI-001", Screen: "Form", Description: "d", Priority: "Urgent"},
			},
		},
	})
	if resp.Error == nil || resp.Error.Code != 40000 {
		t.Fatalf("expected validation error, got %+v", resp.Error)
	}
	if len(repo.projects) != 0 {
		t.Error("invalid project must not be persisted")
	}
}

func TestUnknownMethod(t *testing.T) {
	conn, _ := startTestServer(t)

	resp := call(t, conn, "projects.rename", map[string]any{})
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected method-not-found, got %+v", resp.Error)
	}
}

func TestModelsListOverRPC(t *testing.T) {
	conn, _ := startTestServer(t)

	resp := call(t, conn, "models.list", map[string]any{})
	if resp.Error != nil {
		t.Fatalf("models.list failed: %+v", resp.Error)
	}

	var models []string
	remarshal(t, resp.Result, &models)
	if len(models) != 1 || models[0] != "llama3.2" {
		t.Errorf("unexpected models %v", models)
	}
}

func remarshal(t *testing.T, in any, out any) {
	t.Helper()
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
}
