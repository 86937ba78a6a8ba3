package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"github.com/google/uuid"
)

// Exporter turns a loaded project aggregate into a workbook on disk and
// returns the file path.
type Exporter interface {
	ExportProject(p domain.Project) (string, error)
}

type ProjectService struct {
	repo      domain.ProjectRepository
	suggester domain.SuggestionClient
	exporter  Exporter
}

func NewProjectService(repo domain.ProjectRepository, suggester domain.SuggestionClient, exporter Exporter) *ProjectService {
	return &ProjectService{repo: repo, suggester: suggester, exporter: exporter}
}

func (s *ProjectService) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if err := domain.ValidateProject(&p); err != nil {
		return domain.Project{}, err
	}
	p.ID = uuid.NewString()
	return s.repo.CreateProject(ctx, p)
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (domain.Project, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Project{}, errors.New("project id is required")
	}
	return s.repo.GetProject(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	return s.repo.ListProjects(ctx)
}

// UpdateProject validates the whole aggregate up front; the repository
// then replaces the project and its children in one transaction.
// Concurrent edits of the same project are last-writer-wins.
func (s *ProjectService) UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.ID) == "" {
		return domain.Project{}, errors.New("project id is required")
	}
	if err := domain.ValidateProject(&p); err != nil {
		return domain.Project{}, err
	}
	return s.repo.UpdateProject(ctx, p)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("project id is required")
	}
	return s.repo.DeleteProject(ctx, id)
}

func (s *ProjectService) ExportProject(ctx context.Context, id string) (string, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	return s.exporter.ExportProject(p)
}

// Suggest builds the section prompt and asks the model server for a
// completion. A failure of the suggestion service is returned as-is so
// callers can show "suggestion unavailable" and keep editing.
func (s *ProjectService) Suggest(ctx context.Context, req domain.SuggestionRequest) (string, error) {
	prompt, model, temperature, err := buildPrompt(req)
	if err != nil {
		return "", err
	}
	return s.suggester.Generate(ctx, model, prompt, temperature)
}

func (s *ProjectService) ListModels(ctx context.Context) ([]string, error) {
	return s.suggester.ListModels(ctx)
}

func (s *ProjectService) SuggestionHealth(ctx context.Context) error {
	return s.suggester.Ping(ctx)
}

// StartSession creates an anonymous edit session and returns the plain
// token for the cookie. Only the hash is stored.
func (s *ProjectService) StartSession(ctx context.Context, ttl time.Duration) (string, error) {
	plain, hash, err := newTokenPair()
	if err != nil {
		return "", err
	}
	_, err = s.repo.CreateSession(ctx, domain.EditSession{
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(ttl),
	})
	if err != nil {
		return "", err
	}
	return plain, nil
}

func (s *ProjectService) ResolveSession(ctx context.Context, token string) (domain.EditSession, error) {
	hash := hashToken(token)
	session, err := s.repo.GetSessionByTokenHash(ctx, hash)
	if err != nil {
		return domain.EditSession{}, errors.New("unknown session")
	}
	if session.ExpiresAt.Before(time.Now().UTC()) {
		_ = s.repo.DeleteSessionByTokenHash(ctx, hash)
		return domain.EditSession{}, errors.New("session expired")
	}
	return session, nil
}

func (s *ProjectService) SelectProject(ctx context.Context, token, projectID string) error {
	if _, err := s.ResolveSession(ctx, token); err != nil {
		return err
	}
	return s.repo.SetSessionProject(ctx, hashToken(token), projectID)
}

func (s *ProjectService) EndSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.repo.DeleteSessionByTokenHash(ctx, hashToken(token))
}

func newTokenPair() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(raw)
	return plain, hashToken(plain), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum[:])
}
