package domain

import "context"

type ProjectRepository interface {
	CreateProject(ctx context.Context, value Project) (Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context) ([]ProjectSummary, error)
	UpdateProject(ctx context.Context, value Project) (Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateSession(ctx context.Context, value EditSession) (EditSession, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (EditSession, error)
	SetSessionProject(ctx context.Context, tokenHash, projectID string) error
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
}

// SuggestionClient is the boundary to the local model server. Failures
// must wrap the client's unavailable sentinel so callers can degrade to
// "suggestion unavailable" without aborting the surrounding edit flow.
type SuggestionClient interface {
	Generate(ctx context.Context, model, prompt string, temperature float64) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
