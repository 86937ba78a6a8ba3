package main

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
)

func doProjectsList(ctx context.Context, cfg cliConfig, out *[]domain.ProjectSummary) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "projects.list", map[string]any{}, out)
	}
	client := newAPIClient(cfg.Server)
	var wrapped struct {
		Projects []domain.ProjectSummary `json:"projects"`
	}
	if err := client.request(ctx, http.MethodGet, "/api/projects", nil, &wrapped); err != nil {
		return err
	}
	*out = wrapped.Projects
	return nil
}

func doProjectsGet(ctx context.Context, cfg cliConfig, id string, out *domain.Project) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "projects.get", map[string]any{"id": id}, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, out)
}

func doProjectsCreate(ctx context.Context, cfg cliConfig, project domain.Project, out *domain.Project) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "projects.create", map[string]any{"project": project}, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPost, "/api/projects", project, out)
}

func doProjectsUpdate(ctx context.Context, cfg cliConfig, project domain.Project, out *domain.Project) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "projects.update", map[string]any{"project": project}, out)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(project.ID), project, out)
}

func doProjectsDelete(ctx context.Context, cfg cliConfig, id string) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "projects.delete", map[string]any{"id": id}, nil)
	}
	client := newAPIClient(cfg.Server)
	return client.request(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

// doProjectsExport returns the path of the written workbook. Over uds
// the server writes into its exports directory and reports the path;
// over http the workbook is downloaded to dest.
func doProjectsExport(ctx context.Context, cfg cliConfig, id, dest string) (string, error) {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		var out struct {
			Path string `json:"path"`
		}
		if err := client.call(ctx, "projects.export", map[string]any{"id": id}, &out); err != nil {
			return "", err
		}
		return out.Path, nil
	}
	client := newAPIClient(cfg.Server)
	return client.download(ctx, "/api/projects/"+url.PathEscape(id)+"/export", dest)
}

// doSuggest leaves temperature out of the payload when the flag was not
// given so the section default applies server-side; an explicit 0.0 is
// sent as-is.
func doSuggest(ctx context.Context, cfg cliConfig, section string, inputs map[string]string, model string, temperature *float64) (string, error) {
	params := map[string]any{
		"section": section,
		"inputs":  inputs,
		"model":   model,
	}
	if temperature != nil {
		params["temperature"] = *temperature
	}
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		var out struct {
			Suggestion string `json:"suggestion"`
		}
		if err := client.call(ctx, "suggest.generate", params, &out); err != nil {
			return "", err
		}
		return out.Suggestion, nil
	}
	client := newAPIClient(cfg.Server)
	var out struct {
		Suggestion string `json:"suggestion"`
	}
	if err := client.request(ctx, http.MethodPost, "/api/suggest", params, &out); err != nil {
		return "", err
	}
	return out.Suggestion, nil
}

func doModelsList(ctx context.Context, cfg cliConfig, out *[]string) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "models.list", map[string]any{}, out)
	}
	client := newAPIClient(cfg.Server)
	var wrapped struct {
		Models []string `json:"models"`
	}
	if err := client.request(ctx, http.MethodGet, "/api/models", nil, &wrapped); err != nil {
		return err
	}
	*out = wrapped.Models
	return nil
}
