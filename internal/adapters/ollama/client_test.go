package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateReturnsResponseText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3.2" || req.Stream {
			t.Errorf("unexpected request %+v", req)
		}
		if req.Options.Temperature != 0.2 {
			t.Errorf("unexpected temperature %v", req.Options.Temperature)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "suggested text"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	got, err := client.Generate(context.Background(), "llama3.2", "describe the login screen", 0.2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "suggested text" {
		t.Errorf("unexpected response %q", got)
	}
}

func TestGenerateUnreachableServerIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.Generate(context.Background(), "llama3.2", "anything", 0.7)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerateNonSuccessStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Generate(context.Background(), "nope", "anything", 0.7)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestListModelsStripsTagsAndDeduplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"llama3.2:3b"},{"name":"mistral:latest"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2" || models[1] != "mistral" {
		t.Errorf("unexpected models %v", models)
	}
}

func TestListModelsFallsBackWhenServerDown(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != len(DefaultModels) {
		t.Errorf("expected default model list, got %v", models)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, time.Second).Ping(context.Background()); err != nil {
		t.Fatalf("ping healthy server: %v", err)
	}
	if err := NewClient("http://127.0.0.1:1", time.Second).Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
