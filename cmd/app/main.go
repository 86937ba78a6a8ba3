package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sqliteadapter "github.com/atvirokodosprendimai/brdstudio/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/brdstudio/internal/adapters/export"
	httpadapter "github.com/atvirokodosprendimai/brdstudio/internal/adapters/http"
	"github.com/atvirokodosprendimai/brdstudio/internal/adapters/ollama"
	rpcadapter "github.com/atvirokodosprendimai/brdstudio/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/brdstudio/internal/application"
	"github.com/atvirokodosprendimai/brdstudio/internal/config"
	"github.com/atvirokodosprendimai/brdstudio/internal/domain"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "brdstudio",
		Usage: "Business Requirement Document authoring server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			projectsCommand(),
			suggestCommand(),
			modelsCommand(),
			configCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, config.Default())
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP and JSON-RPC server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file path"},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
			&cli.StringFlag{Name: "exports-dir", Usage: "directory for exported workbooks"},
			&cli.StringFlag{Name: "ollama-url", Usage: "Ollama base URL"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			if c.IsSet("exports-dir") {
				cfg.ExportsDir = c.String("exports-dir")
			}
			if c.IsSet("ollama-url") {
				cfg.OllamaBaseURL = c.String("ollama-url")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := sqliteadapter.NewProjectRepository(db)
	suggester := ollama.NewClient(cfg.OllamaBaseURL, time.Duration(cfg.SuggestionTimeout))
	exporter := export.NewExporter(cfg.ExportsDir)
	service := application.NewProjectService(repo, suggester, exporter)

	router := httpadapter.NewRouter(service)
	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.RPCSocket, service)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	log.Printf("json-rpc listening on unix://%s", cfg.RPCSocket)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "Project commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List projects",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.ProjectSummary
					if err := doProjectsList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printProjectSummaries(out)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Show a project with all sections",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Project
					if err := doProjectsGet(ctx, cfg, c.String("id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printProject(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a project from overview fields or a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "goal"},
					&cli.StringFlag{Name: "file", Usage: "JSON file with the full project aggregate"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					project, err := projectFromFlags(c)
					if err != nil {
						return err
					}
					var out domain.Project
					if err := doProjectsCreate(ctx, cfg, project, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", out.ID}, {"name", out.Name}, {"version", out.DocumentVersion}})
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Replace a project with the aggregate from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "file", Required: true, Usage: "JSON file with the full project aggregate"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					project, err := projectFromFile(c.String("file"))
					if err != nil {
						return err
					}
					project.ID = c.String("id")
					var out domain.Project
					if err := doProjectsUpdate(ctx, cfg, project, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", out.ID}, {"name", out.Name}, {"updated_at", formatTime(out.UpdatedAt)}})
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a project and all its sections",
				Flags: []cli.Flag{&cli.StringFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if err := doProjectsDelete(ctx, cfg, c.String("id")); err != nil {
						return err
					}
					fmt.Println("deleted")
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "Export a project to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "out", Usage: "write the workbook to this path (http transport only)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					path, err := doProjectsExport(ctx, cfg, c.String("id"), c.String("out"))
					if err != nil {
						return err
					}
					fmt.Println(path)
					return nil
				},
			},
		},
	}
}

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Request an LLM suggestion for one section",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "section", Required: true, Usage: "ui_requirement|api_specification|llm_prompt|database_schema|tech_stack"},
			&cli.StringSliceFlag{Name: "input", Usage: "key=value input, repeatable"},
			&cli.StringFlag{Name: "model"},
			&cli.FloatFlag{Name: "temperature"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			inputs := make(map[string]string)
			for _, pair := range c.StringSlice("input") {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("input %q must be key=value", pair)
				}
				inputs[key] = value
			}
			var temperature *float64
			if c.IsSet("temperature") {
				t := c.Float("temperature")
				temperature = &t
			}
			text, err := doSuggest(ctx, cfg, c.String("section"), inputs, c.String("model"), temperature)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func modelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List available suggestion models",
		Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var out []string
			if err := doModelsList(ctx, cfg, &out); err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(out)
			}
			for _, name := range out {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configure the CLI transport",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set transport, server address or socket path",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Usage: "uds or http"},
					&cli.StringFlag{Name: "server", Usage: "HTTP server base URL"},
					&cli.StringFlag{Name: "socket", Usage: "unix socket path"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if c.IsSet("transport") {
						transport := c.String("transport")
						if transport != "uds" && transport != "http" {
							return fmt.Errorf("transport must be uds or http, got %q", transport)
						}
						cfg.Transport = transport
					}
					if c.IsSet("server") {
						cfg.Server = c.String("server")
					}
					if c.IsSet("socket") {
						cfg.Socket = c.String("socket")
					}
					if err := saveConfig(cfg); err != nil {
						return err
					}
					printKV([][2]string{{"transport", cfg.Transport}, {"server", cfg.Server}, {"socket", cfg.Socket}})
					return nil
				},
			},
		},
	}
}

func projectFromFlags(c *cli.Command) (domain.Project, error) {
	if file := c.String("file"); file != "" {
		return projectFromFile(file)
	}
	if c.String("name") == "" {
		return domain.Project{}, fmt.Errorf("either --file or --name is required")
	}
	return domain.Project{
		Name:         c.String("name"),
		Description:  c.String("description"),
		BusinessGoal: c.String("goal"),
	}, nil
}

func projectFromFile(path string) (domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Project{}, err
	}
	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Project{}, fmt.Errorf("parse project file %s: %w", path, err)
	}
	return p, nil
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
