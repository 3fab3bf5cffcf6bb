package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/benefitdesk/insurance-assistant/internal/agent"
	"github.com/benefitdesk/insurance-assistant/internal/config"
	"github.com/benefitdesk/insurance-assistant/internal/docstore"
	"github.com/benefitdesk/insurance-assistant/internal/graphstore"
	"github.com/benefitdesk/insurance-assistant/internal/httpapi"
	"github.com/benefitdesk/insurance-assistant/internal/llm"
	"github.com/benefitdesk/insurance-assistant/internal/tools"
	"github.com/benefitdesk/insurance-assistant/pkg/icron"
	"github.com/benefitdesk/insurance-assistant/pkg/log"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graph, err := graphstore.New(graphstore.Config{
		URI:           cfg.Graph.URI,
		Username:      cfg.Graph.Username,
		Password:      cfg.Graph.Password,
		MaxConcurrent: cfg.Graph.MaxConcurrent,
	})
	if err != nil {
		log.Fatal("Failed to create graph store: %v", err)
	}
	defer graph.Close(context.Background())

	if err := graph.EnsureSchema(ctx); err != nil {
		log.Warn("Could not ensure graph schema: %v", err)
	}

	embedder, err := docstore.NewOpenAIEmbedder(cfg.Vector.EmbedAPIKey, cfg.Vector.EmbedModel, "")
	if err != nil {
		log.Fatal("Failed to create embedder: %v", err)
	}

	docs, err := docstore.New(ctx, docstore.Config{
		URI:           cfg.Vector.MongoURI,
		Database:      cfg.Vector.Database,
		Collection:    cfg.Vector.Collection,
		VectorIndex:   cfg.Vector.Index,
		TopK:          cfg.Vector.TopK,
		MaxConcurrent: cfg.Vector.MaxConcurrent,
	}, embedder)
	if err != nil {
		log.Fatal("Failed to create document store: %v", err)
	}
	defer docs.Close(context.Background())

	registry, err := buildRegistry(graph, docs, cfg.Vector.TopK)
	if err != nil {
		log.Fatal("Failed to build tool registry: %v", err)
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		SiteURL:     cfg.LLM.SiteURL,
		AppName:     cfg.LLM.AppName,
	})
	if err != nil {
		log.Fatal("Failed to create language model client: %v", err)
	}

	assistant := agent.NewAssistant(client, registry,
		cfg.Agent.MaxToolCalls,
		time.Duration(cfg.Agent.ToolTimeout)*time.Second)
	defer assistant.Close()

	server := httpapi.NewServer(assistant,
		httpapi.WithGraphHealth(graph.Ping),
		httpapi.WithVectorHealth(docs.Ping),
	)

	scheduler := startHealthCron(cfg.Server.HealthCron, graph, docs)
	defer scheduler.Stop()

	go func() {
		log.Info("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed: %v", err)
		os.Exit(1)
	}
}

// buildRegistry wires the five insurance tools. The hybrid tool
// composes the generic graph search and the document search.
func buildRegistry(graph *graphstore.Store, docs *docstore.Store, topK int) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	graphSearch := tools.NewGraphSearchTool(graph)
	docSearch := tools.NewDocumentSearchTool(docs, topK)

	for _, tool := range []tools.Tool{
		tools.NewPlanLookupTool(graph),
		tools.NewProcedureCoverageTool(graph),
		graphSearch,
		docSearch,
		tools.NewHybridSearchTool(graphSearch, docSearch),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// startHealthCron schedules periodic backend connectivity checks so
// outages show up in the logs before a member hits them.
func startHealthCron(spec string, graph *graphstore.Store, docs *docstore.Store) *cron.Cron {
	scheduler := cron.New()
	if err := icron.Validate(spec); err != nil {
		log.Warn("Health check schedule rejected: %v", err)
		return scheduler
	}
	if next, err := icron.NextRun(spec, time.Now()); err == nil {
		log.Info("First backend health check at %s", next.Format(time.RFC3339))
	}

	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := graph.Ping(ctx); err != nil {
			log.Warn("Graph store health check failed: %v", err)
		}
		if err := docs.Ping(ctx); err != nil {
			log.Warn("Document store health check failed: %v", err)
		}
	})
	if err != nil {
		log.Warn("Invalid health check schedule %q: %v", spec, err)
	}
	scheduler.Start()
	return scheduler
}
