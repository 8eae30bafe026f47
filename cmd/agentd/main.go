// Command agentd serves the calendar/task orchestration agent's JSON-RPC
// 2.0 surface at /a2a/rpc plus its discovery and legacy HTTP endpoints. It
// wires one of three interchangeable model.Client backends
// (anthropic/openai/bedrock) into the NL interpreter layer and mounts the
// pipeline dispatcher behind chi.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"goa.design/clue/log"

	"agentcal/internal/a2a"
	"agentcal/internal/auth"
	"agentcal/internal/interpret"
	"agentcal/internal/model"
	"agentcal/internal/model/anthropic"
	"agentcal/internal/model/bedrock"
	"agentcal/internal/model/openai"
	"agentcal/internal/pipeline"
	"agentcal/internal/telemetry"
)

func main() {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if os.Getenv("DEBUG") != "" {
		ctx = log.Context(ctx, log.WithDebug())
	}

	if err := run(ctx); err != nil {
		log.Fatal(ctx, err)
	}
}

func run(ctx context.Context) error {
	client, err := newModelClient()
	if err != nil {
		return fmt.Errorf("agentd: building model client: %w", err)
	}

	disp := pipeline.New(interpret.New(client), getenv("TASK_BASE_URL", "https://api.app.reclaim.ai/api"), getenv("CALENDAR_BASE_URL", "https://api.us.nylas.com/v3"))
	disp.Logger = telemetry.NewClueLogger()
	disp.Tracer = telemetry.NewClueTracer()
	disp.Metrics = telemetry.NewClueMetrics()

	authn := buildAuthenticator()

	agentID := getenv("AGENT_ID", "agentcal")
	srv := &a2a.Server{
		Dispatcher: disp,
		Auth: authn,
		Card: a2a.BuildAgentCard(agentID, getenv("AGENT_VERSION", "0.1.0"),
			getenv("PUBLIC_URL", "http://localhost:8080")+"/a2a/rpc",
			os.Getenv("A2A_DEV_SECRET") != "", os.Getenv("OIDC_ISSUER") != ""),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	srv.Mount(r)
	srv.MountLegacy(r)

	addr := ":" + getenv("PORT", "8080")
	httpSrv := &http.Server{
		Addr: addr,
		Handler: r,
		ReadTimeout: 15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf(ctx, "agentd listening on %s", addr)
		errc <- httpSrv.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-sigc:
		log.Printf(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// newModelClient selects the model.Client backend from MODEL_PROVIDER.
// Interpreters depend only on the model.Client interface, never a concrete
// SDK type.
func newModelClient() (model.Client, error) {
	switch getenv("MODEL_PROVIDER", "anthropic") {
	case "openai":
		return openai.NewFromAPIKey(os.Getenv("OPENAI_API_KEY"), getenv("OPENAI_MODEL", "gpt-4o"))
	case "bedrock":
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return bedrock.New(bedrockruntime.NewFromConfig(cfg), bedrock.Options{
			DefaultModel: getenv("BEDROCK_MODEL", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
			MaxTokens: 1024,
		})
	default:
		return anthropic.NewFromAPIKey(os.Getenv("ANTHROPIC_API_KEY"), getenv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"))
	}
}

// buildAuthenticator wires whichever of the two accepted auth schemes are
// configured via environment; a deployment may enable either, both, or (for
// local development) neither.
func buildAuthenticator() a2a.Authenticator {
	var schemes []interface {
		Authenticate(r *http.Request) bool
	}
	if secret := os.Getenv("A2A_DEV_SECRET"); secret != "" {
		schemes = append(schemes, &auth.SecretAuthenticator{Secret: secret})
	}
	if issuer := os.Getenv("OIDC_ISSUER"); issuer != "" {
		schemes = append(schemes, auth.NewOIDCAuthenticator(issuer, getenv("AGENT_ID", "agentcal"), os.Getenv("OIDC_JWKS_URL")))
	}
	if len(schemes) == 0 {
		return nil
	}
	return &auth.MultiAuthenticator{Schemes: schemes}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
