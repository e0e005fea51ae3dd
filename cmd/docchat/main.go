// Command docchat is the terminal client for chatting with uploaded
// documents.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/auth"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/config/file"
	indexhttp "github.com/docchat-labs/docchat-cli/internal/adapters/driven/indexservice/http"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/router"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/services"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// defaultBaseURL points at a locally run index service.
const defaultBaseURL = "http://localhost:8000"

// closers tears down adapters after the command finishes.
var closers []func() error

func main() {
	cli.OnInit(buildServices)

	err := cli.Execute()
	shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// buildServices constructs the adapter and service graph. It runs after
// flag parsing so the persistent flags can shape construction.
func buildServices() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider, err := auth.NewFileSessionProvider("")
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	closers = append(closers, provider.Close)

	dataDir := cfg.GetString("storage.data_dir")

	var (
		routes      driven.Router
		documentDB  driven.DocumentStore
		transcripts driven.TranscriptStore
	)
	if cli.Ephemeral() {
		routes = router.NewEphemeral()
		documentDB = memory.NewDocumentStore()
		transcripts = memory.NewTranscriptStore()
	} else {
		persisted, err := router.New(dataDir)
		if err != nil {
			return fmt.Errorf("opening route store: %w", err)
		}
		closers = append(closers, persisted.Close)
		routes = persisted

		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		closers = append(closers, store.Close)
		documentDB = store.DocumentStore()
		transcripts = store.TranscriptStore()
	}

	baseURL := cli.BaseURL()
	if baseURL == "" {
		baseURL = cfg.GetString("service.base_url")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	clientCfg := indexhttp.Config{BaseURL: baseURL}
	if secs := cfg.GetInt("service.timeout_seconds"); secs > 0 {
		clientCfg.Timeout = time.Duration(secs) * time.Second
	}

	client, err := indexhttp.NewClient(clientCfg)
	if err != nil {
		return fmt.Errorf("creating index service client: %w", err)
	}

	session := services.NewSessionOrchestrator(
		client,
		transcripts,
		documentDB,
		routes,
		provider,
	)
	closers = append(closers, session.Close)

	documents := services.NewDocumentService(
		client,
		documentDB,
		transcripts,
		provider,
	)
	documents.BindSession(session)

	logger.Debug("services wired, base URL %s", baseURL)

	cli.Bind(cli.Deps{
		Session:         session,
		Documents:       documents,
		SessionProvider: provider,
	})
	return nil
}

// shutdown closes adapters in reverse construction order.
func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}
}
