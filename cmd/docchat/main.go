// Command docchat is a terminal client for a document question-answering
// backend: upload documents, ask questions, stream answers with citations.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/backend"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/history/sqlite"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	clientCfg := backend.Config{BaseURL: cfg.GetString(file.KeyBackendURL)}
	if secs := cfg.GetInt(file.KeyBackendTimeout); secs > 0 {
		clientCfg.Timeout = time.Duration(secs) * time.Second
	}
	client := backend.NewClient(clientCfg)

	var reconcileDelay time.Duration
	if secs := cfg.GetInt(file.KeyReconcileDelay); secs > 0 {
		reconcileDelay = time.Duration(secs) * time.Second
	}
	store := services.NewConversationStore(client, reconcileDelay)

	var history driven.PromptHistoryStore
	if historyEnabled(cfg) {
		dataDir := filepath.Join(filepath.Dir(cfg.Path()), "data")
		sqlStore, err := sqlite.NewStore(dataDir)
		if err != nil {
			logger.Warn("prompt history disabled: %v", err)
		} else {
			history = sqlStore
			defer sqlStore.Close()
		}
	}

	// Each renderer gets its own assembler and orchestrator; the backend
	// client and conversation store are shared, so the TUI, one-shot ask,
	// and MCP sessions all see the same conversation state.
	chatFactory := func(renderer driven.Renderer) driving.ChatService {
		assembler := services.NewAssembler(renderer, services.NewCitationAttacher())
		orchestrator := services.NewStreamOrchestrator(client, store, assembler)
		if history != nil {
			orchestrator.SetPromptHistory(history)
		}
		return orchestrator
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		ChatFactory:   chatFactory,
		Conversations: store,
		Documents:     services.NewDocumentService(client),
		Backend:       client,
		History:       history,
		Config:        cfg,
	})

	return cli.Execute()
}

// historyEnabled reads the history toggle; absent means enabled.
func historyEnabled(cfg driven.ConfigStore) bool {
	if _, ok := cfg.Get(file.KeyHistoryEnabled); ok {
		return cfg.GetBool(file.KeyHistoryEnabled)
	}
	return true
}
