package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/services/analysis"
	"github.com/fundingpath/signalchain/internal/services/entities"
	"github.com/fundingpath/signalchain/internal/storage/badger"
)

func main() {
	configPath := os.Getenv("SIGNALCHAIN_CONFIG")
	if configPath == "" {
		configPath = "signalchain.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	entityService := entities.NewService(storageManager.EntityStorage(), nil, logger)

	analysisService, err := analysis.NewService(storageManager, nil, logger, &config.Engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize analysis service")
	}

	ctx := context.Background()
	if config.Entities.SnapshotDir != "" {
		if _, err := entityService.LoadSnapshotDir(ctx, config.Entities.SnapshotDir); err != nil {
			logger.Fatal().Err(err).Msg("Failed to load entity snapshots")
		}
	}
	if err := analysisService.Reload(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to build signal index")
	}

	mcpServer := server.NewMCPServer(
		"signalchain",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createDetectSignalChainsTool(), handleDetectSignalChains(analysisService, logger))
	mcpServer.AddTool(createPredictNextSignalsTool(), handlePredictNextSignals(analysisService, logger))
	mcpServer.AddTool(createAnalyzeSignalClustersTool(), handleAnalyzeSignalClusters(analysisService, logger))
	mcpServer.AddTool(createListEntitiesTool(), handleListEntities(entityService, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
