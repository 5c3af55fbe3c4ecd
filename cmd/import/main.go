package main

import (
	"context"
	"flag"
	"os"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/importer"
	"github.com/debemdeboas/draftboard/internal/logger"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/repository"
)

func main() {
	path := flag.String("path", "", "Path to the directory containing .md files")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	status := flag.String("status", string(model.StatusDraft), "Status of the imported blogs (draft or published)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New("info", logger.FormatConsole)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	importer.SetLogger(logger.Component(log, "import"))
	repository.SetLogger(logger.Component(log, "repository"))

	if *path == "" {
		log.Fatal().Msg("The --path flag is required")
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	res, err := importer.ImportDir(ctx, *path, store, model.Status(*status))
	if err != nil {
		log.Error().Err(err).Msg("Import failed")
		store.Close()
		os.Exit(1)
	}

	log.Info().Int("imported", res.Imported).Int("failed", res.Failed).Msg("Import finished")
}
