package main

import (
	"fmt"
	"os"

	"content-archives/archives"
	"content-archives/config"
	"content-archives/database"
	"content-archives/logging"
	"content-archives/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	repo   *storage.ContentRepository
	locale archives.Locale
	svc    *archives.Service
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	locale, err := archives.ParseLocale(cfg.Server.Locale)
	if err != nil {
		return nil, err
	}

	db, err := database.Init(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	repo := storage.NewContentRepository(db, cfg.ContentTypes)
	return &app{
		cfg:    cfg,
		log:    log,
		repo:   repo,
		locale: locale,
		svc:    archives.NewService(repo, cfg.Archives, locale, log),
	}, nil
}

// close flushes the logger. The database handle is shared for the life of
// the process and is not closed here.
func (a *app) close() {
	_ = a.log.Sync()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "content-archives",
		Short:         "Yearly and monthly archives for content types",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	root.AddCommand(newServeCmd(), newListCmd(), newSeedCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
