package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NuZard84/go-speedtype/internal/config"
	"github.com/NuZard84/go-speedtype/internal/content"
	"github.com/NuZard84/go-speedtype/internal/db"
)

var (
	debug   bool
	envFile string
	appCtx  *app
)

// app holds what every subcommand needs
type app struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	provider *content.Provider
	mongo    *db.SentenceSource
}

func Execute() error {
	root := &cobra.Command{
		Use:          "speedtype",
		Short:        "Typing speed test server and terminal client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				cfg.DebugMode = debug
			}

			logger, err := newLogger(cfg.DebugMode)
			if err != nil {
				return err
			}

			appCtx = &app{cfg: cfg, logger: logger}
			appCtx.provider = appCtx.newProvider(cmd.Context())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			appCtx.close()
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env when present)")

	root.AddCommand(serveCmd(), textCmd(), playCmd())
	return root.ExecuteContext(context.Background())
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// newProvider lists the remote sources, then mongo when configured.
func (a *app) newProvider(ctx context.Context) *content.Provider {
	sources := content.DefaultSources(a.cfg.Content, http.DefaultClient)

	if a.cfg.Mongo.URI != "" {
		src, err := db.Connect(ctx, a.cfg.Mongo)
		if err != nil {
			a.logger.Warnw("Mongo source disabled", "error", err)
		} else {
			a.mongo = src
			sources = append(sources, src)
		}
	}

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	a.logger.Debugw("Content sources configured", "sources", names)

	return content.NewProvider(a.logger, a.cfg.Content.FetchTimeout, sources...)
}

func (a *app) close() {
	if a == nil {
		return
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			a.logger.Warnw("Failed to disconnect mongo", "error", err)
		}
	}
	_ = a.logger.Sync()
}
