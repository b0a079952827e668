package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/internal/server"
)

// newServeCmd creates the serve command, which loads one estate snapshot and
// serves the HTTP façade over it until interrupted. The snapshot is
// immutable for the lifetime of the process; reloads mean restarts.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Listen = addr
			}

			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}

			responseCache, err := buildCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer responseCache.Close()
			logger.Debug("cache ready", "backend", cfg.Cache.Backend, "ttl", time.Duration(cfg.Cache.TTL))

			srv := server.New(e, server.Config{
				Addr:     cfg.Listen,
				Cache:    responseCache,
				CacheTTL: time.Duration(cfg.Cache.TTL),
				Logger:   logger,
			})
			return srv.Run(cmd.Context())
		},
	}

	addFileFlag(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config file)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML server config")
	return cmd
}
