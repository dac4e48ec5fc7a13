package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"searchbar/internal/server"
)

var serveOpts struct {
	addr     string
	upstream string
	assets   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the browser widget and relay api/search to a backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg.LogFile)
		defer closeLog()

		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr = serveOpts.addr
		}
		if flags.Changed("upstream") {
			cfg.Server.Upstream = serveOpts.upstream
		}
		if flags.Changed("assets") {
			cfg.Server.AssetsDir = serveOpts.assets
		}
		if cfg.Server.Upstream == "" {
			return errors.New("no upstream configured: pass --upstream or set [server] upstream")
		}

		assets := server.Assets(cfg.Server.AssetsDir)
		if err := server.CheckAssets(assets); err != nil {
			return fmt.Errorf("%w (run go generate ./internal/server or pass --assets)", err)
		}

		srv, err := server.New(assets, cfg.Server.Upstream, nil)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		fmt.Fprintf(cmd.OutOrStdout(), "server started on %s and ready\n", cfg.Server.Addr)
		if err := server.ListenAndServe(ctx, cfg.Server.Addr, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveOpts.addr, "addr", ":8080", "Listen address")
	flags.StringVar(&serveOpts.upstream, "upstream", "", "Base URL of the search backend")
	flags.StringVar(&serveOpts.assets, "assets", "", "Directory whose files override the embedded frontend (index.html, main.wasm, wasm_exec.js)")
}
