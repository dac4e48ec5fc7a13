// Package cli wires configuration, logging and the frontends into the
// searchbar command.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"searchbar/internal/config"
	"searchbar/internal/eventbus"
	"searchbar/internal/search"
	"searchbar/internal/ui"
)

type rootOptions struct {
	configPath string
	envFile    string
	endpoint   string
	trigger    string
	logFile    string
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:   "searchbar",
	Short: "Search a backend from the terminal",
	Long: `searchbar sends what you type to a search backend (POST api/search) and
shows the returned file names, one per line.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := eventbus.New()
		stats := newSessionStats(bus)

		cfg, err := loadConfig(cmd, bus)
		if err != nil {
			bus.Close()
			return err
		}
		closeLog := setupLogging(cfg.LogFile)
		defer closeLog()
		return runTUI(cfg, bus, stats)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: user config dir)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Env file with SEARCHBAR_* overrides")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "Base URL that api/search is resolved against")
	flags.StringVarP(&opts.trigger, "trigger", "t", "", `Key releases that submit: "keyup" (every key) or "enter"`)
	flags.StringVar(&opts.logFile, "log-file", "", "Log file (default searchbar.log)")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig applies, in order: defaults, config file, env file and
// environment, command line flags. bus may be nil.
func loadConfig(cmd *cobra.Command, bus eventbus.EventBus) (*config.Config, error) {
	cfg, err := configService(bus).Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := config.ApplyEnv(cfg, opts.envFile); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = opts.endpoint
	}
	if flags.Changed("trigger") {
		cfg.Trigger = opts.trigger
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configService(bus eventbus.EventBus) config.ConfigService {
	svc := config.NewConfigService()
	if opts.configPath != "" {
		svc = config.NewConfigServiceAt(opts.configPath)
	}
	if bus != nil {
		svc = config.WithBus(svc, bus)
	}
	return svc
}

// setupLogging sends the standard logger to path and returns a function that
// closes the file
func setupLogging(path string) func() {
	if path == "" {
		return func() {}
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() {
		log.SetOutput(os.Stderr)
		logFile.Close()
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// runTUI runs the terminal UI. It closes bus and logs stats on return.
func runTUI(cfg *config.Config, bus eventbus.EventBus, stats *sessionStats) error {
	ctx, cancel := signalContext()
	defer cancel()

	defer func() {
		bus.Close()
		stats.Log()
	}()

	client, err := search.NewClient(cfg.Endpoint, nil, cfg.Timeout())
	if err != nil {
		return err
	}
	log.Printf("Searching %s (trigger %s)", client.Endpoint(), cfg.Trigger)

	model := ui.NewModel(ctx, cfg, client, bus)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("running program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}
