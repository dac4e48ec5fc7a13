package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"searchbar/internal/eventbus"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configService(nil).Path())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Long: `Write the configuration that results from defaults, env and flags to the
config file. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := eventbus.New()
		stats := newSessionStats(bus)
		svc := configService(bus)
		if _, err := os.Stat(svc.Path()); err == nil && !configInitForce {
			bus.Close()
			return fmt.Errorf("config file %s already exists (use --force)", svc.Path())
		}

		cfg, err := loadConfig(cmd, bus)
		if err == nil {
			err = svc.Save(cfg)
		}
		bus.Close()
		if err != nil {
			return err
		}
		for _, path := range stats.Saved() {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
