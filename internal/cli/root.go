// Package cli defines the krang command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/T-One/krang/internal/app"
	"github.com/T-One/krang/internal/config"
	"github.com/T-One/krang/internal/registry"
)

// Version is the release version, overridable at build time.
var Version = "dev"

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "krang",
		Short: "Discord bot for controlling a fixed set of containers",
		Long: `krang is a chat-driven remote control for a container runtime. Authorized
users in allowed Discord channels can start, stop, restart, inspect and tail
logs of a fixed set of named containers over the runtime's Docker-compatible
API (Podman or Docker).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bot",
		Long: `Connect to Discord and the container runtime and serve commands until
interrupted. The bot token is read from the ` + config.TokenEnvVar + ` environment
variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			return app.New().Run(cmd.Context(), configPath)
		},
	}
	runCmd.Flags().StringP("config", "c", "", "Path to krang.toml")
	return runCmd
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and registry files",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPath()
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			reg, err := registry.LoadFile(cfg.Registry.File)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d containers)\n", configPath, reg.Len())
			return nil
		},
	}
	validateCmd.Flags().StringP("config", "c", "", "Path to krang.toml")

	configCmd.AddCommand(validateCmd)
	return configCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the krang version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "krang "+Version)
		},
	}
}
