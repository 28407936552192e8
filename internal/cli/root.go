// Package cli contains all commands for the gstsense CLI
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pawanraocse/gst-sense/internal/cli/output"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	printer *output.Printer
	logger  *slog.Logger
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gstsense",
	Short: "GST-Sense admin CLI",
	Long: `gstsense is a command-line client for the GST-Sense platform.

It signs in against the platform's identity provider, keeps the session
across invocations, and talks to the backend gateway with the session's
identity token attached.

Example usage:
  gstsense login                       # Password sign-in
  gstsense login --provider Google     # Federated sign-in via browser
  gstsense whoami                      # Show the current identity
  gstsense entries list                # List GST ledger entries
  gstsense tenant lookup a@b.com       # Resolve the tenant for an email`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .gstsense.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gstsense")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GSTSENSE")
	viper.AutomaticEnv()

	viper.SetDefault("gateway_url", "http://localhost:8888")
	viper.SetDefault("api_url", "http://localhost:8080")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	logLevel := slog.LevelWarn
	if viper.GetBool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	printer = output.NewPrinter(output.ResolveColors(noColor))
	return nil
}
