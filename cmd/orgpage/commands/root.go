// Package commands implements the CLI commands for orgpage.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/orgpage/internal/config"
	"github.com/jmylchreest/orgpage/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "orgpage",
	Short: "Build a standalone organization page from a company website",
	Long: `Orgpage fetches an organization's public web page, extracts its name,
description, phones, emails, address, logo and font, and writes a static
HTML/CSS page with a font-selection control.

Examples:
  # Generate output/index.html and output/styles.css
  orgpage generate https://example.org/about

  # Render JavaScript-heavy pages with a headless browser
  orgpage generate https://example.org --fetch-mode dynamic -o site

  # Print the extracted record as YAML
  orgpage extract https://example.org --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.orgpage.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("json-log", false, "emit logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_log", rootCmd.PersistentFlags().Lookup("json-log"))

	// Fetch settings shared by generate and extract
	flags := rootCmd.PersistentFlags()
	flags.String("fetch-mode", config.FetchModeStatic, "fetch mode: static, dynamic")
	flags.Duration("timeout", config.DefaultTimeout, "request timeout")
	flags.String("user-agent", config.DefaultUserAgent, "HTTP user agent")
	flags.String("max-body-size", config.DefaultMaxBodySize, "max response size (e.g., 512KB, 10MB, 0=unlimited)")
	flags.String("chrome-path", "", "browser binary for dynamic fetch mode (searched for when empty)")
	flags.StringToString("header", nil, "extra request header for the page, key=value (can be repeated)")
	flags.String("wait-for", "", "dynamic fetch mode: CSS selector to wait for before reading the page")
	flags.Duration("wait", 0, "dynamic fetch mode: extra delay after the page has loaded")

	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("max_body_size", flags.Lookup("max-body-size"))
	_ = viper.BindPFlag("chrome_path", flags.Lookup("chrome-path"))
	_ = viper.BindPFlag("headers", flags.Lookup("header"))
	_ = viper.BindPFlag("wait_for", flags.Lookup("wait-for"))
	_ = viper.BindPFlag("wait", flags.Lookup("wait"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".orgpage")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())

	// Environment variables
	viper.SetEnvPrefix("ORGPAGE")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// initLogger configures logging from the global flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("json_log"),
	})
}

// loadConfig takes the page URL from args and validates the merged settings.
func loadConfig(args []string) (*config.Config, error) {
	if len(args) > 0 {
		viper.Set("url", args[0])
	}
	return config.Load(viper.GetViper())
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
