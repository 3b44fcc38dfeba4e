package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/orgpage/internal/config"
	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/orgpage"
)

var generateCmd = &cobra.Command{
	Use:   "generate <url>",
	Short: "Generate an organization page from a website",
	Long: `Fetch an organization's page, extract its details and write
index.html, styles.css and downloaded assets to the output directory.

Only a failed fetch of the page itself aborts the run. Missing fonts,
logos or stylesheets are listed in the summary and left out of the page.

Examples:
  orgpage generate https://example.org/about
  orgpage generate https://example.org -o site --pretty
  orgpage generate https://example.org --fonts Lora,Inter`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringP("output-dir", "o", config.DefaultOutputDir, "directory to write the page into")
	flags.StringSlice("fonts", config.DefaultFonts, "alternative font families offered on the page")
	flags.Bool("pretty", false, "indent the generated HTML")

	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("fonts", flags.Lookup("fonts"))
	_ = viper.BindPFlag("pretty_html", flags.Lookup("pretty"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	g, cleanup, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logInfo("Generating page for %s", cfg.URL)

	result, err := g.Generate(ctx, cfg.URL)
	if err != nil {
		if errors.Is(err, orgpage.ErrPrimaryFetch) {
			logger.Error("could not fetch the organization page", "url", cfg.URL, "error", err)
		}
		return err
	}

	logInfo("\n%s", result.Summary())
	logInfo("Done: %s", result.HTMLPath)
	return nil
}
