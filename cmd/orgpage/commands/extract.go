package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/internal/output"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Print the organization record extracted from a website",
	Long: `Fetch an organization's page and print the extracted record, with the
fields each extraction stage contributed, without downloading assets or
writing a page.

Examples:
  orgpage extract https://example.org/about
  orgpage extract https://example.org --format yaml -O record.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.String("format", string(output.FormatJSON), "output format: "+formatNames())
	flags.StringP("output", "O", "", "output file (default: stdout)")
	flags.Bool("record-only", false, "print only the record, without metadata")
}

func formatNames() string {
	names := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func runExtract(cmd *cobra.Command, args []string) error {
	initLogger()

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

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

	ext, err := g.Extract(ctx, cfg.URL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var data any = ext
	if recordOnly, _ := cmd.Flags().GetBool("record-only"); recordOnly {
		data = ext.Record
	}
	return output.Encode(out, format, data, output.WithPretty(true))
}
