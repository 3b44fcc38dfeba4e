package commands

import (
	"fmt"

	clifetcher "github.com/jmylchreest/orgpage/cmd/orgpage/fetcher"
	"github.com/jmylchreest/orgpage/internal/config"
	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
	"github.com/jmylchreest/orgpage/pkg/orgpage"
)

// newGenerator builds a generator for cfg. The returned cleanup closes the
// page fetcher and the generator's own fetchers.
func newGenerator(cfg *config.Config) (*orgpage.Generator, func(), error) {
	opts := []orgpage.Option{
		orgpage.WithUserAgent(cfg.UserAgent),
		orgpage.WithTimeout(cfg.Timeout),
		orgpage.WithMaxBodySize(cfg.MaxBodyBytes),
		orgpage.WithOutputDir(cfg.OutputDir),
		orgpage.WithFonts(cfg.Fonts...),
		orgpage.WithPrettyHTML(cfg.PrettyHTML),
		orgpage.WithHeaders(cfg.Headers),
		orgpage.WithWaitFor(cfg.WaitFor),
		orgpage.WithWait(cfg.Wait),
	}

	var page fetcher.Fetcher
	switch cfg.FetchMode {
	case config.FetchModeDynamic:
		dynamicFetcher, err := clifetcher.NewDynamicFetcher(clifetcher.Config{
			UserAgent:  cfg.UserAgent,
			Timeout:    cfg.Timeout,
			ChromePath: cfg.ChromePath,
		})
		if err != nil {
			logger.Error("failed to create dynamic fetcher", "error", err)
			return nil, nil, err
		}
		page = dynamicFetcher
		opts = append(opts, orgpage.WithFetcher(page))
	case config.FetchModeStatic, "":
	default:
		return nil, nil, fmt.Errorf("unknown fetch mode: %s (use 'static' or 'dynamic')", cfg.FetchMode)
	}

	g := orgpage.New(opts...)
	logger.Debug("generator created", "fetch_mode", cfg.FetchMode, "output_dir", cfg.OutputDir)

	cleanup := func() {
		if page != nil {
			_ = page.Close()
		}
		_ = g.Close()
	}
	return g, cleanup, nil
}
