package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/marktwatch/internal/logger"
	"github.com/jmylchreest/marktwatch/internal/runner"
	"github.com/jmylchreest/marktwatch/pkg/fetcher"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch market values and append them to a CSV time series",
	Long: `Scrape club market values for every sample date in a range and
append one CSV row per club per date.

Dates falling on the 1st or 15th of a month are sampled between
--date-from and --date-to; the bounds themselves are always included.
A failed date is skipped and logged, never fatal: rerunning with the
same output file appends the newly scraped dates.

Examples:
  # A year of Bundesliga values, default 5s between requests
  marktwatch scrape --date-from 2024-10-01 --date-to 2025-10-01

  # Another competition
  marktwatch scrape --base-url "https://www.transfermarkt.com/premier-league/marktwerteverein/wettbewerb/GB1"

  # JS-rendered or bot-challenged delivery
  marktwatch scrape --fetch-mode dynamic`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	flags.String("date-from", "2024-10-01", "start date (YYYY-MM-DD)")
	flags.String("date-to", "2025-10-01", "end date (YYYY-MM-DD)")
	flags.StringP("output-file", "o", "bundesliga_market_values.csv", "output CSV file")
	flags.String("summary-file", "", "write a YAML run summary to this file")

	flags.String("base-url", runner.DefaultBaseURL, "competition market-value page URL")
	flags.Duration("delay", runner.DefaultDelay, "delay between remote fetches")
	flags.Duration("timeout", fetcher.DefaultTimeout, "per-request timeout")
	flags.String("user-agent", "", "override the request user agent")
	flags.String("fetch-mode", "static", "fetch mode: static, dynamic")

	flags.Bool("use-local-file", false, "read a local HTML file instead of fetching")
	flags.String("local-file", "page.html", "local HTML file for --use-local-file")

	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flags := cmd.Flags()
	dateFrom, _ := flags.GetString("date-from")
	dateTo, _ := flags.GetString("date-to")
	outputFile, _ := flags.GetString("output-file")
	summaryFile, _ := flags.GetString("summary-file")
	delay, _ := flags.GetDuration("delay")
	timeout, _ := flags.GetDuration("timeout")
	useLocal, _ := flags.GetBool("use-local-file")
	localFile, _ := flags.GetString("local-file")

	cfg := runner.Config{
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		OutputFile:   outputFile,
		SummaryFile:  summaryFile,
		BaseURL:      viper.GetString("base_url"),
		UserAgent:    viper.GetString("user_agent"),
		Delay:        delay,
		Timeout:      timeout,
		UseLocalFile: useLocal,
		LocalFile:    localFile,
	}

	f, err := newFetcher(cfg, viper.GetString("fetch_mode"), timeout)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer f.Close()

	r, err := runner.New(cfg, f)
	if err != nil {
		logError("%v", err)
		return err
	}

	// Per-date failures are absorbed inside Run; only cancellation or
	// a summary write failure surfaces here.
	if _, err := r.Run(ctx); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

func newFetcher(cfg runner.Config, mode string, timeout time.Duration) (fetcher.Fetcher, error) {
	if cfg.UseLocalFile {
		return fetcher.NewLocal(cfg.LocalFile), nil
	}
	switch mode {
	case "static", "":
		return fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   timeout,
		}), nil
	case "dynamic":
		return fetcher.NewDynamic(fetcher.DynamicConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   timeout,
		})
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static' or 'dynamic')", mode)
	}
}
