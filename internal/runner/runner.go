// Package runner drives a scrape run: one fetch, extract, and CSV
// append per sample date, strictly in order. A date that fails to
// fetch or parse is logged and skipped; the run itself only fails on
// startup problems or cancellation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/marktwatch/internal/dates"
	"github.com/jmylchreest/marktwatch/internal/extractor"
	"github.com/jmylchreest/marktwatch/internal/logger"
	"github.com/jmylchreest/marktwatch/internal/output"
	"github.com/jmylchreest/marktwatch/pkg/fetcher"
)

// DefaultBaseURL is the Bundesliga market-value page; a sample date is
// appended as /stichtag/YYYY-MM-DD.
const DefaultBaseURL = "https://www.transfermarkt.com/bundesliga/marktwerteverein/wettbewerb/L1"

// DefaultDelay separates consecutive remote fetches.
const DefaultDelay = 5 * time.Second

// Config holds everything a run needs. Validated on construction;
// an invalid config is a startup failure, never a mid-run one.
type Config struct {
	DateFrom     string        `validate:"required"`
	DateTo       string        `validate:"required"`
	OutputFile   string        `validate:"required"`
	BaseURL      string        `validate:"required_unless=UseLocalFile true,omitempty,url"`
	Delay        time.Duration `validate:"gte=0"`
	Timeout      time.Duration `validate:"gte=0"`
	UseLocalFile bool
	LocalFile    string `validate:"required_if=UseLocalFile true"`
	SummaryFile  string
	UserAgent    string
}

// Runner executes one scrape run over a fetcher it does not own; the
// caller closes the fetcher.
type Runner struct {
	cfg      Config
	fetcher  fetcher.Fetcher
	appender *output.Appender
	sched    []time.Time
}

// New validates cfg, resolves the sample-date schedule, and returns a
// ready Runner.
func New(cfg Config, f fetcher.Fetcher) (*Runner, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sched, err := dates.Range(cfg.DateFrom, cfg.DateTo)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  f,
		appender: output.NewAppender(cfg.OutputFile),
		sched:    sched,
	}, nil
}

// Dates returns the resolved sample-date schedule.
func (r *Runner) Dates() []time.Time {
	return r.sched
}

// Run processes every sample date in order. It returns a Summary of
// what was written and skipped; the error is non-nil only on
// cancellation or a summary-file write failure.
func (r *Runner) Run(ctx context.Context) (output.Summary, error) {
	sum := output.Summary{
		DateFrom:   r.cfg.DateFrom,
		DateTo:     r.cfg.DateTo,
		OutputFile: r.cfg.OutputFile,
		DatesTotal: len(r.sched),
	}

	logger.Info("scrape run starting",
		"dates", len(r.sched),
		"from", r.cfg.DateFrom,
		"to", r.cfg.DateTo,
		"fetcher", r.fetcher.Type(),
		"output", r.cfg.OutputFile)

	remote := r.fetcher.Type() != "local"
	for i, date := range r.sched {
		if err := r.processDate(ctx, date, &sum); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return sum, err
			}
			// Recoverable: the date was logged and skipped.
		}

		if remote && i < len(r.sched)-1 && r.cfg.Delay > 0 {
			logger.Debug("delaying before next fetch", "delay", r.cfg.Delay)
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(r.cfg.Delay):
			}
		}
	}

	logger.Info("scrape run complete",
		"dates_total", sum.DatesTotal,
		"dates_written", sum.DatesWritten,
		"dates_skipped", len(sum.DatesSkipped),
		"rows_written", sum.RowsWritten,
		"warnings", len(sum.Warnings))

	if r.cfg.SummaryFile != "" {
		if err := output.WriteSummary(r.cfg.SummaryFile, sum); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// processDate runs fetch -> extract -> append for one sample date.
// Every failure short of cancellation marks the date skipped and
// returns nil-equivalent handling to the caller.
func (r *Runner) processDate(ctx context.Context, date time.Time, sum *output.Summary) error {
	ds := date.Format(dates.Format)
	url := r.pageURL(ds)
	logger.Info("processing date", "date", ds, "url", url)

	content, err := r.fetcher.Fetch(ctx, url, fetcher.Options{
		UserAgent:       r.cfg.UserAgent,
		Timeout:         r.cfg.Timeout,
		WaitForSelector: extractor.TableSelector,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Error("fetch failed, skipping date", "date", ds, "error", err)
		r.skip(sum, ds)
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err != nil {
		logger.Error("page unparseable, skipping date", "date", ds, "error", err)
		r.skip(sum, ds)
		return err
	}

	res, err := extractor.Extract(doc, date)
	if err != nil {
		logger.Error("extraction failed, skipping date", "date", ds, "error", err)
		r.skip(sum, ds)
		return err
	}

	for _, w := range res.Warnings {
		logger.Warn("row skipped or degraded", "date", ds, "row", w.Row, "error", w.Err)
		sum.Warnings = append(sum.Warnings, fmt.Sprintf("%s row %d: %v", ds, w.Row, w.Err))
	}

	if len(res.Records) == 0 {
		logger.Warn("no usable records, skipping date", "date", ds)
		r.skip(sum, ds)
		return nil
	}

	n, err := r.appender.Append(res.ExtraHeaders, toRows(res))
	sum.RowsWritten += n
	if err != nil {
		logger.Error("csv append failed, skipping date", "date", ds, "rows_written", n, "error", err)
		r.skip(sum, ds)
		return err
	}

	sum.DatesWritten++
	logger.Info("date written", "date", ds, "rows", n)
	return nil
}

func (r *Runner) pageURL(date string) string {
	return strings.TrimRight(r.cfg.BaseURL, "/") + "/stichtag/" + date
}

func (r *Runner) skip(sum *output.Summary, date string) {
	sum.DatesSkipped = append(sum.DatesSkipped, date)
}

// toRows flattens extracted records, aligning extra values with the
// result's extra header order.
func toRows(res *extractor.Result) []output.Row {
	ds := res.Date.Format(dates.Format)
	rows := make([]output.Row, 0, len(res.Records))
	for _, rec := range res.Records {
		row := output.Row{
			Date:  ds,
			Rank:  rec.Rank,
			Club:  rec.Club,
			Value: rec.Value,
			Extra: make([]any, len(res.ExtraHeaders)),
		}
		for i, h := range res.ExtraHeaders {
			row.Extra[i] = rec.Extra[h]
		}
		rows = append(rows, row)
	}
	return rows
}
