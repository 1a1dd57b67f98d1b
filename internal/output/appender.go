// Package output persists scrape results: an append-only CSV time
// series plus an optional YAML run summary.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/jmylchreest/marktwatch/internal/logger"
)

// Fixed CSV columns, always first and in this order.
var fixedColumns = []string{"Date", "Rank", "Club", "Value"}

// Row is one club's flattened record for one sample date. Extra values
// align positionally with the batch's extra headers; nil renders as an
// empty cell.
type Row struct {
	Date  string
	Rank  int
	Club  string
	Value int64
	Extra []any
}

// Appender writes batches of rows to a single CSV file. The header is
// written once, when the file is first created; later batches append
// rows only. Extra columns that appear after the header was written end
// up unlabeled — a known limitation of the append-only format, kept
// rather than silently rewriting history.
type Appender struct {
	path string
}

// NewAppender creates an appender bound to path. Nothing is opened
// until the first Append.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the output file path.
func (a *Appender) Path() string {
	return a.path
}

// Append writes one batch. A header row (fixed columns plus
// extraHeaders in order) is written first when the file does not exist
// yet. Each data row is flushed individually so an interrupted run
// never leaves a partial line behind. Returns the number of rows
// written.
func (a *Appender) Append(extraHeaders []string, rows []Row) (int, error) {
	_, statErr := os.Stat(a.path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return 0, fmt.Errorf("stat %s: %w", a.path, statErr)
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", a.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if !exists {
		header := append(append([]string{}, fixedColumns...), extraHeaders...)
		if err := w.Write(header); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return 0, fmt.Errorf("flush header: %w", err)
		}
		logger.Debug("csv header written", "path", a.path, "columns", header)
	}

	written := 0
	for _, row := range rows {
		record := make([]string, 0, len(fixedColumns)+len(row.Extra))
		record = append(record,
			row.Date,
			strconv.Itoa(row.Rank),
			row.Club,
			strconv.FormatInt(row.Value, 10),
		)
		for _, v := range row.Extra {
			record = append(record, formatField(v))
		}
		if err := w.Write(record); err != nil {
			return written, fmt.Errorf("write row %d: %w", written+1, err)
		}
		// Per-row flush: either the whole line lands or none of it.
		w.Flush()
		if err := w.Error(); err != nil {
			return written, fmt.Errorf("flush row %d: %w", written+1, err)
		}
		written++
	}

	return written, nil
}

// formatField renders an extracted value for CSV output.
func formatField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
