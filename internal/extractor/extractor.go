// Package extractor turns a fetched market-value page into typed club
// records. It expects the transfermarkt table layout: one header row
// naming the columns, one body row per club. Row-level problems are
// collected as warnings; a page is only an error when no table or no
// usable row exists.
package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/marktwatch/internal/logger"
)

// Fixed column names every record carries.
const (
	ColRank  = "Rank"
	ColClub  = "Club"
	ColValue = "Value"
)

// TableSelector locates the market-value table on the page. Exported so
// dynamic fetchers can wait for it to render.
const TableSelector = "div.responsive-table table.items"

// ErrTableNotFound means the page carries no market-value table, either
// because the fetch was blocked or the site markup changed.
var ErrTableNotFound = errors.New("market-value table not found")

// Matches dated value headers such as "Value Oct 1, 2024".
var valueHeaderRe = regexp.MustCompile(`Value \w+ \d+`)

// RowParseError reports a body row that had to be dropped: missing club
// cell, unreadable rank, or too few cells to mean anything.
type RowParseError struct {
	Row    int
	Reason string
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Warning records a recoverable per-row failure. Row is the 1-based
// position in the table body.
type Warning struct {
	Row int
	Err error
}

// Record is one club's market-value data for one sample date.
// Extra holds any columns beyond the fixed three, keyed by header name;
// values are int64 (currency), float64 (percentage), string (raw text),
// or nil (unparseable percentage).
type Record struct {
	Rank  int
	Club  string
	Value int64
	Extra map[string]any
}

// Result is one page's extraction output. ExtraHeaders preserves the
// table's column order for everything beyond Date/Rank/Club/Value.
type Result struct {
	Date         time.Time
	ExtraHeaders []string
	Records      []Record
	Warnings     []Warning
}

// Extract parses the market-value table out of doc for the given sample
// date. It returns ErrTableNotFound when the table or its header row is
// missing, and otherwise never fails: bad rows become Warnings.
func Extract(doc *goquery.Document, date time.Time) (*Result, error) {
	table := doc.Find(TableSelector).First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	headerRow := table.Find("thead tr").First()
	if headerRow.Length() == 0 {
		return nil, fmt.Errorf("%w: table has no header row", ErrTableNotFound)
	}
	headers := normalizeHeaders(headerRow)
	logger.Debug("table headers resolved", "headers", headers)

	rankIdx := indexOf(headers, ColRank)
	res := &Result{Date: date}
	for _, h := range headers {
		if h != ColRank && h != ColClub && h != ColValue {
			res.ExtraHeaders = append(res.ExtraHeaders, h)
		}
	}

	rowNum := 0
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") || row.HasClass("tfoot") {
			return
		}
		rowNum++

		cells := rowCells(row)
		if len(cells) < 2 {
			res.warn(rowNum, &RowParseError{Row: rowNum, Reason: "too few cells"})
			return
		}

		rec := Record{Extra: make(map[string]any)}

		// Club first: a row without one is unusable.
		clubIdx := indexOf(headers, ColClub)
		if clubIdx < 0 || clubIdx >= len(cells) || cells[clubIdx] == "" {
			res.warn(rowNum, &RowParseError{Row: rowNum, Reason: "missing club name"})
			return
		}
		rec.Club = cells[clubIdx]

		if rankIdx >= 0 && rankIdx < len(cells) {
			rank, err := strconv.Atoi(strings.TrimSpace(cells[rankIdx]))
			if err != nil {
				res.warn(rowNum, &RowParseError{Row: rowNum, Reason: fmt.Sprintf("unreadable rank %q", cells[rankIdx])})
				return
			}
			rec.Rank = rank
		} else {
			rec.Rank = len(res.Records) + 1
		}

		for i, h := range headers {
			if h == ColRank || h == ColClub || i >= len(cells) {
				continue
			}
			switch {
			case strings.HasPrefix(h, ColValue):
				v, err := ParseCurrency(cells[i])
				if err != nil {
					res.warn(rowNum, err)
					return
				}
				if h == ColValue {
					rec.Value = v
				} else {
					rec.Extra[h] = v
				}
			case strings.Contains(h, "%"):
				v, err := ParsePercentage(cells[i])
				if err != nil {
					// Percentages are auxiliary: null the field, keep the row.
					res.warn(rowNum, err)
					rec.Extra[h] = nil
				} else {
					rec.Extra[h] = v
				}
			default:
				rec.Extra[h] = cells[i]
			}
		}

		res.Records = append(res.Records, rec)
	})

	return res, nil
}

func (r *Result) warn(row int, err error) {
	r.Warnings = append(r.Warnings, Warning{Row: row, Err: err})
}

// normalizeHeaders maps the raw header cells onto canonical column
// names: the unlabeled "#" column becomes Rank, club columns collapse
// to Club, dated value columns to Value (then Value_2, Value_3 for
// repeats), and hidden or duplicate columns are dropped.
func normalizeHeaders(headerRow *goquery.Selection) []string {
	var raw []string
	headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		if th.HasClass("hide") {
			return
		}
		text := collapseSpace(th.Text())
		switch {
		case text == "":
			text = ColRank
		case strings.Contains(text, ColClub):
			text = ColClub
		case valueHeaderRe.MatchString(text), strings.Contains(strings.ToLower(text), "value"):
			text = ColValue
		}
		raw = append(raw, text)
	})

	var headers []string
	valueCount := 0
	for _, h := range raw {
		if h == ColValue {
			valueCount++
			if valueCount > 1 {
				headers = append(headers, fmt.Sprintf("%s_%d", ColValue, valueCount))
			} else {
				headers = append(headers, ColValue)
			}
			continue
		}
		if indexOf(headers, h) < 0 {
			headers = append(headers, h)
		}
	}
	return headers
}

// rowCells returns the trimmed text of each visible cell in a body row.
func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		if td.HasClass("no-border-rechts") && td.HasClass("zentriert") {
			return
		}
		cells = append(cells, collapseSpace(td.Text()))
	})
	return cells
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}

// collapseSpace trims and squeezes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
