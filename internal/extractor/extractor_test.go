package extractor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture HTML: %v", err)
	}
	return doc
}

func sampleDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2023-01-01")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

const fixturePage = `<html><body>
<div class="responsive-table">
<table class="items">
<thead><tr>
  <th></th>
  <th class="hide">Badge</th>
  <th>Club</th>
  <th>Squad</th>
  <th>Value Jan 1, 2023</th>
  <th>Value Jan 1, 2022</th>
  <th>%</th>
</tr></thead>
<tbody>
  <tr class="thead"><td colspan="7">Bundesliga</td></tr>
  <tr>
    <td>1</td>
    <td class="no-border-rechts zentriert"><a href="#"><img/></a></td>
    <td> FC Bayern München </td>
    <td>27</td>
    <td>€927m</td>
    <td>€880.00m</td>
    <td>+5.3 %</td>
  </tr>
  <tr>
    <td>2</td>
    <td class="no-border-rechts zentriert"><a href="#"><img/></a></td>
    <td>Bayer 04 Leverkusen</td>
    <td>26</td>
    <td>€572.5m</td>
    <td>€550.00m</td>
    <td>4.1 %</td>
  </tr>
  <tr>
    <td>3</td>
    <td class="no-border-rechts zentriert"><a href="#"><img/></a></td>
    <td>SV Darmstadt 98</td>
    <td>25</td>
    <td>€400k</td>
    <td>€380k</td>
    <td>n/a</td>
  </tr>
</tbody>
</table>
</div>
</body></html>`

func TestExtract_Fixture(t *testing.T) {
	res, err := Extract(mustDoc(t, fixturePage), sampleDate(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}

	want := []struct {
		rank  int
		club  string
		value int64
	}{
		{1, "FC Bayern München", 927000000},
		{2, "Bayer 04 Leverkusen", 572500000},
		{3, "SV Darmstadt 98", 400000},
	}
	for i, w := range want {
		rec := res.Records[i]
		if rec.Rank != w.rank {
			t.Errorf("record %d rank = %d, want %d", i, rec.Rank, w.rank)
		}
		if rec.Club != w.club {
			t.Errorf("record %d club = %q, want %q", i, rec.Club, w.club)
		}
		if rec.Value != w.value {
			t.Errorf("record %d value = %d, want %d", i, rec.Value, w.value)
		}
	}

	wantExtra := []string{"Squad", "Value_2", "%"}
	if len(res.ExtraHeaders) != len(wantExtra) {
		t.Fatalf("extra headers = %v, want %v", res.ExtraHeaders, wantExtra)
	}
	for i := range wantExtra {
		if res.ExtraHeaders[i] != wantExtra[i] {
			t.Errorf("extra header %d = %q, want %q", i, res.ExtraHeaders[i], wantExtra[i])
		}
	}

	if got := res.Records[0].Extra["%"]; got != 5.3 {
		t.Errorf("record 0 %% = %v, want 5.3", got)
	}
	if got := res.Records[0].Extra["Value_2"]; got != int64(880000000) {
		t.Errorf("record 0 Value_2 = %v, want 880000000", got)
	}
	if got := res.Records[0].Extra["Squad"]; got != "27" {
		t.Errorf("record 0 Squad = %v, want \"27\"", got)
	}
}

func TestExtract_BadPercentageKeepsRow(t *testing.T) {
	res, err := Extract(mustDoc(t, fixturePage), sampleDate(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// Row 3's "n/a" percentage nulls the field but keeps the record.
	rec := res.Records[2]
	if v, present := rec.Extra["%"]; !present || v != nil {
		t.Errorf("record 2 %% = %v (present=%v), want nil field", v, present)
	}

	var ppe *PercentParseError
	found := false
	for _, w := range res.Warnings {
		if errors.As(w.Err, &ppe) {
			found = true
		}
	}
	if !found {
		t.Error("expected a PercentParseError warning")
	}
}

func TestExtract_SkipsBrokenRows(t *testing.T) {
	const page = `<div class="responsive-table"><table class="items">
<thead><tr><th></th><th>Club</th><th>Value Jan 1, 2023</th></tr></thead>
<tbody>
  <tr><td>1</td><td>Good FC</td><td>€10m</td></tr>
  <tr><td>2</td><td></td><td>€20m</td></tr>
  <tr><td>3</td><td>Bad Value FC</td><td>-</td></tr>
  <tr><td>4</td><td>Also Good FC</td><td>€5.5m</td></tr>
</tbody>
</table></div>`

	res, err := Extract(mustDoc(t, page), sampleDate(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].Club != "Good FC" || res.Records[1].Club != "Also Good FC" {
		t.Errorf("unexpected surviving clubs: %+v", res.Records)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(res.Warnings), res.Warnings)
	}

	var rpe *RowParseError
	if !errors.As(res.Warnings[0].Err, &rpe) {
		t.Errorf("warning 0 type = %T, want *RowParseError", res.Warnings[0].Err)
	}
	var cpe *CurrencyParseError
	if !errors.As(res.Warnings[1].Err, &cpe) {
		t.Errorf("warning 1 type = %T, want *CurrencyParseError", res.Warnings[1].Err)
	}
}

func TestExtract_PositionalRankWithoutRankColumn(t *testing.T) {
	const page = `<div class="responsive-table"><table class="items">
<thead><tr><th>Club</th><th>Current value</th></tr></thead>
<tbody>
  <tr><td>First FC</td><td>€3m</td></tr>
  <tr><td></td><td>€9m</td></tr>
  <tr><td>Second FC</td><td>€2m</td></tr>
</tbody>
</table></div>`

	res, err := Extract(mustDoc(t, page), sampleDate(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	// Ranks count successfully parsed rows, not document rows.
	if res.Records[0].Rank != 1 || res.Records[1].Rank != 2 {
		t.Errorf("ranks = %d, %d; want 1, 2", res.Records[0].Rank, res.Records[1].Rank)
	}
}

func TestExtract_TableNotFound(t *testing.T) {
	_, err := Extract(mustDoc(t, "<html><body><p>blocked</p></body></html>"), sampleDate(t))
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Extract() error = %v, want ErrTableNotFound", err)
	}
}

func TestNormalizeHeaders_RankAndValueDedupe(t *testing.T) {
	const page = `<div class="responsive-table"><table class="items">
<thead><tr>
  <th></th>
  <th class="hide">x</th>
  <th>Club name</th>
  <th>Value Oct 1, 2024</th>
  <th>Current value</th>
  <th>Squad</th>
  <th>Squad</th>
</tr></thead>
<tbody><tr><td>1</td><td>A FC</td><td>€1m</td><td>€2m</td><td>20</td><td>20</td></tr></tbody>
</table></div>`

	res, err := Extract(mustDoc(t, page), sampleDate(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"Value_2", "Squad"}
	if len(res.ExtraHeaders) != len(want) {
		t.Fatalf("extra headers = %v, want %v", res.ExtraHeaders, want)
	}
	for i := range want {
		if res.ExtraHeaders[i] != want[i] {
			t.Errorf("extra header %d = %q, want %q", i, res.ExtraHeaders[i], want[i])
		}
	}
}
