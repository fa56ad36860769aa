package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report sections selectable with --show
const (
	SectionAll        = "all"
	SectionCategories = "categories"
	SectionRevenue    = "revenue"
	SectionExtrema    = "extrema"
	SectionForecast   = "forecast"
)

// OutputOptions controls how the report is displayed
type OutputOptions struct {
	Show          string
	CadenceFilter string
	TagFilter     []string
	SortField     string
	SortDir       string
	Currency      Currency
}

func (o OutputOptions) shows(section string) bool {
	return o.Show == "" || o.Show == SectionAll || o.Show == section
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Subscribers []JSONSubscriber `json:"subscribers,omitempty"`
	Revenue     []JSONRevenue    `json:"revenue,omitempty"`
	Extrema     *JSONExtrema     `json:"extrema,omitempty"`
	Forecast    *JSONForecast    `json:"forecast,omitempty"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONSummary contains aggregate statistics
type JSONSummary struct {
	Records      int            `json:"records"`
	Subscribers  int            `json:"subscribers"`
	Shown        int            `json:"shown"`
	ByCadence    map[string]int `json:"by_cadence"`
	TotalRevenue int64          `json:"total_revenue"`
	Currency     string         `json:"currency"`
}

// JSONSubscriber is the JSON output format for a classified subscriber
type JSONSubscriber struct {
	ID          int64    `json:"id"`
	Cadence     string   `json:"cadence"`
	Count       int      `json:"count"`
	Unit        string   `json:"unit"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// JSONRevenue is one year of revenue
type JSONRevenue struct {
	Year   int    `json:"year"`
	Total  int64  `json:"total"`
	Change *int64 `json:"change,omitempty"`
}

// JSONYearDelta is a revenue change into a year
type JSONYearDelta struct {
	Year  int   `json:"year"`
	Delta int64 `json:"delta"`
}

// JSONExtrema holds the largest growth and loss; null when not available
type JSONExtrema struct {
	MaxGrowth *JSONYearDelta `json:"max_growth"`
	MaxLoss   *JSONYearDelta `json:"max_loss"`
}

// JSONForecast is the projected revenue, or the reason it is missing
type JSONForecast struct {
	Year   int    `json:"year,omitempty"`
	Amount *int64 `json:"amount,omitempty"`
	Basis  []int  `json:"basis,omitempty"`
	Error  string `json:"error,omitempty"`
}

func toJSONYearDelta(d *YearDelta) *JSONYearDelta {
	if d == nil {
		return nil
	}
	return &JSONYearDelta{Year: d.Year, Delta: d.Delta}
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, report *Report, displayCats []Category, opts OutputOptions, cfg *Config) error {
	output := JSONOutput{
		Summary: JSONSummary{
			Records:      report.Records,
			Subscribers:  len(report.Categories),
			Shown:        len(displayCats),
			ByCadence:    make(map[string]int),
			TotalRevenue: report.TotalRevenue(),
			Currency:     opts.Currency.Code,
		},
	}
	for cadence, n := range CadenceCounts(report.Categories) {
		output.Summary.ByCadence[cadence.String()] = n
	}

	if opts.shows(SectionCategories) {
		for _, cat := range displayCats {
			output.Subscribers = append(output.Subscribers, JSONSubscriber{
				ID:          cat.ID,
				Cadence:     cat.Cadence.String(),
				Count:       cat.Count,
				Unit:        cat.Cadence.Unit(),
				Description: cfg.GetDescription(cat.ID),
				Tags:        cfg.GetTags(cat.ID),
			})
		}
	}

	if opts.shows(SectionRevenue) {
		for _, row := range report.Revenue {
			entry := JSONRevenue{Year: row.Year, Total: row.Total}
			if row.HasPrev {
				change := row.Change
				entry.Change = &change
			}
			output.Revenue = append(output.Revenue, entry)
		}
	}

	if opts.shows(SectionExtrema) {
		output.Extrema = &JSONExtrema{
			MaxGrowth: toJSONYearDelta(report.Extrema.MaxGrowth),
			MaxLoss:   toJSONYearDelta(report.Extrema.MaxLoss),
		}
	}

	if opts.shows(SectionForecast) {
		if report.Forecast != nil {
			amount := report.Forecast.Amount
			output.Forecast = &JSONForecast{
				Year:   report.Forecast.Year,
				Amount: &amount,
				Basis:  report.Forecast.Basis,
			}
		} else if report.ForecastErr != nil {
			output.Forecast = &JSONForecast{Error: report.ForecastErr.Error()}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintReportLines outputs the report as plain lines:
//
//	3159,monthly,85 months
//	1986,36431250
//	Highest growth: 1967, 18774980. Highest loss: 1991, -33216490.
//	2015,24680
func PrintReportLines(w io.Writer, report *Report, displayCats []Category, opts OutputOptions) {
	if opts.shows(SectionCategories) {
		for _, cat := range displayCats {
			fmt.Fprintf(w, "%d,%s,%s\n", cat.ID, cat.Cadence, cat.Duration())
		}
	}
	if opts.shows(SectionRevenue) {
		for _, row := range report.Revenue {
			fmt.Fprintf(w, "%d,%d\n", row.Year, row.Total)
		}
	}
	if opts.shows(SectionExtrema) {
		fmt.Fprintln(w, FormatExtrema(report.Extrema))
	}
	if opts.shows(SectionForecast) && report.Forecast != nil {
		fmt.Fprintf(w, "%d,%d\n", report.Forecast.Year, report.Forecast.Amount)
	}
}

// FormatExtrema renders a one-line summary of the largest growth and loss
func FormatExtrema(ext Extrema) string {
	return fmt.Sprintf("Highest growth: %s. Highest loss: %s.",
		formatYearDelta(ext.MaxGrowth), formatYearDelta(ext.MaxLoss))
}

func formatYearDelta(d *YearDelta) string {
	if d == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d, %d", d.Year, d.Delta)
}

// PrintReportTable outputs the report as formatted tables
func PrintReportTable(w io.Writer, report *Report, displayCats []Category, opts OutputOptions, cfg *Config) {
	counts := CadenceCounts(report.Categories)
	fmt.Fprintf(w, "Processed %d transactions from %d subscribers (%d daily, %d monthly, %d yearly, %d one-off)\n",
		report.Records, len(report.Categories),
		counts[CadenceDaily], counts[CadenceMonthly], counts[CadenceYearly], counts[CadenceOneOff])

	if opts.shows(SectionCategories) {
		showingStr := opts.CadenceFilter
		if showingStr == "" {
			showingStr = "all"
		}
		if len(opts.TagFilter) > 0 {
			showingStr += fmt.Sprintf(", tags: %s", strings.Join(opts.TagFilter, ", "))
		}
		fmt.Fprintf(w, "Showing: %s\n\n", showingStr)
		printCategoriesTable(w, displayCats, cfg)
	}

	if opts.shows(SectionRevenue) {
		fmt.Fprintln(w)
		printRevenueTable(w, report, opts.Currency)
	}

	if opts.shows(SectionExtrema) {
		fmt.Fprintln(w)
		printExtremaTable(w, report.Extrema, opts.Currency)
	}

	if opts.shows(SectionForecast) {
		fmt.Fprintln(w)
		if report.Forecast != nil {
			fmt.Fprintf(w, "Projected revenue for %d: %s (based on %s)\n",
				report.Forecast.Year,
				text.Bold.Sprint(opts.Currency.Format(report.Forecast.Amount)),
				joinYears(report.Forecast.Basis))
		} else {
			fmt.Fprintf(w, "Projected revenue: %s\n", text.FgHiBlack.Sprint("not available"))
		}
	}
}

func printCategoriesTable(w io.Writer, cats []Category, cfg *Config) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	// Check which optional columns to show
	hasDescriptions := false
	hasTags := false
	for _, cat := range cats {
		if cfg.GetDescription(cat.ID) != "" {
			hasDescriptions = true
		}
		if len(cfg.GetTags(cat.ID)) > 0 {
			hasTags = true
		}
		if hasDescriptions && hasTags {
			break
		}
	}

	header := table.Row{"Subscriber"}
	if hasDescriptions {
		header = append(header, "Description")
	}
	if hasTags {
		header = append(header, "Tags")
	}
	header = append(header, "Type", "Duration")
	t.AppendHeader(header)

	for _, cat := range cats {
		row := table.Row{cat.ID}
		if hasDescriptions {
			row = append(row, cfg.GetDescription(cat.ID))
		}
		if hasTags {
			row = append(row, strings.Join(cfg.GetTags(cat.ID), ", "))
		}
		row = append(row, colorCadence(cat.Cadence), cat.Duration())
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	colCount := len(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: colCount, Align: text.AlignRight},
	})
	t.Render()
}

func colorCadence(c Cadence) string {
	switch c {
	case CadenceDaily:
		return text.FgCyan.Sprint(c.String())
	case CadenceMonthly:
		return text.FgGreen.Sprint(c.String())
	case CadenceYearly:
		return text.FgYellow.Sprint(c.String())
	default:
		return text.FgHiBlack.Sprint(c.String())
	}
}

func printRevenueTable(w io.Writer, report *Report, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Year", "Revenue", "Change"})

	for _, row := range report.Revenue {
		change := text.FgHiBlack.Sprint("-")
		if row.HasPrev {
			change = cur.FormatDelta(row.Change)
			if row.Change < 0 {
				change = text.FgRed.Sprint(change)
			} else {
				change = text.FgGreen.Sprint(change)
			}
		}
		t.AppendRow(table.Row{row.Year, cur.Format(row.Total), change})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(cur.Format(report.TotalRevenue())), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func printExtremaTable(w io.Writer, ext Extrema, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Year", "Change"})

	appendDelta := func(label string, d *YearDelta) {
		if d == nil {
			t.AppendRow(table.Row{label, text.FgHiBlack.Sprint("N/A"), text.FgHiBlack.Sprint("N/A")})
			return
		}
		t.AppendRow(table.Row{label, d.Year, cur.FormatDelta(d.Delta)})
	}
	appendDelta("Highest growth", ext.MaxGrowth)
	appendDelta("Highest loss", ext.MaxLoss)

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprint(y)
	}
	return strings.Join(parts, ", ")
}

// SortCategories sorts subscribers by id, cadence or count
func SortCategories(cats []Category, field, dir string) {
	sort.SliceStable(cats, func(i, j int) bool {
		var less bool
		switch field {
		case "cadence":
			if cats[i].Cadence != cats[j].Cadence {
				less = cats[i].Cadence.Rank() > cats[j].Cadence.Rank()
			} else {
				less = cats[i].ID < cats[j].ID
			}
		case "count":
			if cats[i].Count != cats[j].Count {
				less = cats[i].Count < cats[j].Count
			} else {
				less = cats[i].ID < cats[j].ID
			}
		default: // "id"
			less = cats[i].ID < cats[j].ID
		}
		if dir == "desc" {
			return !less
		}
		return less
	})
}

// FilterByCadence filters subscribers by cadence label (or "all")
func FilterByCadence(cats []Category, show string) ([]Category, error) {
	if show == "" || show == "all" {
		return cats, nil
	}
	want, err := ParseCadence(show)
	if err != nil {
		return nil, err
	}
	var result []Category
	for _, cat := range cats {
		if cat.Cadence == want {
			result = append(result, cat)
		}
	}
	return result, nil
}

// FilterByTags filters subscribers to only those with matching tags
func FilterByTags(cats []Category, tags []string, cfg *Config) []Category {
	if cfg == nil || len(tags) == 0 {
		return cats
	}
	var result []Category
	for _, cat := range cats {
		if hasAnyTag(cfg.GetTags(cat.ID), tags) {
			result = append(result, cat)
		}
	}
	return result
}

func hasAnyTag(subTags []string, filterTags []string) bool {
	for _, ft := range filterTags {
		for _, st := range subTags {
			if strings.EqualFold(st, ft) {
				return true
			}
		}
	}
	return false
}
