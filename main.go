package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"

	"github.com/gigurra/subscription-report/internal"
	"github.com/gigurra/subscription-report/internal/store"
	"github.com/gigurra/subscription-report/internal/store/sqlite"
)

type Params struct {
	File       string   `descr:"Path to the transaction log, optionally prefixed with its format (e.g. subscription-csv:log.txt)" positional:"true"`
	Source     string   `descr:"Transaction log format (subscription-csv, subscription-xlsx, simple-json); detected from the file extension if empty" optional:"true"`
	Config     string   `descr:"Path to config file (default ~/.subscription-report/config.yaml)" optional:"true"`
	Output     string   `descr:"Output format" alts:"table,json,lines" strict:"true" default:"table"`
	Show       string   `descr:"Report section to show" alts:"all,categories,revenue,extrema,forecast" strict:"true" default:"all"`
	Cadence    string   `descr:"Only list subscribers with this cadence" alts:"all,daily,monthly,yearly,one-off" strict:"true" default:"all"`
	Tags       []string `descr:"Only list subscribers with any of these tags" optional:"true"`
	Sort       string   `descr:"Sort subscribers by field" alts:"id,cadence,count" strict:"true" default:"id"`
	SortDir    string   `descr:"Sort direction" alts:"asc,desc" strict:"true" default:"asc"`
	Currency   string   `descr:"Currency code for revenue amounts (overrides config, default USD)" optional:"true"`
	Export     string   `descr:"Also write the report to this Excel workbook" optional:"true"`
	Db         string   `descr:"Also save a snapshot of the report to this SQLite database" optional:"true"`
	InitConfig bool     `descr:"Write a config template listing every subscriber to the config path and exit" optional:"true"`
	Verbose    bool     `descr:"Log diagnostics to stderr" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("subscription-report").
		WithShort("Classify subscribers and report revenue from a transaction log").
		WithLong("Reads a transaction log once, classifies every subscriber as daily, monthly, yearly or one-off, " +
			"totals revenue per year, finds the years with the highest growth and loss, and projects next year's revenue.").
		WithRunFunc(func(params *Params) {
			if err := run(context.Background(), params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(ctx context.Context, params *Params) error {
	level := slog.LevelWarn
	if params.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := internal.LoadConfigOrDefault(params.Config, params.InitConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	parser, path, err := internal.ResolveParser(params.Source, params.File)
	if err != nil {
		return err
	}

	records, err := parser.Parse(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Debug("loaded transaction log", "path", path, "records", len(records))

	report, err := internal.Analyze(records, logger)
	if err != nil {
		return err
	}

	if params.InitConfig {
		return writeConfigTemplate(params.Config, report, cfg)
	}

	currencyCode := params.Currency
	if currencyCode == "" {
		currencyCode = cfg.CurrencyCode()
	}

	display, err := internal.FilterByCadence(report.Categories, params.Cadence)
	if err != nil {
		return err
	}
	display = internal.FilterByTags(display, params.Tags, cfg)
	display = append([]internal.Category(nil), display...)
	internal.SortCategories(display, params.Sort, params.SortDir)

	opts := internal.OutputOptions{
		Show:          params.Show,
		CadenceFilter: params.Cadence,
		TagFilter:     params.Tags,
		SortField:     params.Sort,
		SortDir:       params.SortDir,
		Currency:      internal.GetCurrency(currencyCode),
	}

	switch params.Output {
	case "json":
		if err := internal.PrintReportJSON(os.Stdout, report, display, opts, cfg); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
	case "lines":
		internal.PrintReportLines(os.Stdout, report, display, opts)
	default:
		internal.PrintReportTable(os.Stdout, report, display, opts, cfg)
	}

	if params.Export != "" {
		if err := internal.ExportXLSX(params.Export, report, cfg); err != nil {
			return fmt.Errorf("exporting to %s: %w", params.Export, err)
		}
		logger.Info("exported report", "path", params.Export)
	}

	var st store.Store = &store.NopStore{}
	if params.Db != "" {
		st, err = sqlite.New(params.Db)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
	}
	defer st.Close()

	runID, err := st.SaveReport(ctx, path, report)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if runID != "" {
		logger.Info("saved report snapshot", "db", params.Db, "run_id", runID)
	}

	return nil
}

func writeConfigTemplate(path string, report *internal.Report, cfg *internal.Config) error {
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: pass --config")
	}

	template := internal.GenerateConfigTemplate(report.Categories, cfg)
	if err := template.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote config template with %d subscribers to %s\n", len(report.Categories), path)
	return nil
}
