// finlens normalizes financial report payloads and derives ratios.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/finlens/api"
	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/doctype"
	"github.com/seenimoa/finlens/internal/logging"
	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/internal/payload"
	"github.com/seenimoa/finlens/internal/period"
	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/internal/report"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global state set up by the root command.
var (
	cfg     *config.Config
	logger  zerolog.Logger
	catalog *doctype.Catalog
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finlens",
	Short: "finlens — financial report normalization and ratio analysis",
	Long: `finlens turns loosely shaped financial report payloads (balance sheets,
profit and loss statements, cash flow statements, ratio notes and bank
statements) into canonical records and derives a standard ratio set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger = logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
		logging.SetGlobal(logger)

		typesFile, _ := cmd.Flags().GetString("doctypes")
		if catalog, err = doctype.Load(typesFile); err != nil {
			return fmt.Errorf("failed to load document types: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("doctypes", "", "YAML file with extra or replacement document types")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(ratiosCmd)
	rootCmd.AddCommand(doctypesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finlens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Normalize Command ---

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize the reports of an analysis result",
	Long: `Normalize every report of an analysis result file, or a single report
with --report. Use "-" to read from stdin.

Examples:
  finlens normalize result.json
  finlens normalize result.json --report balance_sheet --format html -o bs.html
  cat result.json | finlens normalize - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("report")
		rcfg, err := reportConfig(cmd)
		if err != nil {
			return err
		}

		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := payload.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}
		warnUnexpectedReports(res)

		norm := normalize.New(api.NormalizerOptions(cfg), logger)
		out, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		if name != "" {
			raw, ok := res.Reports[name]
			if !ok {
				return fmt.Errorf("report %q not found (available: %s)", name, strings.Join(res.Names(), ", "))
			}
			rec := norm.NormalizeReport(name, raw, normalize.ContextOf(res))
			return report.Render(out, rec, rcfg)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		start := time.Now()
		batch, err := norm.Batch(ctx, res)
		if err != nil {
			return fmt.Errorf("normalizing: %w", err)
		}
		logger.Debug().Str("run_id", batch.RunID).Str("took", report.FormatDuration(time.Since(start))).Msg("normalized")
		return report.RenderBatch(out, batch, rcfg)
	},
}

func init() {
	normalizeCmd.Flags().StringP("report", "r", "", "normalize only this report")
	normalizeCmd.Flags().StringP("format", "f", "text", "output format: text, html, json, msgpack")
	normalizeCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	normalizeCmd.Flags().Bool("compact", false, "show currency ratios in lakh/crore notation")
}

// --- Ratios Command ---

var ratiosCmd = &cobra.Command{
	Use:   "ratios [file]",
	Short: "Derive the ratio set from a payload",
	Long: `Derive every catalogued ratio from a ratio payload, statement figures or an
analysis result holding profit_loss / balance_sheet reports. Use "-" to read
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rcfg, err := reportConfig(cmd)
		if err != nil {
			return err
		}
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		raw, err := payload.DecodeRaw(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		set := ratios.FromPayload(raw)
		res := payload.FromMap(raw)
		company := res.CompanyName
		if company == "" {
			company = cfg.Normalize.DefaultCompany
		}
		rec := models.ReportRecord{
			Name:           "financial_ratios",
			Kind:           models.KindGeneric,
			CompanyName:    company,
			Period:         period.NewParser(cfg.Normalize.FiscalYearEnd).Resolve(res.Period, cfg.Normalize.DefaultPeriod),
			Ratios:         &set,
			MissingDisplay: models.MissingRatio,
		}

		out, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()
		return report.Render(out, rec, rcfg)
	},
}

func init() {
	ratiosCmd.Flags().StringP("format", "f", "text", "output format: text, html, json, msgpack")
	ratiosCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	ratiosCmd.Flags().Bool("compact", false, "show currency ratios in lakh/crore notation")
}

// --- Doctypes Command ---

var doctypesCmd = &cobra.Command{
	Use:   "doctypes [type]",
	Short: "List document types or show the reports expected for one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range catalog.Names() {
				t := catalog.Lookup(name)
				fmt.Printf("  %-20s %s\n", name, t.Label)
			}
			return nil
		}

		t, ok := catalog.Get(args[0])
		if !ok {
			fmt.Printf("⚠️  unknown document type %q, showing %s\n\n", args[0], doctype.Fallback)
			t = catalog.Lookup(args[0])
		}
		fmt.Printf("%s (%s)\n", t.Label, t.Name)
		fmt.Printf("  Reports:      %s\n", strings.Join(t.Reports, ", "))
		fmt.Printf("  Transactions: %v   Charts: %v   Ratios: %v\n", t.ShowTransactions, t.ShowCharts, t.ShowRatios)
		if len(t.Insights) > 0 {
			fmt.Println("  Insights:")
			for _, in := range t.Insights {
				fmt.Printf("    %-28s %s\n", in.Key, in.Label)
			}
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}
		api.Version = version
		srv := api.NewServer(cfg, catalog, logger)
		fmt.Printf("🌐 Starting finlens API server on %s\n", cfg.API.Addr())
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "listen port (overrides config)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and where each setting came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Describe(cfg)
		if err != nil {
			return err
		}
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  finlens — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:        %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST):     %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Printf("  Document types: %d\n", len(catalog.Names()))
		fmt.Println()

		fmt.Println("  Settings:")
		for _, s := range settings {
			value := s.Value
			if value == "" {
				value = "(not set)"
			}
			fmt.Printf("    %-18s %-28s [%s]\n", s.Name+":", value, s.Source)
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

func reportConfig(cmd *cobra.Command) (report.ReportConfig, error) {
	f, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(f)
	if err != nil {
		return report.ReportConfig{}, err
	}
	rcfg := report.DefaultReportConfig()
	rcfg.Format = format
	if cfg.Format.PercentDecimals > 0 {
		rcfg.PercentDecimals = cfg.Format.PercentDecimals
	}
	rcfg.CompactAmounts = cfg.Format.CompactAmounts
	if compact, _ := cmd.Flags().GetBool("compact"); compact {
		rcfg.CompactAmounts = true
	}
	return rcfg, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Warn().Err(err).Str("path", path).Msg("closing output")
		}
	}, nil
}

// warnUnexpectedReports logs reports the document type does not list.
func warnUnexpectedReports(res payload.Result) {
	if res.DocumentType == "" {
		return
	}
	var extra []string
	for _, name := range res.Names() {
		if !catalog.IsReportFor(name, res.DocumentType) {
			extra = append(extra, name)
		}
	}
	if len(extra) == 0 {
		return
	}
	logger.Warn().
		Str("document_type", res.DocumentType).
		Strs("reports", extra).
		Msg("reports not expected for document type")
}
