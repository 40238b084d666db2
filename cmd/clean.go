package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexeyco/simpletable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/databroomhq/databroom-cli/internal/cleaning"
	"github.com/databroomhq/databroom-cli/internal/narrative"
	"github.com/databroomhq/databroom-cli/internal/quality"
	"github.com/databroomhq/databroom-cli/internal/report"
	"github.com/databroomhq/databroom-cli/internal/table"
	"github.com/databroomhq/databroom-cli/internal/utils"
)

var (
	cleanOutputPath string
	cleanReportPath string
	cleanModel      string
	cleanProvider   string
	cleanOllamaHost string
	cleanMaxTokens  int
	cleanTemp       float64
	cleanTimeoutSec int
	cleanNoAI       bool
	cleanStream     bool
	cleanQuiet      bool
	cleanDelimiter  string
	cleanDecimal    string
	cleanThousands  string
	cleanSheetName  string
	cleanSheetIndex int
	cleanSampleRows int
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a CSV/XLSX dataset and write a cleaned CSV plus a PDF summary",
	Example: `  databroom clean data.csv
  databroom clean data.xlsx --sheet-name Sales --output sales.clean.csv
  databroom clean data.csv --no-ai --quiet
  databroom clean data.csv --model openai/gpt-4o-mini --stream`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		loadOpt, err := parseLoadOptions(cleanDelimiter, cleanSheetName, cleanSheetIndex)
		if err != nil {
			return err
		}
		format, err := parseNumberFormat(cleanDecimal, cleanThousands)
		if err != nil {
			return err
		}

		raw, err := table.Load(path, loadOpt)
		if err != nil {
			return err
		}
		beforeScore := quality.Score(raw)
		rowsBefore, colsBefore := raw.RowCount(), raw.ColumnCount()
		logger.Debug("dataset loaded",
			zap.String("path", path),
			zap.Int("rows", rowsBefore),
			zap.Int("cols", colsBefore),
			zap.Float64("score", beforeScore))

		prof := quality.NewProfile(raw, quality.ProfileOptions{SampleRows: cleanSampleRows, NumberFormat: format})

		var reporter *narrative.Reporter
		providerName := ""
		model := cleanModel
		if !cleanNoAI {
			rt, pname, err := buildRuntime(cfg, cleanProvider, cleanOllamaHost)
			if err != nil {
				return err
			}
			providerName = pname
			if model == "" && cfg != nil {
				model = cfg.DefaultModel
			}
			ncfg := narrative.Config{Model: model, MaxTokens: cleanMaxTokens, Temperature: cleanTemp}
			if cfg != nil {
				if ncfg.MaxTokens <= 0 {
					ncfg.MaxTokens = cfg.MaxTokens
				}
				if ncfg.Temperature == 0 {
					ncfg.Temperature = cfg.Temperature
				}
				ncfg.PromptBudget = cfg.PromptBudget
			}
			if cleanStream && !cleanQuiet {
				ncfg.OnDelta = func(s string) { fmt.Print(s) }
			}
			reporter = narrative.New(rt, ncfg)
		}

		timeoutSec := cleanTimeoutSec
		if timeoutSec <= 0 {
			timeoutSec = 180
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
		defer cancel()

		analysis := ""
		if reporter != nil {
			if !cleanQuiet {
				fmt.Printf("⚙ Analyzing dataset with model=%s ...\n", model)
			}
			text, err := reporter.Analyze(ctx, prof.Markdown())
			if err != nil {
				warnNarrative(err, providerName, model)
			} else {
				analysis = text
				if cleanStream && !cleanQuiet {
					fmt.Println()
				}
			}
		}

		pipe := cleaning.New(format)
		cleaned, stats := pipe.Run(raw)
		afterScore := quality.Score(cleaned)
		logger.Debug("pipeline finished",
			zap.Int("duplicates_removed", stats.DuplicateRowsRemoved),
			zap.Int("cells_imputed", stats.CellsImputed),
			zap.Int("outliers_clipped", stats.OutliersClipped),
			zap.Strings("dropped_columns", stats.DroppedColumns),
			zap.Float64("score", afterScore))

		summary := ""
		if reporter != nil {
			facts := narrative.CleaningFacts{
				RowsBefore:           rowsBefore,
				RowsAfter:            cleaned.RowCount(),
				ColsBefore:           colsBefore,
				ColsAfter:            cleaned.ColumnCount(),
				BeforeScore:          beforeScore,
				AfterScore:           afterScore,
				DuplicateRowsRemoved: stats.DuplicateRowsRemoved,
				BlankCellsCleared:    stats.BlankCellsCleared,
				CellsImputed:         stats.CellsImputed,
				OutliersClipped:      stats.OutliersClipped,
				DroppedColumns:       stats.DroppedColumns,
			}
			if !cleanQuiet {
				fmt.Println("⚙ Summarizing cleaning results ...")
			}
			text, err := reporter.Summarize(ctx, facts)
			if err != nil {
				warnNarrative(err, providerName, model)
			} else {
				summary = text
				if cleanStream && !cleanQuiet {
					fmt.Println()
				}
			}
		}

		outPath := cleanOutputPath
		if outPath == "" {
			outPath = derivedPath(path, ".cleaned.csv")
		}
		if err := table.WriteCSV(cleaned, outPath); err != nil {
			return err
		}
		if !cleanQuiet {
			fmt.Printf("✓ Wrote cleaned data to %s\n", outPath)
		}

		rep := report.New(path, rowsBefore, colsBefore, cleaned.RowCount(), cleaned.ColumnCount(), beforeScore, afterScore, stats)
		rep.Analysis = analysis
		rep.Summary = summary
		pdfBytes, err := report.RenderPDF(rep)
		if err != nil {
			return err
		}
		repPath := cleanReportPath
		if repPath == "" {
			repPath = derivedPath(path, ".report.pdf")
		}
		if err := utils.SafeWriteFile(repPath, pdfBytes); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !cleanQuiet {
			fmt.Printf("✓ Wrote summary report to %s\n", repPath)
			printRunSummary(rep)
		}
		return nil
	},
}

func warnNarrative(err error, providerName, model string) {
	if !errors.Is(err, narrative.ErrNarrativeUnavailable) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	if hint := narrativeHint(err, providerName, model); hint != "" {
		fmt.Fprintf(os.Stderr, "⚠ Warning: narrative skipped: %s\n", hint)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠ Warning: %v (continuing without narrative)\n", err)
}

func printRunSummary(r *report.Report) {
	tbl := simpletable.New()
	tbl.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: "Metric"},
			{Align: simpletable.AlignRight, Text: "Before"},
			{Align: simpletable.AlignRight, Text: "After"},
		},
	}
	rows := [][]string{
		{"Rows", fmt.Sprintf("%d", r.RowsBefore), fmt.Sprintf("%d", r.RowsAfter)},
		{"Columns", fmt.Sprintf("%d", r.ColsBefore), fmt.Sprintf("%d", r.ColsAfter)},
		{"Quality score", fmt.Sprintf("%.2f", r.BeforeScore), fmt.Sprintf("%.2f", r.AfterScore)},
	}
	for _, row := range rows {
		tbl.Body.Cells = append(tbl.Body.Cells, []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: row[0]},
			{Align: simpletable.AlignRight, Text: row[1]},
			{Align: simpletable.AlignRight, Text: row[2]},
		})
	}
	tbl.Footer = &simpletable.Footer{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: "Improvement"},
			{Align: simpletable.AlignRight, Span: 2, Text: fmt.Sprintf("%+.2f", r.Improvement)},
		},
	}
	tbl.SetStyle(simpletable.StyleCompactLite)
	fmt.Println(tbl.String())
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output", "o", "", "path for the cleaned CSV (default <input>.cleaned.csv)")
	cleanCmd.Flags().StringVar(&cleanReportPath, "report", "", "path for the PDF summary (default <input>.report.pdf)")
	cleanCmd.Flags().StringVar(&cleanModel, "model", "", "override narrative model (default from config)")
	cleanCmd.Flags().StringVar(&cleanProvider, "provider", "", "narrative provider: openrouter|ollama (default from config)")
	cleanCmd.Flags().StringVar(&cleanOllamaHost, "ollama-host", "", "override Ollama host (e.g., http://127.0.0.1:11434)")
	cleanCmd.Flags().IntVar(&cleanMaxTokens, "max-tokens", 0, "max tokens per narrative response")
	cleanCmd.Flags().Float64Var(&cleanTemp, "temp", 0, "sampling temperature for narratives")
	cleanCmd.Flags().IntVar(&cleanTimeoutSec, "timeout-sec", 180, "narrative request timeout in seconds")
	cleanCmd.Flags().BoolVar(&cleanNoAI, "no-ai", false, "skip narrative generation entirely")
	cleanCmd.Flags().BoolVar(&cleanStream, "stream", false, "stream narrative output if supported by the provider")
	cleanCmd.Flags().BoolVar(&cleanQuiet, "quiet", false, "suppress non-essential output")
	cleanCmd.Flags().StringVar(&cleanDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cleanCmd.Flags().StringVar(&cleanDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cleanCmd.Flags().StringVar(&cleanThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cleanCmd.Flags().StringVar(&cleanSheetName, "sheet-name", "", "XLSX: sheet name to clean")
	cleanCmd.Flags().IntVar(&cleanSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cleanCmd.Flags().IntVar(&cleanSampleRows, "sample-rows", 5, "number of sample rows to include in the analysis prompt")
}
