package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/databroomhq/databroom-cli/internal/quality"
	"github.com/databroomhq/databroom-cli/internal/table"
)

var (
	profOutputPath string
	profDelimiter  string
	profDecimal    string
	profThousands  string
	profSheetName  string
	profSheetIndex int
	profSampleRows int
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a dataset and print a concise Markdown summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadOpt, err := parseLoadOptions(profDelimiter, profSheetName, profSheetIndex)
		if err != nil {
			return err
		}
		format, err := parseNumberFormat(profDecimal, profThousands)
		if err != nil {
			return err
		}
		t, err := table.Load(args[0], loadOpt)
		if err != nil {
			return err
		}
		prof := quality.NewProfile(t, quality.ProfileOptions{SampleRows: profSampleRows, NumberFormat: format})
		md := prof.Markdown()
		if profOutputPath != "" {
			if err := os.WriteFile(profOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().StringVar(&profDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	profileCmd.Flags().StringVar(&profDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	profileCmd.Flags().StringVar(&profThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	profileCmd.Flags().StringVar(&profSheetName, "sheet-name", "", "XLSX: sheet name to profile")
	profileCmd.Flags().IntVar(&profSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 5, "number of sample rows to include")
}
