package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/databroomhq/databroom-cli/internal/quality"
	"github.com/databroomhq/databroom-cli/internal/table"
)

var (
	scoreDelimiter  string
	scoreSheetName  string
	scoreSheetIndex int
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Print the data-quality score of a dataset without cleaning it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadOpt, err := parseLoadOptions(scoreDelimiter, scoreSheetName, scoreSheetIndex)
		if err != nil {
			return err
		}
		t, err := table.Load(args[0], loadOpt)
		if err != nil {
			return err
		}
		fmt.Printf("%.2f\n", quality.Score(t))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	scoreCmd.Flags().StringVar(&scoreSheetName, "sheet-name", "", "XLSX: sheet name to score")
	scoreCmd.Flags().IntVar(&scoreSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
