// chemviz-report renders a summary report for a single tabular file without
// a running server or database. It decodes the input, infers column types,
// computes the summary, and writes the PDF to the output path.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/render"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/report"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/summary"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/table"
)

var (
	flagInput  string
	flagOutput string
)

var rootCmd = &cobra.Command{
	Use:   "chemviz-report",
	Short: "Generate a dataset summary report from a CSV or XLSX file",
	Long: `chemviz-report runs the full analysis pipeline offline: it decodes the
input file, infers numeric columns, computes averages and the category
distribution, and writes a PDF report with embedded charts.`,
	RunE: runReport,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input CSV or XLSX file (required)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output PDF path (default: <input>_report.pdf)")
	_ = rootCmd.MarkFlagRequired("input")

	viper.SetEnvPrefix("CHEMVIZ")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
}

func runReport(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	output := viper.GetString("output")
	if output == "" {
		output = defaultOutputPath(input)
	}

	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".csv" && ext != ".xlsx" {
		return fmt.Errorf("unsupported file type %q: only .csv and .xlsx are accepted", ext)
	}

	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	tbl, err := table.Decode(file, filepath.Base(input))
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(input), err)
	}
	table.NormalizeTypes(tbl)

	ds := &dataset.Dataset{
		ID:         core.DatasetID(core.NewID()),
		Filename:   filepath.Base(input),
		UploadedAt: time.Now().UTC(),
		Summary:    summary.Generate(tbl),
	}

	composer := report.NewComposer(render.NewRenderer(render.DefaultConfig()))
	pdf, err := composer.Compose(ds, ds.Summary)
	if err != nil {
		return fmt.Errorf("compose report: %w", err)
	}

	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("Report written to %s (%d rows, %d numeric columns)\n",
		output, ds.Summary.TotalCount, len(ds.Summary.NumericColumns))
	return nil
}

func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+"_report.pdf")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
