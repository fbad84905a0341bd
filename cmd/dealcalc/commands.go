package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"valuecraft/server/config"
	"valuecraft/server/internal/analysis"
	"valuecraft/server/internal/finance"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/providers"
	"valuecraft/server/internal/valuation"
)

// analysisFile is the offline form of an analysis run: the request plus the
// provider payloads already gathered.
type analysisFile struct {
	Input   analysis.Input   `json:"input"`
	Sources analysis.Sources `json:"sources"`
}

type options struct {
	input  string
	pretty bool
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	rootCmd := &cobra.Command{
		Use:          "dealcalc",
		Short:        "Value and underwrite a property from JSON input",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "input file (JSON or Hjson), - for stdin")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")

	rootCmd.AddCommand(valueCmd(opts))
	rootCmd.AddCommand(analyzeCmd(opts))
	rootCmd.AddCommand(underwriteCmd(opts))
	rootCmd.AddCommand(scenariosCmd(opts))
	return rootCmd
}

func valueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "value",
		Short: "Blend comps, sale history and market signals into a valuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := runAnalysis(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result.Valuation, opts.pretty)
		},
	}
}

func analyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the full valuation and underwriting pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := runAnalysis(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, opts.pretty)
		},
	}
}

func underwriteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "underwrite",
		Short: "Compute the underwriting model for one set of deal terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, in, err := loadDeal(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.Underwrite(in), opts.pretty)
		},
	}
}

func scenariosCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Run the conservative, base and optimistic scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, in, err := loadDeal(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.Scenarios(in), opts.pretty)
		},
	}
}

func runAnalysis(cmd *cobra.Command, opts *options) (models.AnalysisResult, error) {
	h, err := heuristics()
	if err != nil {
		return models.AnalysisResult{}, err
	}
	var file analysisFile
	if err := readInput(cmd, opts.input, &file); err != nil {
		return models.AnalysisResult{}, err
	}
	return analysis.Evaluate(file.Input, file.Sources, h, opts.now())
}

func loadDeal(cmd *cobra.Command, opts *options) (*finance.Engine, models.UnderwritingInput, error) {
	h, err := heuristics()
	if err != nil {
		return nil, models.UnderwritingInput{}, err
	}
	var in models.UnderwritingInput
	if err := readInput(cmd, opts.input, &in); err != nil {
		return nil, models.UnderwritingInput{}, err
	}
	return finance.NewEngine(h.ClosingCostPct), in, nil
}

func heuristics() (valuation.Heuristics, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return valuation.Heuristics{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.Valuation, nil
}

func readInput(cmd *cobra.Command, path string, v interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := providers.Decode(data, v); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
