package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/meenmo/derlib/engine"
	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "priceengine",
		Short: "Batch pricing engine for equity futures, bonds and vanilla options",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		configPath    string
		marketPath    string
		portfolioPath string
		outPath       string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Price a portfolio JSON against a market snapshot JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := engine.DefaultConfiguration()
			if configPath != "" {
				var err error
				cfg, err = engine.LoadConfiguration(configPath)
				if err != nil {
					return err
				}
			}

			mf, err := loadMarketFile(marketPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(portfolioPath)
			if err != nil {
				return fmt.Errorf("read portfolio: %w", err)
			}
			portfolio, err := instruments.UnmarshalPortfolio(raw)
			if err != nil {
				return err
			}
			pd, err := mf.toParameterData()
			if err != nil {
				return err
			}

			eng, err := engine.NewBuilder(
				0,
				cfg,
				marketdata.NewEvaluationDate(mf.EvaluationDate),
				mf.toMatchParameter(),
			).
				WithInstruments(portfolio).
				WithParameterData(pd)
			if err != nil {
				return err
			}
			if err := eng.InitializePricers(); err != nil {
				return err
			}
			if err := eng.Calculate(); err != nil {
				return err
			}

			out, err := json.MarshalIndent(eng.CalculationResults(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
			log.Info().Str("path", outPath).Int("instruments", len(portfolio)).Msg("results written")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "calculation configuration YAML (defaults apply when omitted)")
	cmd.Flags().StringVar(&marketPath, "market", "", "market snapshot JSON")
	cmd.Flags().StringVar(&portfolioPath, "portfolio", "", "portfolio JSON (tagged-union instruments)")
	cmd.Flags().StringVar(&outPath, "out", "", "results JSON path (stdout when omitted)")
	_ = cmd.MarkFlagRequired("market")
	_ = cmd.MarkFlagRequired("portfolio")
	return cmd
}
