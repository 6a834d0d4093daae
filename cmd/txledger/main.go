package main

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/txledger/internal/adapter/csvcodec"
	"github.com/iho/txledger/internal/generator"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/idgen"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "txledger <transactions.csv>",
		Short: "Replay a transaction CSV and print per-client balances",
		Long: `txledger applies deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file in order and writes the resulting account summary to stdout.

Rows that cannot be decoded are skipped. If reading the file itself fails part
way through, no summary is written and txledger exits with status 1, since a
summary of a truncated stream would look complete.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: json or console (overrides LOG_FORMAT)")

	rootCmd.AddCommand(newGenerateCmd(opts))

	return rootCmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load configuration: %w", err)
	}

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	return cfg, log, nil
}

func runProcess(cmd *cobra.Command, opts *options, path string) error {
	cfg, log, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reg := prometheus.NewRegistry()
	processor := usecase.NewProcessorUseCase(usecase.ProcessorConfig{
		IDGen:       idgen.NewULIDGenerator(),
		Metrics:     metrics.New(reg),
		Logger:      log,
		DenseWindow: cfg.HistoryDenseWindow,
	})

	_, runErr := processor.Run(csvcodec.NewDecoder(f), csvcodec.NewWriter(cmd.OutOrStdout()))

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, reg); err != nil {
			log.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
		}
	}

	return runErr
}

func newGenerateCmd(opts *options) *cobra.Command {
	genCfg := generator.DefaultConfig()
	var inputPath, expectedPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random transaction CSV and the summary it must produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runGenerate(cmd, log, genCfg, inputPath, expectedPath)
		},
	}

	cmd.Flags().IntVar(&genCfg.Clients, "clients", genCfg.Clients, "Number of distinct clients")
	cmd.Flags().IntVar(&genCfg.Transactions, "transactions", genCfg.Transactions, "Number of rows to generate")
	cmd.Flags().Int64Var(&genCfg.MaxCents, "max-cents", genCfg.MaxCents, "Exclusive upper bound of an amount, in cents")
	cmd.Flags().IntVar(&genCfg.NoiseRate, "noise", genCfg.NoiseRate, "Percentage of unrecognized or malformed rows")
	cmd.Flags().Uint64Var(&genCfg.Seed, "seed", uint64(time.Now().UnixNano()), "Random seed")
	cmd.Flags().StringVar(&inputPath, "input", "", "Where to write the transaction CSV (default stdout)")
	cmd.Flags().StringVar(&expectedPath, "expected", "", "Where to write the expected summary CSV")

	return cmd
}

func runGenerate(cmd *cobra.Command, log zerolog.Logger, cfg generator.Config, inputPath, expectedPath string) error {
	out := cmd.OutOrStdout()
	if inputPath != "" {
		f, err := os.Create(inputPath)
		if err != nil {
			return fmt.Errorf("create input: %w", err)
		}
		defer f.Close()
		out = f
	}

	summary, err := generator.Generate(out, cfg)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	log.Info().
		Uint64("seed", cfg.Seed).
		Int("transactions", cfg.Transactions).
		Int("accounts", len(summary)).
		Msg("generated transactions")

	if expectedPath == "" {
		return nil
	}

	f, err := os.Create(expectedPath)
	if err != nil {
		return fmt.Errorf("create expected: %w", err)
	}
	defer f.Close()

	if err := csvcodec.NewWriter(f).WriteSummary(summary); err != nil {
		return fmt.Errorf("write expected: %w", err)
	}

	return nil
}
