package usecase

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

// ProcessorUseCase drives a transaction stream through a fresh Ledger.
// Each call owns its Ledger, so a single ProcessorUseCase may serve
// concurrent callers while every Ledger still sees exactly one writer.
type ProcessorUseCase struct {
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	denseWindow int
}

// ProcessorConfig holds ProcessorUseCase dependencies.
type ProcessorConfig struct {
	IDGen       IDGenerator
	Metrics     *metrics.Metrics // optional
	Logger      zerolog.Logger
	DenseWindow int // see domain.NewTxHistory
}

// NewProcessorUseCase creates a new ProcessorUseCase.
func NewProcessorUseCase(cfg ProcessorConfig) *ProcessorUseCase {
	return &ProcessorUseCase{
		idGen:       cfg.IDGen,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		denseWindow: cfg.DenseWindow,
	}
}

// ProcessResult describes a finished run.
type ProcessResult struct {
	RunID    string
	Applied  int
	Skipped  int
	Duration time.Duration
	Summary  []domain.AccountSummary
}

// Process applies every decodable transaction from src, in order, and
// returns the resulting summary. Malformed records are skipped; only a
// failure of the source itself is returned as an error.
func (uc *ProcessorUseCase) Process(src TransactionSource) (*ProcessResult, error) {
	start := time.Now()
	result := &ProcessResult{RunID: uc.idGen.Generate()}
	log := uc.logger.With().Str("run_id", result.RunID).Logger()

	ledger := domain.NewLedger(uc.denseWindow)

	for {
		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedRecord) {
				result.Skipped++
				if uc.metrics != nil {
					uc.metrics.RecordsSkipped.WithLabelValues(SkipReasonMalformed).Inc()
				}
				log.Debug().Err(err).Msg("skipping record")
				continue
			}

			if uc.metrics != nil {
				uc.metrics.RunsTotal.WithLabelValues(RunStatusFailed).Inc()
			}
			log.Error().Err(err).Int("applied", result.Applied).Msg("reading transactions failed")
			return nil, fmt.Errorf("read transaction %d: %w", result.Applied+result.Skipped+1, err)
		}

		ledger.Apply(tx)
		result.Applied++
		if uc.metrics != nil {
			uc.metrics.TransactionsProcessed.WithLabelValues(string(tx.Type())).Inc()
		}
	}

	result.Summary = ledger.Summary()
	result.Duration = time.Since(start)

	if uc.metrics != nil {
		uc.metrics.RunsTotal.WithLabelValues(RunStatusOK).Inc()
		uc.metrics.RunDuration.Observe(result.Duration.Seconds())
		uc.metrics.Accounts.Set(float64(ledger.Len()))
		uc.metrics.LockedAccounts.Set(float64(ledger.LockedCount()))
		uc.metrics.HistoryRecords.Set(float64(ledger.Records()))
	}

	log.Info().
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Int("accounts", ledger.Len()).
		Int("locked", ledger.LockedCount()).
		Dur("duration", result.Duration).
		Msg("transactions processed")

	return result, nil
}

// Run processes src and renders the summary to w.
func (uc *ProcessorUseCase) Run(src TransactionSource, w SummaryWriter) (*ProcessResult, error) {
	result, err := uc.Process(src)
	if err != nil {
		return nil, err
	}

	if err := w.WriteSummary(result.Summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	return result, nil
}
