package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/adapter/csvcodec"
	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/usecase"
)

// RunIDHeader carries the processing run id on responses.
const RunIDHeader = "X-Run-ID"

// ProcessService defines the use case behind ProcessHandler.
type ProcessService interface {
	Process(src usecase.TransactionSource) (*usecase.ProcessResult, error)
}

// ProcessHandler turns an uploaded transaction CSV into an account summary.
type ProcessHandler struct {
	service      ProcessService
	maxBodyBytes int64
}

// NewProcessHandler creates a new ProcessHandler. maxBodyBytes <= 0 disables the limit.
func NewProcessHandler(service ProcessService, maxBodyBytes int64) *ProcessHandler {
	return &ProcessHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
	}
}

// Process handles POST /api/v1/ledger/process.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	result, err := h.service.Process(csvcodec.NewDecoder(body))
	if err != nil {
		writeError(w, mapReadError(err), "failed to read transactions", err.Error())
		return
	}

	w.Header().Set(RunIDHeader, result.RunID)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, dto.ProcessFromResult(result))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if err := csvcodec.NewWriter(w).WriteSummary(result.Summary); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("run_id", result.RunID).Msg("failed to write summary")
	}
}
