package csvcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/txledger/internal/domain"
)

var summaryHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders the account summary as CSV.
type Writer struct {
	w *csv.Writer
}

// NewWriter creates a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteSummary writes the header and one row per account, in the given order.
func (w *Writer) WriteSummary(rows []domain.AccountSummary) error {
	if err := w.w.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		if err := w.w.Write(FormatRow(row)); err != nil {
			return fmt.Errorf("failed to write CSV row for client %d: %w", row.Client, err)
		}
	}

	w.w.Flush()
	return w.w.Error()
}

// FormatRow renders one summary row without losing precision.
func FormatRow(row domain.AccountSummary) []string {
	return []string{
		strconv.FormatUint(uint64(row.Client), 10),
		row.Available.String(),
		row.Held.String(),
		row.Total.String(),
		strconv.FormatBool(row.Locked),
	}
}
