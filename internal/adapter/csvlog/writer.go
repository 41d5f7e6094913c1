package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/ordersys/tableside/internal/domain"
)

// Writer appends orders to a CSV file. It is the durable fallback record:
// every accepted order is written here, so a database outage still leaves a
// trace of what went to the printers.
type Writer struct {
	path string
	mu   sync.Mutex
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes one row per line item.
func (w *Writer) Append(order *domain.Order) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open fallback file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	username := ""
	if order.User != nil {
		username = order.User.Username
	}

	for _, item := range order.Items {
		record := []string{
			strconv.FormatInt(order.Timestamp, 10),
			strconv.Itoa(order.TableNumber),
			item.Name,
			string(item.Category),
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			strconv.Itoa(item.Quantity),
			order.Comment,
			username,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write fallback record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
