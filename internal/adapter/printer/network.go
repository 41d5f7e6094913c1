package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/ordersys/tableside/internal/domain"
)

// escCut advances the paper and performs a partial cut (GS V).
var escCut = []byte{0x1d, 0x56, 0x41, 0x03}

// NetworkEndpoint drives a receipt printer over a TCP socket. Each print
// opens a fresh connection, writes the rendered receipt plus a cut command
// and closes; a wedged device therefore surfaces as a timeout on the next
// attempt instead of poisoning a long-lived handle.
type NetworkEndpoint struct {
	name    string
	addr    string
	timeout time.Duration

	// Probing dials the device, which is comparatively expensive, so the
	// last result is cached for probeTTL.
	probeTTL  time.Duration
	mu        sync.Mutex
	lastProbe time.Time
	lastAlive bool
}

func NewNetworkEndpoint(name, addr string, timeout, probeTTL time.Duration) *NetworkEndpoint {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NetworkEndpoint{
		name:     name,
		addr:     addr,
		timeout:  timeout,
		probeTTL: probeTTL,
	}
}

func (p *NetworkEndpoint) Name() string { return p.name }

// IsAvailable probes the device with a fresh connection, reusing the cached
// result within the probe TTL. Any connectivity failure reports false.
func (p *NetworkEndpoint) IsAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.probeTTL > 0 && time.Since(p.lastProbe) < p.probeTTL {
		return p.lastAlive
	}

	conn, err := net.DialTimeout("tcp", p.addr, p.timeout)
	p.lastProbe = time.Now()
	if err != nil {
		p.lastAlive = false
		return false
	}
	conn.Close()
	p.lastAlive = true
	return true
}

// PrintReceipt renders the receipt and sends it with a cut command. An
// empty item set is a no-op success: a blank receipt is never emitted.
// Printing is not idempotent; the caller owns at-most-once-per-success.
func (p *NetworkEndpoint) PrintReceipt(ctx context.Context, tableNumber int, items []domain.LineItem, comment string) error {
	if len(items) == 0 {
		return nil
	}

	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return p.classify(err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(p.timeout)); err != nil {
		return &domain.PrintError{Kind: domain.PrintDeviceFault, Endpoint: p.name, Err: err}
	}

	receipt := renderReceipt(tableNumber, items, comment)
	if _, err := conn.Write(append([]byte(receipt), escCut...)); err != nil {
		return p.classify(err)
	}

	return nil
}

func (p *NetworkEndpoint) classify(err error) error {
	kind := domain.PrintDeviceFault

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.PrintTimeout
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.PrintTimeout
	default:
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			kind = domain.PrintUnreachable
		}
	}

	return &domain.PrintError{Kind: kind, Endpoint: p.name, Err: err}
}

// renderReceipt formats the header, itemized lines with per-line totals,
// the order total and the optional comment block.
func renderReceipt(tableNumber int, items []domain.LineItem, comment string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Table %d\n\n", tableNumber)

	total := 0.0
	for _, item := range items {
		lineTotal := item.Price * float64(item.Quantity)
		total += lineTotal
		fmt.Fprintf(&b, "%-20s %7.2f\n", item.Name, lineTotal)
		if item.Quantity > 1 {
			fmt.Fprintf(&b, "%10dx %7.2f\n", item.Quantity, item.Price)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %20.2f\n", total)

	if comment != "" {
		fmt.Fprintf(&b, "\nComment:\n%s\n", comment)
	}

	return b.String()
}
