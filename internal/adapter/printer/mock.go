package printer

import (
	"context"
	"sync"

	"github.com/ordersys/tableside/internal/domain"
)

// PrintJob records one PrintReceipt invocation on a mock endpoint.
type PrintJob struct {
	TableNumber int
	Items       []domain.LineItem
	Comment     string
}

// MockEndpoint simulates a printer. It records every print and can be
// scripted to be offline or to fail a number of attempts, which is how the
// dispatcher's retry behavior is exercised in tests and how the service
// runs without hardware.
type MockEndpoint struct {
	name string

	mu       sync.Mutex
	offline  bool
	failNext int
	probes   int
	jobs     []PrintJob
}

func NewMockEndpoint(name string) *MockEndpoint {
	return &MockEndpoint{name: name}
}

func (m *MockEndpoint) Name() string { return m.name }

func (m *MockEndpoint) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	return !m.offline
}

func (m *MockEndpoint) PrintReceipt(ctx context.Context, tableNumber int, items []domain.LineItem, comment string) error {
	if len(items) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offline {
		return &domain.PrintError{Kind: domain.PrintUnreachable, Endpoint: m.name}
	}
	if m.failNext > 0 {
		m.failNext--
		return &domain.PrintError{Kind: domain.PrintDeviceFault, Endpoint: m.name}
	}

	m.jobs = append(m.jobs, PrintJob{
		TableNumber: tableNumber,
		Items:       append([]domain.LineItem(nil), items...),
		Comment:     comment,
	})
	return nil
}

// SetOffline toggles the simulated connectivity of the device.
func (m *MockEndpoint) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// FailNext makes the next n prints fail with a device fault.
func (m *MockEndpoint) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

// Jobs returns a copy of the recorded print jobs.
func (m *MockEndpoint) Jobs() []PrintJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PrintJob(nil), m.jobs...)
}

// Probes reports how many availability checks have been made.
func (m *MockEndpoint) Probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probes
}
