package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu            sync.Mutex
	operations    map[string]int
	saveDurations []float64
	saveFailures  int
	entities      map[string]int
	startupTime   float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		operations:    make(map[string]int),
		saveDurations: make([]float64, 0),
		entities:      make(map[string]int),
	}
}

func (m *Mock) ObserveOperation(operation, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[operation+"/"+result]++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveFailures++
}

func (m *Mock) SetEntityCount(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[kind] = count
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Operations returns how often operation finished with result.
func (m *Mock) Operations(operation, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operations[operation+"/"+result]
}

// Saves returns the number of observed save durations.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saveDurations)
}

// SaveFailures returns the number of times IncSaveFailures was called.
func (m *Mock) SaveFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveFailures
}

// EntityCount returns the last count set for kind.
func (m *Mock) EntityCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entities[kind]
}
