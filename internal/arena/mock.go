package arena

import "sync"

// MockGateway is an in-memory Gateway for testing.
// It is safe for concurrent use.
type MockGateway struct {
	mu sync.Mutex

	// Document is what Load returns and what Save replaces.
	Document *Snapshot

	// Spies for method calls
	SaveFunc func(snap *Snapshot) error
	LoadFunc func() (*Snapshot, error)

	// Call records
	SaveCalls int
	LoadCalls int
}

// NewMockGateway creates a gateway holding doc, which may be nil.
func NewMockGateway(doc *Snapshot) *MockGateway {
	return &MockGateway{Document: doc}
}

// Save records the call and stores a copy of snap unless SaveFunc fails.
func (m *MockGateway) Save(snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveFunc != nil {
		if err := m.SaveFunc(snap); err != nil {
			return err
		}
	}
	m.Document = snap.Clone()
	return nil
}

// Load records the call and returns a copy of Document.
func (m *MockGateway) Load() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	if m.Document == nil {
		return nil, nil
	}
	return m.Document.Clone(), nil
}

// Saved returns the number of successful and failed Save calls.
func (m *MockGateway) Saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}

// Stored returns a copy of the last saved document.
func (m *MockGateway) Stored() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Document == nil {
		return nil
	}
	return m.Document.Clone()
}
