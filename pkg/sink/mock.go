package sink

import "context"

// MockSender records everything sent to it, for tests.
type MockSender struct {
	Keys    []string
	Records []string
	Closed  bool
	Err     error
}

// Send stores a copy of the record.
func (m *MockSender) Send(_ context.Context, key string, record []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Keys = append(m.Keys, key)
	m.Records = append(m.Records, string(record))
	return nil
}

func (m *MockSender) Close() error {
	m.Closed = true
	return nil
}
