package mailer

import "sync"

// SentEmail captures one Send call so tests can assert on what the booking
// flow tried to deliver.
type SentEmail struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer records emails instead of delivering them. Send is safe to call
// from the goroutines the payment confirmation path spawns.
type MockMailer struct {
	mu   sync.RWMutex
	sent []SentEmail
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentEmail{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

// SentEmails returns a snapshot of every recorded email in send order.
func (m *MockMailer) SentEmails() []SentEmail {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sent := make([]SentEmail, len(m.sent))
	copy(sent, m.sent)

	return sent
}
