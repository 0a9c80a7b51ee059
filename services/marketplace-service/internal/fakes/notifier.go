package fakes

import (
	"regexp"
	"sync"
)

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

type Email struct {
	To      []string
	Subject string
	Body    string
}

// Notifier records outgoing mail. Err, when set, fails every send.
type Notifier struct {
	mu   sync.Mutex
	sent []Email
	Err  error
}

func (n *Notifier) SendSimple(to []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, Email{To: to, Subject: subject, Body: body})
	return nil
}

func (n *Notifier) SetErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Err = err
}

func (n *Notifier) Sent() []Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Email(nil), n.sent...)
}

// LastOTP extracts the six digit code from the most recent message, or "".
func (n *Notifier) LastOTP() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.sent) == 0 {
		return ""
	}
	return otpPattern.FindString(n.sent[len(n.sent)-1].Body)
}
