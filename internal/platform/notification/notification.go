// Package notification provides the asynchronous staff-notification dispatcher
// used after an emergency insertion commits. Delivery is best-effort and
// at-least-once; a delivery failure is logged and never surfaced to the
// scheduling decision that triggered it.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Channel is the delivery channel for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Priority affects delivery ordering only, never delivery success.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityOrder is the drain order for the per-priority queues.
var priorityOrder = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Notification is a single outbound message.
type Notification struct {
	ID        string            `json:"id"`
	Channel   Channel           `json:"channel"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject,omitempty"`
	Body      string            `json:"body"`
	Priority  Priority          `json:"priority"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	SentAt    *time.Time        `json:"sent_at,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EmailSender sends email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

// Template is a reusable notification template with {{key}} placeholders.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// TemplateEngine renders registered templates with data maps.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "emergency-scheduled",
			Name:    "Emergency Case Scheduled",
			Subject: "Emergency case assigned: {{room}} at {{start}}",
			Body:    "You have been assigned an emergency case in {{room}} from {{start}} to {{end}}. Patient: {{patient}}.",
			Channel: ChannelSMS,
		},
		{
			ID:      "surgery-bumped",
			Name:    "Surgery Rescheduled",
			Subject: "Your case at {{start}} was displaced by an emergency",
			Body:    "Your scheduled case in {{room}} at {{start}} was displaced by a higher-priority emergency and will be rescheduled. The scheduling desk will follow up.",
			Channel: ChannelSMS,
		},
		{
			ID:      "overtime-notice",
			Name:    "Overtime Assignment",
			Subject: "Overtime case assigned: {{room}} at {{start}}",
			Body:    "An emergency case has been placed after normal hours in {{room}} starting {{start}}. Please confirm availability.",
			Channel: ChannelSMS,
		},
		{
			ID:      "manual-review-needed",
			Name:    "Manual Review Needed",
			Subject: "Emergency request needs manual review",
			Body:    "No automatic placement was possible for an emergency request (patient {{patient}}). Manual scheduling review is required.",
			Channel: ChannelEmail,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template and performs {{key}} replacement. Keys present in
// the template but absent from data are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, channel Channel, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, t.Channel, nil
}

// ---------------------------------------------------------------------------
// Dispatcher
// ---------------------------------------------------------------------------

// Dispatcher queues notifications and delivers them from a dedicated worker
// goroutine. One bounded channel per priority level; the worker always drains
// urgent before high before medium before low. The dispatcher is constructed
// explicitly and injected; there is no process-wide instance.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	log    zerolog.Logger
	queues map[Priority]chan *Notification
	wake   chan struct{}
	done   chan struct{}

	mu   sync.RWMutex
	sent map[string]*Notification
}

// NewDispatcher constructs a Dispatcher with a bounded queue of queueSize per
// priority level. Call Start to launch the worker and Drain on shutdown.
func NewDispatcher(email EmailSender, sms SMSSender, queueSize int, log zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	queues := make(map[Priority]chan *Notification, len(priorityOrder))
	for _, p := range priorityOrder {
		queues[p] = make(chan *Notification, queueSize)
	}
	return &Dispatcher{
		email:  email,
		sms:    sms,
		log:    log,
		queues: queues,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		sent:   make(map[string]*Notification),
	}
}

// Send enqueues a notification for asynchronous delivery and returns its ID.
// It never blocks the caller: when the queue for the given priority is full
// the notification is dropped with an error log, because a scheduling
// decision must not wait on notification backpressure.
func (d *Dispatcher) Send(recipient, subject, body string, channel Channel, priority Priority, metadata map[string]string) string {
	if _, ok := d.queues[priority]; !ok {
		priority = PriorityMedium
	}
	n := &Notification{
		ID:        uuid.New().String(),
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Priority:  priority,
		Status:    "queued",
		CreatedAt: time.Now().UTC(),
		Metadata:  metadata,
	}

	select {
	case d.queues[priority] <- n:
		select {
		case d.wake <- struct{}{}:
		default:
		}
	default:
		d.log.Error().
			Str("notification_id", n.ID).
			Str("recipient", recipient).
			Str("priority", string(priority)).
			Msg("notification queue full, dropping")
	}
	return n.ID
}

// Start launches the delivery worker. The worker exits when ctx is cancelled
// after draining whatever is already queued.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		if d.deliverPending(ctx) {
			continue
		}
		select {
		case <-ctx.Done():
			// Graceful drain: flush anything enqueued before shutdown.
			for d.deliverPending(context.Background()) {
			}
			return
		case <-d.wake:
		}
	}
}

// deliverPending delivers at most one notification, honoring priority order.
// Returns true when something was delivered.
func (d *Dispatcher) deliverPending(ctx context.Context) bool {
	for _, p := range priorityOrder {
		select {
		case n := <-d.queues[p]:
			d.deliver(ctx, n)
			return true
		default:
		}
	}
	return false
}

func (d *Dispatcher) deliver(ctx context.Context, n *Notification) {
	var err error
	switch n.Channel {
	case ChannelEmail:
		err = d.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
	case ChannelSMS:
		err = d.sms.SendSMS(ctx, n.Recipient, n.Body)
	default:
		err = fmt.Errorf("unsupported channel: %s", n.Channel)
	}

	if err != nil {
		n.Status = "failed"
		n.Error = err.Error()
		d.log.Error().
			Err(err).
			Str("notification_id", n.ID).
			Str("recipient", n.Recipient).
			Msg("notification delivery failed")
	} else {
		n.Status = "sent"
		at := time.Now().UTC()
		n.SentAt = &at
	}

	d.mu.Lock()
	d.sent[n.ID] = n
	d.mu.Unlock()
}

// Drain blocks until the worker has exited (after its final flush), or the
// timeout elapses.
func (d *Dispatcher) Drain(timeout time.Duration) error {
	select {
	case <-d.done:
		return nil
	case <-time.After(timeout):
		return errors.New("notification drain timed out")
	}
}

// Get returns a processed notification by ID, or nil if it has not been
// delivered (or dropped) yet.
func (d *Dispatcher) Get(id string) *Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sent[id]
}

// Stats returns counts of processed notifications by status.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stats := make(map[string]int)
	for _, n := range d.sent {
		stats[n.Status]++
	}
	return stats
}

// ---------------------------------------------------------------------------
// Mock senders (test doubles)
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SMSCall records a single call to SendSMS.
type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender is a test double for SMSSender.
type MockSMSSender struct {
	mu         sync.Mutex
	calls      []SMSCall
	ShouldFail bool
	FailError  string
}

func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded SMS calls.
func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}
