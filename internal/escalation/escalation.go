// Package escalation provides the crisis-escalation orchestrator: on a
// flagged reply it concurrently triggers the on-call voice channel and an
// email alert to every registered emergency contact.
//
// Escalation is a best-effort, fire-and-forget safety action, not a
// transactional unit: every operation runs to completion or individual
// timeout, failures are logged and isolated per channel and per contact,
// and no aggregate error is returned to the caller. There is no
// deduplication; callers must not double-invoke per reply.
package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mindhaven/mindhaven/internal/email"
	"github.com/mindhaven/mindhaven/internal/voicecall"
)

// DefaultOperationTimeout bounds each fired operation so one slow provider
// cannot stall the join indefinitely.
const DefaultOperationTimeout = 30 * time.Second

const alertSubject = "Urgent: potential risk detected"

// ContactStore resolves the emergency contact email list for a user.
// An empty list is a valid, non-error result.
type ContactStore interface {
	GetEmergencyContacts(userID string) ([]string, error)
}

// Orchestrator fans escalation out to the voice and email channels.
type Orchestrator struct {
	caller   voicecall.Caller
	sender   email.Sender
	contacts ContactStore
	timeout  time.Duration
}

// NewOrchestrator creates an escalation orchestrator. A non-positive
// timeout falls back to DefaultOperationTimeout.
func NewOrchestrator(caller voicecall.Caller, sender email.Sender, contacts ContactStore, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &Orchestrator{
		caller:   caller,
		sender:   sender,
		contacts: contacts,
		timeout:  timeout,
	}
}

// Escalate fires both channels concurrently and joins all operations
// before returning. The voice call and the contact-resolution→email
// fan-out run independently; each email send is its own unit of work.
// Individual failures never abort sibling operations and are never
// returned — the only observable record is the log.
func (o *Orchestrator) Escalate(ctx context.Context, userID, message string) {
	slog.Info("Orchestrator.Escalate: escalation triggered", "userID", userID)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		o.placeCall(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		o.alertContacts(ctx, userID, message)
	}()

	wg.Wait()
	slog.Info("Orchestrator.Escalate: escalation complete", "userID", userID)
}

// EscalateAsync runs Escalate on its own goroutine so the chat path never
// waits on, or observes, escalation outcomes. The supplied context is not
// reused: the caller's request lifetime must not cancel escalation.
func (o *Orchestrator) EscalateAsync(userID, message string) {
	go o.Escalate(context.Background(), userID, message)
}

// placeCall triggers the voice channel with its own bounded timeout.
func (o *Orchestrator) placeCall(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.caller.PlaceCall(callCtx); err != nil {
		slog.Error("Orchestrator.placeCall: voice channel failed", "error", err)
		return
	}
	slog.Info("Orchestrator.placeCall: on-call voice notification placed")
}

// alertContacts resolves the contact list and dispatches one independent
// email send per address, joining all sends before returning.
func (o *Orchestrator) alertContacts(ctx context.Context, userID, message string) {
	addresses, err := o.contacts.GetEmergencyContacts(userID)
	if err != nil {
		slog.Error("Orchestrator.alertContacts: contact resolution failed", "userID", userID, "error", err)
		return
	}
	if len(addresses) == 0 {
		slog.Warn("Orchestrator.alertContacts: no emergency contacts registered", "userID", userID)
		return
	}

	body := fmt.Sprintf("A potential risk message was detected:\n\n%q\n\nPlease reach out to the individual immediately.", message)

	var wg sync.WaitGroup
	for _, address := range addresses {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			if err := o.sender.Send(sendCtx, to, alertSubject, body); err != nil {
				slog.Error("Orchestrator.alertContacts: email send failed", "userID", userID, "to", to, "error", err)
				return
			}
			slog.Info("Orchestrator.alertContacts: alert email sent", "userID", userID, "to", to)
		}(address)
	}
	wg.Wait()
}
