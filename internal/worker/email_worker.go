package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailPayload is the job envelope sent to QueueEmail.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Send(to, subject, body string, attachments ...string) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer Sender
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer Sender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

var errPayloadInvalido = errors.New("invalid payload")

// Process sends one email. Empty recipients are dropped without error.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p EmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: %w: %v", errPayloadInvalido, err)
	}
	if p.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return nil
	}

	var attachments []string
	if p.PDFPath != "" {
		attachments = append(attachments, p.PDFPath)
	}
	if err := w.mailer.Send(p.To, p.Subject, p.Body, attachments...); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", p.To, err)
	}
	log.Info().Str("to", p.To).Str("subject", p.Subject).Msg("email_worker: sent")
	return nil
}
