package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"casaceja/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImpresionPayload asks for one document to be rendered and spooled.
type ImpresionPayload struct {
	Tipo string    `json:"tipo"` // venta | credito | apartado | abono | corte | reimpresion
	ID   uuid.UUID `json:"id"`
	// Email, when set, receives the PDF once it is generated
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// TicketRenderer turns a stored document into ticket text.
type TicketRenderer interface {
	RenderTicket(ctx context.Context, tipo string, id uuid.UUID) (string, error)
	LineWidth() int
}

// TicketArchiver keeps an audit copy of every printed ticket.
type TicketArchiver interface {
	ArchivarTicket(ctx context.Context, tipo string, id uuid.UUID, texto string) error
}

// EmailQueue is satisfied by *Dispatcher.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, p EmailPayload) error
}

// ImpresionWorker writes each ticket to the spool directory as .txt (picked up
// by the printer agent) and .pdf, archives it and optionally mails the PDF.
type ImpresionWorker struct {
	renderer TicketRenderer
	archiver TicketArchiver
	emails   EmailQueue
	spoolDir string
}

func NewImpresionWorker(renderer TicketRenderer, archiver TicketArchiver, emails EmailQueue, spoolDir string) *ImpresionWorker {
	return &ImpresionWorker{renderer: renderer, archiver: archiver, emails: emails, spoolDir: spoolDir}
}

// Process handles one job from QueueImpresion.
func (w *ImpresionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p ImpresionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("impresion_worker: %w: %v", errPayloadInvalido, err)
	}

	texto, err := w.renderer.RenderTicket(ctx, p.Tipo, p.ID)
	if err != nil {
		return fmt.Errorf("impresion_worker: render %s %s: %w", p.Tipo, p.ID, err)
	}

	name := fmt.Sprintf("%s-%s", p.Tipo, p.ID)
	if err := os.MkdirAll(w.spoolDir, 0o755); err != nil {
		return fmt.Errorf("impresion_worker: spool dir: %w", err)
	}
	txtPath := filepath.Join(w.spoolDir, name+".txt")
	if err := os.WriteFile(txtPath, []byte(texto), 0o644); err != nil {
		return fmt.Errorf("impresion_worker: write %s: %w", txtPath, err)
	}
	pdfPath, err := infra.GenerateTicketPDF(texto, w.renderer.LineWidth(), w.spoolDir, name)
	if err != nil {
		return fmt.Errorf("impresion_worker: %w", err)
	}

	if w.archiver != nil {
		if err := w.archiver.ArchivarTicket(ctx, p.Tipo, p.ID, texto); err != nil {
			// The ticket is already printed; a retry would print it twice.
			log.Error().Err(err).Str("tipo", p.Tipo).Str("id", p.ID.String()).Msg("impresion_worker: archive failed")
		}
	}

	if p.Email != "" && w.emails != nil {
		subject := p.Subject
		if subject == "" {
			subject = "Casa Ceja - " + p.Tipo
		}
		err := w.emails.EnqueueEmail(ctx, EmailPayload{To: p.Email, Subject: subject, Body: texto, PDFPath: pdfPath})
		if err != nil {
			log.Error().Err(err).Str("to", p.Email).Msg("impresion_worker: enqueue email failed")
		}
	}

	log.Info().Str("tipo", p.Tipo).Str("id", p.ID.String()).Str("spool", txtPath).Msg("impresion_worker: ticket spooled")
	return nil
}
