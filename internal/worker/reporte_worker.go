package worker

// reporte_worker.go
// Processes daily report jobs from QueueReporte:
//  1. Parse ReporteJobPayload from the job envelope
//  2. Fetch the full attendance ledger for the date
//  3. Render the PDF (infra.GenerateReporteDiarioPDF)
//  4. Email it to HR with the PDF attached
// Failed jobs go to the DLQ after the retry budget is spent.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/repository"
)

// MaxReporteRetries bounds in-process attempts before a job lands in the DLQ.
const MaxReporteRetries = 3

// ReporteJobPayload is the job envelope sent to QueueReporte.
type ReporteJobPayload struct {
	Fecha string `json:"fecha"`
	// Destinatario overrides the configured HR address when set.
	Destinatario string `json:"destinatario,omitempty"`
}

// ReporteWorker builds and emails the daily attendance report.
type ReporteWorker struct {
	chequeoRepo    repository.ChequeoRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
	emailRH        string
}

func NewReporteWorker(
	chequeoRepo repository.ChequeoRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
	emailRH string,
) *ReporteWorker {
	return &ReporteWorker{
		chequeoRepo:    chequeoRepo,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		emailRH:        emailRH,
	}
}

// Process handles a single report job.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}

	destinatario := payload.Destinatario
	if destinatario == "" {
		destinatario = w.emailRH
	}
	if destinatario == "" {
		log.Warn().Str("fecha", payload.Fecha).Msg("reporte_worker: no recipient configured — skipping")
		return
	}

	registros, err := w.chequeoRepo.ListarDiaTodos(ctx, payload.Fecha)
	if err != nil {
		log.Error().Err(err).Str("fecha", payload.Fecha).Msg("reporte_worker: failed to load ledger")
		SendToDLQ(ctx, w.rdb, QueueReporte, "reporte", raw, fmt.Sprintf("load ledger: %v", err), 1)
		return
	}

	pdfPath, err := infra.GenerateReporteDiarioPDF(payload.Fecha, registros, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("fecha", payload.Fecha).Msg("reporte_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReporte, "reporte", raw, fmt.Sprintf("pdf: %v", err), 1)
		return
	}

	subject := "Reporte diario de asistencia — " + payload.Fecha
	body := fmt.Sprintf("Adjunto el reporte de asistencia del %s (%d registros).\n", payload.Fecha, len(registros))

	sendErr := withRetry(ctx, MaxReporteRetries, func(attempt int) error {
		if err := w.mailer.Send(destinatario, subject, body, pdfPath); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("reporte_worker: send failed, retrying")
			return err
		}
		return nil
	})
	if sendErr != nil {
		SendToDLQ(ctx, w.rdb, QueueReporte, "reporte", raw,
			fmt.Sprintf("smtp after %d attempts: %v", MaxReporteRetries, sendErr), MaxReporteRetries)
		return
	}

	log.Info().Str("fecha", payload.Fecha).Str("pdf", pdfPath).Msg("reporte_worker: reporte enviado")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
