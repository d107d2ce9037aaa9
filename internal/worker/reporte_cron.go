package worker

// reporte_cron.go
// Background goroutine that enqueues the daily report job once per day at the
// configured local time. Enqueue-only: rendering and delivery happen in the
// worker pool, so a slow SMTP server never blocks the ticker.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const cronTickInterval = 30 * time.Second

// ReporteCronConfig holds the dependencies for the report scheduler.
type ReporteCronConfig struct {
	Dispatcher *Dispatcher
	// Hora is the local "HH:MM" at which the report fires.
	Hora string
}

// StartReporteCron launches a goroutine that ticks every 30s and enqueues the
// report for the current date the first time the clock passes cfg.Hora.
// It respects the context for graceful shutdown.
func StartReporteCron(ctx context.Context, cfg ReporteCronConfig) {
	go func() {
		ticker := time.NewTicker(cronTickInterval)
		defer ticker.Stop()

		log.Info().Str("hora", cfg.Hora).Msg("reporte_cron: started")

		var ultimaFecha string // last date already enqueued

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reporte_cron: shutting down")
				return
			case <-ticker.C:
				now := time.Now()
				fecha := now.Format("2006-01-02")
				if fecha == ultimaFecha || now.Format("15:04") < cfg.Hora {
					continue
				}
				payload := ReporteJobPayload{Fecha: fecha}
				if err := cfg.Dispatcher.EnqueueReporte(ctx, payload); err != nil {
					log.Error().Err(err).Str("fecha", fecha).Msg("reporte_cron: enqueue failed")
					continue // retry next tick
				}
				ultimaFecha = fecha
				log.Info().Str("fecha", fecha).Msg("reporte_cron: reporte diario encolado")
			}
		}
	}()
}
