package worker

// notificacion_worker.go
// Processes HR notification jobs from QueueNotificacion.
// A job is enqueued when an accepted check-in carries a major delay, or when
// a rejected attempt warrants review (repeated out-of-range attempts).

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	EmpleadoID string `json:"empleado_id"`
	Nombre     string `json:"nombre"`
	Accion     string `json:"accion"`
	Fecha      string `json:"fecha"`
	Hora       string `json:"hora"`
	// Motivo: "retardo_mayor" | "fuera_de_rango"
	Motivo  string `json:"motivo"`
	Detalle string `json:"detalle"`
}

// NotificacionWorker sends HR alert emails via SMTP.
type NotificacionWorker struct {
	mailer  *infra.Mailer
	emailRH string
}

func NewNotificacionWorker(mailer *infra.Mailer, emailRH string) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, emailRH: emailRH}
}

// Process sends one alert email to the HR address.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if w.emailRH == "" {
		log.Warn().Msg("notificacion_worker: EMAIL_RH not configured — skipping")
		return
	}

	subject := fmt.Sprintf("Alerta de asistencia — %s (%s)", payload.Nombre, payload.Motivo)
	body := fmt.Sprintf(
		"Empleado: %s\nAcción: %s\nFecha: %s %s\nMotivo: %s\n\n%s\n",
		payload.Nombre, payload.Accion, payload.Fecha, payload.Hora,
		payload.Motivo, payload.Detalle,
	)

	if err := w.mailer.Send(w.emailRH, subject, body, ""); err != nil {
		log.Error().Err(err).Str("to", w.emailRH).Msg("notificacion_worker: failed to send email")
		return
	}
	log.Info().
		Str("empleado_id", payload.EmpleadoID).
		Str("motivo", payload.Motivo).
		Msg("notificacion_worker: alerta enviada")
}
