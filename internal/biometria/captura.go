package biometria

// captura.go — Sesión de captura en vivo.
// El flujo original encadenaba callbacks de timer recursivos; aquí es una
// tarea de sondeo cancelable: toma un frame, lo analiza, y reintenta en un
// intervalo fijo hasta pasar la política de vida o agotar el tope de
// intentos. El usuario cancela vía context.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
)

// FuenteFrames produces the next camera frame to analyze.
type FuenteFrames func(ctx context.Context) ([]byte, error)

// SesionCapturaConfig bounds the retry loop. The observed design had no
// ceiling (ran until cancelled); MaxIntentos hardens that.
type SesionCapturaConfig struct {
	Intervalo   time.Duration // delay between attempts after a policy rejection
	MaxIntentos int           // attempts before giving up with the last rejection
}

// SesionCaptura drives repeated captures against the face engine until a
// frame passes the liveness policy, the context is cancelled, or the attempt
// ceiling is reached.
type SesionCaptura struct {
	motor   MotorFacial
	matcher *Matcher
	cfg     SesionCapturaConfig
}

func NewSesionCaptura(motor MotorFacial, matcher *Matcher, cfg SesionCapturaConfig) *SesionCaptura {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = 500 * time.Millisecond
	}
	if cfg.MaxIntentos <= 0 {
		cfg.MaxIntentos = 20
	}
	return &SesionCaptura{motor: motor, matcher: matcher, cfg: cfg}
}

// Ejecutar runs the capture loop and returns the first accepted capture.
// Policy rejections (no face, weak liveness, no movement) re-prompt on the
// configured interval; engine transport errors back off to double the
// interval before retrying. Cancellation returns ctx.Err().
func (s *SesionCaptura) Ejecutar(ctx context.Context, frames FuenteFrames) (*Captura, error) {
	var ultimo error

	for intento := 1; intento <= s.cfg.MaxIntentos; intento++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		espera := s.cfg.Intervalo
		imagen, err := frames(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ultimo = err
			espera = 2 * s.cfg.Intervalo
		} else {
			captura, err := s.motor.Detectar(ctx, imagen, ModoVivo)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warn().Err(err).Int("intento", intento).Msg("captura: motor facial no disponible")
				ultimo = err
				espera = 2 * s.cfg.Intervalo
			} else if err := s.matcher.EvaluarCaptura(captura); err != nil {
				ultimo = err
			} else {
				return captura, nil
			}
		}

		if intento == s.cfg.MaxIntentos {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(espera):
		}
	}

	if ultimo == nil {
		ultimo = &chequeo.Error{
			Codigo:  chequeo.CodigoRostroNoDetectado,
			Detalle: "Alinee su rostro en el centro.",
		}
	}
	return nil, ultimo
}
