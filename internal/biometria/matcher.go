// Package biometria contiene la verificación facial del checador: la
// política de vida/gestos sobre una captura y la comparación de descriptores
// contra el enrolamiento. El modelo de embeddings es una dependencia opaca
// (sidecar): aquí sólo se comparan vectores y se aplican umbrales.
package biometria

import (
	"context"
	"math"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
)

// Modo selects the capture policy of the face engine.
type Modo string

const (
	// ModoEnrolamiento: single still, only requires a detected face.
	ModoEnrolamiento Modo = "enrolamiento"
	// ModoVivo: verification capture, requires liveness and gesture signals.
	ModoVivo Modo = "vivo"
)

// Captura is one analyzed frame as returned by the face engine.
type Captura struct {
	RostroDetectado bool      `json:"rostro_detectado"`
	Descriptor      []float32 `json:"descriptor"`
	PuntajeVida     float64   `json:"puntaje_vida"`
	Gestos          []string  `json:"gestos"`
}

// MotorFacial is the opaque embedding model: image in, analyzed frame out.
// The heavyweight model lives behind this interface (see infra.MotorFacialHTTP).
type MotorFacial interface {
	Detectar(ctx context.Context, imagen []byte, modo Modo) (*Captura, error)
}

// DistanciaCoseno returns the cosine dissimilarity between two descriptors:
// 0 for identical direction, 2 for opposite. Lower is more similar.
func DistanciaCoseno(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0, false
	}
	return 1 - dot/(math.Sqrt(magA)*math.Sqrt(magB)), true
}

// Umbrales are the tuning knobs of the matcher. They come from configuration,
// never literals: the identity threshold must be retuned per embedding model
// version, and the liveness floors were observed to drift between revisions.
type Umbrales struct {
	Coincidencia float64 // max dissimilarity accepted as the same person
	Vida         float64 // hard liveness floor (reject below, always)
	VidaGesto    float64 // below this, a gesture signal is also required
}

// Matcher applies the verification policy over captures and descriptors.
type Matcher struct {
	umbrales Umbrales
}

func NewMatcher(u Umbrales) *Matcher {
	return &Matcher{umbrales: u}
}

// EvaluarCaptura validates a live-mode frame: face present, liveness above
// the hard floor, and a corroborating gesture when liveness is weak. The
// order mirrors the capture worker: the hard floor rejects first.
func (m *Matcher) EvaluarCaptura(c *Captura) error {
	if c == nil || !c.RostroDetectado {
		return &chequeo.Error{
			Codigo:  chequeo.CodigoRostroNoDetectado,
			Detalle: "Alinee su rostro en el centro.",
		}
	}
	if c.PuntajeVida < m.umbrales.Vida {
		return &chequeo.Error{
			Codigo:  chequeo.CodigoVidaInsuficiente,
			Detalle: "Detección de vida insuficiente. Asegúrese de tener buena iluminación frontal.",
		}
	}
	if len(c.Gestos) == 0 && c.PuntajeVida < m.umbrales.VidaGesto {
		return &chequeo.Error{
			Codigo:  chequeo.CodigoSinMovimiento,
			Detalle: "Por favor, parpadee o muévase ligeramente.",
		}
	}
	return nil
}

// EvaluarEnrolamiento validates an enrollment still: only a detected face
// with a descriptor is required.
func (m *Matcher) EvaluarEnrolamiento(c *Captura) error {
	if c == nil || !c.RostroDetectado || len(c.Descriptor) == 0 {
		return &chequeo.Error{
			Codigo:  chequeo.CodigoRostroNoDetectado,
			Detalle: "Alinee su rostro en el centro.",
		}
	}
	return nil
}

// VerificarIdentidad compares a fresh descriptor against the enrolled one and
// returns the dissimilarity score. Scores above the configured threshold (or
// descriptors the distance metric cannot compare) reject the identity; the
// score always accompanies the rejection for audit.
func (m *Matcher) VerificarIdentidad(capturado, enrolado []float32) (float64, error) {
	puntaje, ok := DistanciaCoseno(capturado, enrolado)
	if !ok {
		return 1, &chequeo.Error{
			Codigo:  chequeo.CodigoIdentidadNoVerificada,
			Detalle: "No se pudo verificar la identidad. Intente nuevamente.",
			Puntaje: 1,
		}
	}
	if puntaje > m.umbrales.Coincidencia {
		return puntaje, &chequeo.Error{
			Codigo:  chequeo.CodigoIdentidadNoVerificada,
			Detalle: "No se pudo verificar la identidad. Intente nuevamente.",
			Puntaje: puntaje,
		}
	}
	return puntaje, nil
}
