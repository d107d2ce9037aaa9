package chequeo

import "fmt"

// Codigo identifies every way a check-in attempt can fail. The code is the
// machine contract with the UI; Detalle is the user-facing Spanish message.
type Codigo string

const (
	CodigoSinDescriptor         Codigo = "sin_descriptor"
	CodigoRostroNoDetectado     Codigo = "rostro_no_detectado"
	CodigoVidaInsuficiente      Codigo = "vida_insuficiente"
	CodigoSinMovimiento         Codigo = "sin_movimiento"
	CodigoIdentidadNoVerificada Codigo = "identidad_no_verificada"
	CodigoSinUbicacionAsignada  Codigo = "sin_ubicacion_asignada"
	CodigoErrorUbicacion        Codigo = "error_ubicacion"
	CodigoFueraDeRango          Codigo = "fuera_de_rango"
	CodigoTransicionInvalida    Codigo = "transicion_invalida"
	CodigoTurnoCompleto         Codigo = "turno_completo"
	CodigoErrorPersistencia     Codigo = "error_persistencia"
)

// Error is the structured rejection of a check-in attempt. Every failure is
// terminal for the request; nothing is retried server-side.
type Error struct {
	Codigo  Codigo
	Detalle string

	// Puntaje carries the biometric dissimilarity score on
	// identidad_no_verificada, for audit and threshold tuning.
	Puntaje float64
	// DistanciaMetros carries the measured distance on fuera_de_rango.
	DistanciaMetros float64
	// Accion and Estado name the rejected transition on transicion_invalida.
	Accion Accion
	Estado Estado
}

func (e *Error) Error() string {
	switch e.Codigo {
	case CodigoIdentidadNoVerificada:
		return fmt.Sprintf("%s: puntaje %.4f", e.Codigo, e.Puntaje)
	case CodigoFueraDeRango:
		return fmt.Sprintf("%s: %.0f m", e.Codigo, e.DistanciaMetros)
	case CodigoTransicionInvalida:
		return fmt.Sprintf("%s: accion=%s estado=%s", e.Codigo, e.Accion, e.Estado)
	default:
		return string(e.Codigo)
	}
}

// EsCodigo reports whether err is a *Error with the given code.
func EsCodigo(err error, c Codigo) bool {
	e, ok := err.(*Error)
	return ok && e.Codigo == c
}
