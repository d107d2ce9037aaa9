// Package chequeo implementa la máquina de estados del checador: qué acción
// es legal a continuación dado el libro de registros del día. El estado
// NUNCA se almacena; se deriva de los registros persistidos en cada intento
// (leer → validar → escribir) para no actuar sobre un estatus caduco.
package chequeo

// Accion is a requested check-in action, one row in the daily ledger.
type Accion string

const (
	AccionEntrada         Accion = "entrada"
	AccionSalidaDescanso  Accion = "salida_descanso"
	AccionRegresoDescanso Accion = "regreso_descanso"
	AccionSalida          Accion = "salida"
)

// Valida reports whether a is one of the four known actions.
func (a Accion) Valida() bool {
	switch a {
	case AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso, AccionSalida:
		return true
	}
	return false
}

// Estado is the derived position within the day's sequence.
type Estado string

const (
	EstadoSinRegistros   Estado = "sin_registros"
	EstadoEnTurno        Estado = "en_turno"
	EstadoEnDescanso     Estado = "en_descanso"
	EstadoTurnoReanudado Estado = "turno_reanudado"
	EstadoTurnoCompleto  Estado = "turno_completo"
)

// DerivarEstado computes the day state from the set of event types already
// persisted. It tolerates any storage order: presence of each type decides,
// exactly like the day ledger is read back.
func DerivarEstado(registrados []Accion) Estado {
	var entrada, salidaDescanso, regresoDescanso, salida bool
	for _, a := range registrados {
		switch a {
		case AccionEntrada:
			entrada = true
		case AccionSalidaDescanso:
			salidaDescanso = true
		case AccionRegresoDescanso:
			regresoDescanso = true
		case AccionSalida:
			salida = true
		}
	}
	switch {
	case salida:
		return EstadoTurnoCompleto
	case regresoDescanso:
		return EstadoTurnoReanudado
	case salidaDescanso:
		return EstadoEnDescanso
	case entrada:
		return EstadoEnTurno
	default:
		return EstadoSinRegistros
	}
}

// SiguienteAccion returns the next legal action from the state, or "" when
// the day is complete. Used by the day view to label the button.
func SiguienteAccion(e Estado) Accion {
	switch e {
	case EstadoSinRegistros:
		return AccionEntrada
	case EstadoEnTurno:
		return AccionSalidaDescanso
	case EstadoEnDescanso:
		return AccionRegresoDescanso
	case EstadoTurnoReanudado:
		return AccionSalida
	default:
		return ""
	}
}

// Reglas holds the policy knobs of the state machine.
type Reglas struct {
	// PermitirSalidaAnticipada allows "salida" directly from en_turno or
	// en_descanso, short-circuiting to turno_completo. Off by default:
	// the strict order entrada → salida_descanso → regreso_descanso →
	// salida is the contract.
	PermitirSalidaAnticipada bool
}

// ValidarAccion checks that accion is legal from the derived estado.
// Returns ErrTurnoCompleto once all events exist and ErrTransicionInvalida
// (naming action and state) for any other out-of-order request.
func ValidarAccion(estado Estado, accion Accion, reglas Reglas) error {
	if estado == EstadoTurnoCompleto {
		return &Error{Codigo: CodigoTurnoCompleto, Detalle: "Ya has completado todos tus registros del día."}
	}
	if SiguienteAccion(estado) == accion {
		return nil
	}
	if reglas.PermitirSalidaAnticipada && accion == AccionSalida &&
		(estado == EstadoEnTurno || estado == EstadoEnDescanso) {
		return nil
	}
	return errTransicion(accion, estado)
}

func errTransicion(accion Accion, estado Estado) error {
	detalle := "Acción no permitida en este momento."
	switch accion {
	case AccionEntrada:
		detalle = "Ya has registrado tu entrada hoy."
	case AccionSalidaDescanso:
		detalle = "Debes registrar tu entrada para poder salir a descanso."
	case AccionRegresoDescanso:
		detalle = "Debes registrar tu salida a descanso para poder regresar."
	case AccionSalida:
		detalle = "Debes registrar tu regreso de descanso para poder registrar tu salida."
	}
	return &Error{
		Codigo:  CodigoTransicionInvalida,
		Detalle: detalle,
		Accion:  accion,
		Estado:  estado,
	}
}
