package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarChequeoRequest is one check-in attempt. The descriptor comes from
// the live capture already accepted by the liveness policy on the device; the
// server re-verifies it against the enrollment before anything else.
type RegistrarChequeoRequest struct {
	Accion string `json:"accion" validate:"required,oneof=entrada salida_descanso regreso_descanso salida"`
	// Fecha "YYYY-MM-DD" and Hora "HH:MM:SS" are the device clock at capture.
	Fecha      string    `json:"fecha"      validate:"required,datetime=2006-01-02"`
	Hora       string    `json:"hora"       validate:"required,datetime=15:04:05"`
	Latitud    float64   `json:"latitud"    validate:"min=-90,max=90"`
	Longitud   float64   `json:"longitud"   validate:"min=-180,max=180"`
	Exactitud *float64 `json:"exactitud"  validate:"omitempty,min=0"`
	// Descriptor deliberately has no required tag: a missing capture must
	// surface as the coded sin_descriptor rejection, not a validation envelope.
	Descriptor []float32 `json:"descriptor"`
}

type HistorialChequeosQuery struct {
	Desde  string `form:"desde"  validate:"omitempty,datetime=2006-01-02"`
	Hasta  string `form:"hasta"  validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `form:"limit"  validate:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

type ReporteDiarioRequest struct {
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
	// Destinatario overrides the configured HR address when set.
	Destinatario *string `json:"destinatario" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChequeoResponse struct {
	ID     string `json:"id"`
	Accion string `json:"accion"`
	Fecha  string `json:"fecha"`
	Hora   string `json:"hora"`
	// Puntualidad is nil when the employee has no shift to compare against.
	Puntualidad       *string `json:"puntualidad"`
	DistanciaMetros   float64 `json:"distancia_metros"`
	PuntajeBiometrico float64 `json:"puntaje_biometrico"`
}

// DiaResponse is the day view: the ledger so far plus the derived state and
// the next legal action, so the client never guesses the button label.
type DiaResponse struct {
	Fecha     string            `json:"fecha"`
	Estado    string            `json:"estado"`
	Siguiente string            `json:"siguiente_accion"` // "" when the day is complete
	Registros []ChequeoResponse `json:"registros"`
}

type HistorialResponse struct {
	Total     int64             `json:"total"`
	Registros []ChequeoResponse `json:"registros"`
}

type ReporteDiarioResponse struct {
	Fecha     string `json:"fecha"`
	Encolado  bool   `json:"encolado"`
	Mensaje   string `json:"mensaje"`
	Solicitud string `json:"solicitud_id"`
}
