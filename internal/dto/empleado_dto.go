package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEmpleadoRequest struct {
	Username    string  `json:"username"     validate:"required,min=1,max=150"`
	Nombre      string  `json:"nombre"       validate:"required,min=2,max=100"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Password    string  `json:"password"     validate:"required,min=8"`
	Rol         string  `json:"rol"          validate:"required,oneof=empleado rh administrador"`
	UbicacionID *string `json:"ubicacion_id" validate:"omitempty,uuid"`
	TurnoID     *string `json:"turno_id"     validate:"omitempty,uuid"`
}

type ActualizarEmpleadoRequest struct {
	Nombre      string  `json:"nombre"       validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Rol         string  `json:"rol"          validate:"omitempty,oneof=empleado rh administrador"`
	UbicacionID *string `json:"ubicacion_id" validate:"omitempty,uuid"`
	TurnoID     *string `json:"turno_id"     validate:"omitempty,uuid"`
	Password    string  `json:"password"     validate:"omitempty,min=8"`
}

// EnrolarDescriptorRequest carries the enrollment still, already analyzed by
// the face engine on the client, as a raw descriptor.
type EnrolarDescriptorRequest struct {
	Descriptor []float32 `json:"descriptor" validate:"required,min=2"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmpleadoResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Nombre      string  `json:"nombre"`
	Email       *string `json:"email"`
	Rol         string  `json:"rol"`
	Enrolado    bool    `json:"enrolado"`
	UbicacionID *string `json:"ubicacion_id"`
	TurnoID     *string `json:"turno_id"`
	Activo      bool    `json:"activo"`
}

type UbicacionResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Latitud     float64 `json:"latitud"`
	Longitud    float64 `json:"longitud"`
	RadioMetros float64 `json:"radio_metros"`
}

type TurnoResponse struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Entrada         string `json:"entrada"`
	SalidaDescanso  string `json:"salida_descanso"`
	RegresoDescanso string `json:"regreso_descanso"`
	Salida          string `json:"salida"`
}
