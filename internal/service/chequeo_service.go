package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/biometria"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/geo"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/horario"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/repository"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/worker"
)

const cacheDiaTTL = 5 * time.Minute

type ChequeoService interface {
	RegistrarChequeo(ctx context.Context, empleadoID uuid.UUID, req dto.RegistrarChequeoRequest) (*dto.ChequeoResponse, error)
	Dia(ctx context.Context, empleadoID uuid.UUID, fecha string) (*dto.DiaResponse, error)
	Historial(ctx context.Context, empleadoID uuid.UUID, q dto.HistorialChequeosQuery) (*dto.HistorialResponse, error)
	SolicitarReporteDiario(ctx context.Context, req dto.ReporteDiarioRequest) (*dto.ReporteDiarioResponse, error)
}

type chequeoService struct {
	empleadoRepo  repository.EmpleadoRepository
	chequeoRepo   repository.ChequeoRepository
	matcher       *biometria.Matcher
	rdb           *redis.Client
	dispatcher    *worker.Dispatcher
	toleranciaMin int
	reglas        chequeo.Reglas
}

func NewChequeoService(
	empleadoRepo repository.EmpleadoRepository,
	chequeoRepo repository.ChequeoRepository,
	matcher *biometria.Matcher,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	toleranciaMin int,
	reglas chequeo.Reglas,
) ChequeoService {
	return &chequeoService{
		empleadoRepo:  empleadoRepo,
		chequeoRepo:   chequeoRepo,
		matcher:       matcher,
		rdb:           rdb,
		dispatcher:    dispatcher,
		toleranciaMin: toleranciaMin,
		reglas:        reglas,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarChequeo ──────────────────────────────────────────────────────────
// One check-in attempt, fail-fast in this order:
//   1. Identity   — enrolled descriptor vs the live capture's descriptor
//   2. Geofence   — distance to the assigned site within its radius
//   3. Sequence   — the action is legal given today's ledger (re-derived now)
//   4. Punctuality — classified against the assigned shift (annotation only)
//   5. Persist    — single insert; the unique index settles concurrent races
// No partial writes: a rejection at any stage leaves the ledger untouched.

func (s *chequeoService) RegistrarChequeo(ctx context.Context, empleadoID uuid.UUID, req dto.RegistrarChequeoRequest) (*dto.ChequeoResponse, error) {
	accion := chequeo.Accion(req.Accion)
	if !accion.Valida() {
		return nil, errors.New("accion desconocida")
	}

	// A capture without a descriptor fails before anything else is consulted.
	if len(req.Descriptor) == 0 {
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoSinDescriptor,
			Detalle: "No se recibió la captura facial. Intente nuevamente.",
		}
	}

	emp, err := s.empleadoRepo.FindConAsignaciones(ctx, empleadoID)
	if err != nil {
		return nil, errors.New("empleado no encontrado")
	}

	// 1. Identity
	if emp.Descriptor == nil {
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoSinDescriptor,
			Detalle: "No tienes un rostro enrolado. Acude a Recursos Humanos.",
		}
	}
	puntaje, err := s.matcher.VerificarIdentidad(req.Descriptor, emp.Descriptor.Slice())
	if err != nil {
		return nil, err
	}

	// 2. Geofence
	if emp.UbicacionID == nil {
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoSinUbicacionAsignada,
			Detalle: "No tienes una ubicación de trabajo asignada.",
		}
	}
	if emp.Ubicacion == nil {
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoErrorUbicacion,
			Detalle: "No se pudo consultar tu ubicación de trabajo. Intenta de nuevo.",
		}
	}
	distancia := geo.DistanciaMetros(req.Latitud, req.Longitud, emp.Ubicacion.Latitud, emp.Ubicacion.Longitud)
	if distancia > emp.Ubicacion.RadioMetros {
		s.notificar(ctx, emp, string(accion), req.Fecha, req.Hora, "fuera_de_rango",
			"Intento de registro fuera del rango permitido.")
		return nil, &chequeo.Error{
			Codigo:          chequeo.CodigoFueraDeRango,
			Detalle:         "Estás fuera del rango permitido para registrar asistencia.",
			DistanciaMetros: distancia,
		}
	}

	// 3. Sequence — always re-derived from the persisted ledger, never cached
	registros, err := s.chequeoRepo.ListarPorDia(ctx, empleadoID, req.Fecha)
	if err != nil {
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoErrorPersistencia,
			Detalle: "No se pudieron consultar tus registros del día.",
		}
	}
	estado := chequeo.DerivarEstado(accionesDe(registros))
	if err := chequeo.ValidarAccion(estado, accion, s.reglas); err != nil {
		return nil, err
	}

	// 4. Punctuality (annotation only — never blocks the check-in)
	var puntualidad *string
	if emp.Turno != nil {
		if clase, ok := clasificarPuntualidad(accion, req.Hora, emp.Turno, s.toleranciaMin); ok {
			puntualidad = &clase
		}
	}

	// 5. Persist
	reg := &model.RegistroChequeo{
		EmpleadoID:          empleadoID,
		Fecha:               req.Fecha,
		Tipo:                string(accion),
		Hora:                req.Hora,
		Puntualidad:         puntualidad,
		Latitud:             req.Latitud,
		Longitud:            req.Longitud,
		ExactitudGeografica: req.Exactitud,
		DistanciaMetros:     distancia,
		PuntajeBiometrico:   puntaje,
	}
	txErr := runTx(ctx, s.chequeoRepo.DB(), func(tx *gorm.DB) error {
		return s.chequeoRepo.Insertar(ctx, tx, reg)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			// Lost a concurrent race: someone persisted this (fecha, tipo)
			// between the read and the insert. Re-derive for the exact message.
			if regs, err := s.chequeoRepo.ListarPorDia(ctx, empleadoID, req.Fecha); err == nil {
				if verr := chequeo.ValidarAccion(chequeo.DerivarEstado(accionesDe(regs)), accion, s.reglas); verr != nil {
					return nil, verr
				}
			}
			return nil, &chequeo.Error{
				Codigo:  chequeo.CodigoTransicionInvalida,
				Detalle: "Este registro ya existe.",
				Accion:  accion,
				Estado:  estado,
			}
		}
		return nil, &chequeo.Error{
			Codigo:  chequeo.CodigoErrorPersistencia,
			Detalle: "No se pudo guardar tu registro. Intenta de nuevo.",
		}
	}

	// The cached day view is now stale.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, infra.ClaveDia(empleadoID.String(), req.Fecha)).Err(); err != nil {
			log.Warn().Err(err).Msg("chequeo: cache invalidation failed")
		}
	}

	if puntualidad != nil && *puntualidad == string(horario.RetardoMayor) {
		s.notificar(ctx, emp, string(accion), req.Fecha, req.Hora, "retardo_mayor",
			"Registro aceptado con retardo mayor.")
	}

	return registroToResponse(reg), nil
}

// notificar enqueues an HR alert. Best effort: a full queue never blocks or
// fails the check-in itself.
func (s *chequeoService) notificar(ctx context.Context, emp *model.Empleado, accion, fecha, hora, motivo, detalle string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.NotificacionJobPayload{
		EmpleadoID: emp.ID.String(),
		Nombre:     emp.Nombre,
		Accion:     accion,
		Fecha:      fecha,
		Hora:       hora,
		Motivo:     motivo,
		Detalle:    detalle,
	}
	if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
		log.Warn().Err(err).Str("motivo", motivo).Msg("chequeo: failed to enqueue notificacion")
	}
}

// clasificarPuntualidad picks the expected shift time for the action and the
// matching classifier: arrivals (entrada, regreso de descanso) get the delay
// ladder, exits (salida, salida a descanso) only flag early departure.
func clasificarPuntualidad(accion chequeo.Accion, hora string, turno *model.Turno, toleranciaMin int) (string, bool) {
	var clase horario.Puntualidad
	var err error
	switch accion {
	case chequeo.AccionEntrada:
		clase, err = horario.ClasificarLlegada(hora, turno.Entrada, toleranciaMin)
	case chequeo.AccionRegresoDescanso:
		clase, err = horario.ClasificarLlegada(hora, turno.RegresoDescanso, toleranciaMin)
	case chequeo.AccionSalidaDescanso:
		clase, err = horario.ClasificarSalida(hora, turno.SalidaDescanso)
	case chequeo.AccionSalida:
		clase, err = horario.ClasificarSalida(hora, turno.Salida)
	default:
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("accion", string(accion)).Msg("chequeo: turno con hora inválida")
		return "", false
	}
	return string(clase), true
}

func accionesDe(registros []model.RegistroChequeo) []chequeo.Accion {
	acciones := make([]chequeo.Accion, len(registros))
	for i, r := range registros {
		acciones[i] = chequeo.Accion(r.Tipo)
	}
	return acciones
}

// ── Dia ───────────────────────────────────────────────────────────────────────

// Dia returns the day view: the ledger plus the derived state and next legal
// action. Served from Redis when fresh; every accepted check-in invalidates it.
func (s *chequeoService) Dia(ctx context.Context, empleadoID uuid.UUID, fecha string) (*dto.DiaResponse, error) {
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}

	clave := infra.ClaveDia(empleadoID.String(), fecha)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, clave).Result(); err == nil {
			var cached dto.DiaResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	registros, err := s.chequeoRepo.ListarPorDia(ctx, empleadoID, fecha)
	if err != nil {
		return nil, err
	}

	estado := chequeo.DerivarEstado(accionesDe(registros))
	resp := &dto.DiaResponse{
		Fecha:     fecha,
		Estado:    string(estado),
		Siguiente: string(chequeo.SiguienteAccion(estado)),
		Registros: make([]dto.ChequeoResponse, len(registros)),
	}
	for i := range registros {
		resp.Registros[i] = *registroToResponse(&registros[i])
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, clave, data, cacheDiaTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("chequeo: cache write failed")
			}
		}
	}
	return resp, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *chequeoService) Historial(ctx context.Context, empleadoID uuid.UUID, q dto.HistorialChequeosQuery) (*dto.HistorialResponse, error) {
	if q.Limit < 1 {
		q.Limit = 50
	}
	registros, total, err := s.chequeoRepo.ListarHistorial(ctx, empleadoID, q)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialResponse{
		Total:     total,
		Registros: make([]dto.ChequeoResponse, len(registros)),
	}
	for i := range registros {
		resp.Registros[i] = *registroToResponse(&registros[i])
	}
	return resp, nil
}

// ── SolicitarReporteDiario ────────────────────────────────────────────────────

// SolicitarReporteDiario enqueues an on-demand daily report job; rendering and
// delivery happen in the worker pool.
func (s *chequeoService) SolicitarReporteDiario(ctx context.Context, req dto.ReporteDiarioRequest) (*dto.ReporteDiarioResponse, error) {
	if s.dispatcher == nil {
		return nil, errors.New("cola de trabajos no disponible")
	}
	payload := worker.ReporteJobPayload{Fecha: req.Fecha}
	if req.Destinatario != nil {
		payload.Destinatario = *req.Destinatario
	}
	if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
		return nil, err
	}
	return &dto.ReporteDiarioResponse{
		Fecha:     req.Fecha,
		Encolado:  true,
		Mensaje:   "El reporte se enviará por correo en unos minutos.",
		Solicitud: uuid.NewString(),
	}, nil
}

func registroToResponse(r *model.RegistroChequeo) *dto.ChequeoResponse {
	return &dto.ChequeoResponse{
		ID:                r.ID.String(),
		Accion:            r.Tipo,
		Fecha:             r.Fecha,
		Hora:              r.Hora,
		Puntualidad:       r.Puntualidad,
		DistanciaMetros:   r.DistanciaMetros,
		PuntajeBiometrico: r.PuntajeBiometrico,
	}
}
