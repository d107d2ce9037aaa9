//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests for the checador backend using real
// Postgres (with pgvector) + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Full attendance day (enroll → entrada → descanso → regreso → salida)
//   T-E2E-2: Pipeline rejections (identity, geofence, out-of-order)
//   T-E2E-3: Composite unique index rejects a concurrent duplicate insert
//   T-E2E-4: Late arrival is accepted as retardo_mayor and alerts HR
//   T-E2E-5: Daily report request lands on the job queue

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/config"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/router"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// descriptor128 builds a 128-dim embedding matching the vector(128) column.
// The seed shifts a couple of components so different people stay far apart
// in cosine distance while re-captures of the same person stay close.
func descriptor128(seed float32) []float32 {
	d := make([]float32, 128)
	for i := range d {
		d[i] = 0.1
	}
	d[0] = seed
	d[1] = -seed
	return d
}

// Geofence center used across the suite.
const (
	sedeLat = 19.432608
	sedeLon = -99.133209
)

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	adminToken string
	engine     *gin.Engine
	db         *gorm.DB
	rdb        *redis.Client

	ubicacionID uuid.UUID
	turnoID     uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container (pgvector build: the empleados.descriptor
	// column needs the vector extension).
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("pgvector/pgvector:pg16"),
		tcPostgres.WithDatabase("checador_test"),
		tcPostgres.WithUsername("checador"),
		tcPostgres.WithPassword("checador"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	// Build config
	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		JWTSecret:            "test-secret-key",
		JWTExpirationHours:   8,
		JWTRefreshHours:      24,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		MotorFacialURL:       "http://localhost:9999", // unused: descriptors arrive pre-analyzed
		UmbralCoincidencia:   0.35,
		UmbralVida:           0.90,
		UmbralVidaGesto:      0.60,
		ToleranciaRetardoMin: 10,
		WorkerPoolSize:       1,
		EmailRH:              "rh@e2e.test",
		PDFStoragePath:       t.TempDir(),
	}

	// Connect DB (NewDatabase runs AutoMigrate + schema patches)
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed geofence, shift and admin account directly; the API has no
	// CRUD surface for sites and shifts.
	ubicacion := model.Ubicacion{Nombre: "Oficina E2E", Latitud: sedeLat, Longitud: sedeLon, RadioMetros: 100, Activo: true}
	require.NoError(t, db.Create(&ubicacion).Error)

	turno := model.Turno{Nombre: "Matutino E2E", Entrada: "09:00", SalidaDescanso: "13:00", RegresoDescanso: "14:00", Salida: "18:00"}
	require.NoError(t, db.Create(&turno).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("checador2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := model.Empleado{
		Username:     "admin@e2e.test",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	require.NoError(t, db.Create(&admin).Error)

	// Build router
	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Login as admin
	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "checador2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server:      srv,
		adminToken:  loginBody.AccessToken,
		engine:      r,
		db:          db,
		rdb:         rdb,
		ubicacionID: ubicacion.ID,
		turnoID:     turno.ID,
	}
}

// crearEmpleadoEnrolado creates an employee through the API, enrolls the given
// descriptor and returns (id, employee JWT).
func crearEmpleadoEnrolado(t *testing.T, env *testEnv, username string, descriptor []float32) (string, string) {
	t.Helper()

	crearResp := do(t, env.server, "POST", "/v1/empleados",
		jsonBody(t, map[string]any{
			"username":     username,
			"nombre":       "Empleado E2E",
			"password":     "empleado123",
			"rol":          "empleado",
			"ubicacion_id": env.ubicacionID.String(),
			"turno_id":     env.turnoID.String(),
		}), env.adminToken)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	var emp struct {
		ID string `json:"id"`
	}
	decodeJSON(t, crearResp, &emp)

	enrolResp := do(t, env.server, "POST", "/v1/empleados/"+emp.ID+"/descriptor",
		jsonBody(t, map[string]any{"descriptor": descriptor}), env.adminToken)
	require.Equal(t, http.StatusNoContent, enrolResp.StatusCode)
	enrolResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": "empleado123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)

	return emp.ID, loginBody.AccessToken
}

func registrarChequeo(t *testing.T, env *testEnv, token, accion, fecha, hora string, lat, lon float64, descriptor []float32) *http.Response {
	t.Helper()
	return do(t, env.server, "POST", "/v1/chequeos",
		jsonBody(t, map[string]any{
			"accion":     accion,
			"fecha":      fecha,
			"hora":       hora,
			"latitud":    lat,
			"longitud":   lon,
			"descriptor": descriptor,
		}), token)
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: Full attendance day
func TestE2E_DiaCompletoDeChequeos(t *testing.T) {
	env := setupTestEnv(t)

	enrolado := descriptor128(0.9)
	vivo := descriptor128(0.88) // same person, slightly different capture
	_, token := crearEmpleadoEnrolado(t, env, "dia.completo@e2e.test", enrolado)

	fecha := "2026-03-02"
	pasos := []struct {
		accion      string
		hora        string
		puntualidad string
	}{
		{"entrada", "08:58:00", "a_tiempo"},
		{"salida_descanso", "13:02:00", "a_tiempo"},
		{"regreso_descanso", "14:05:00", "a_tiempo"},
		{"salida", "18:01:00", "a_tiempo"},
	}

	for _, paso := range pasos {
		resp := registrarChequeo(t, env, token, paso.accion, fecha, paso.hora, sedeLat, sedeLon, vivo)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "accion %s", paso.accion)
		var reg struct {
			Accion      string  `json:"accion"`
			Puntualidad *string `json:"puntualidad"`
		}
		decodeJSON(t, resp, &reg)
		assert.Equal(t, paso.accion, reg.Accion)
		require.NotNil(t, reg.Puntualidad)
		assert.Equal(t, paso.puntualidad, *reg.Puntualidad)
	}

	// Day view: complete, no next action
	hoyResp := do(t, env.server, "GET", "/v1/chequeos/hoy?fecha="+fecha, nil, token)
	require.Equal(t, http.StatusOK, hoyResp.StatusCode)
	var dia struct {
		Estado    string `json:"estado"`
		Siguiente string `json:"siguiente_accion"`
		Registros []any  `json:"registros"`
	}
	decodeJSON(t, hoyResp, &dia)
	assert.Equal(t, "turno_completo", dia.Estado)
	assert.Empty(t, dia.Siguiente)
	assert.Len(t, dia.Registros, 4)

	// A fifth attempt is rejected: the day is closed
	quintoResp := registrarChequeo(t, env, token, "entrada", fecha, "18:30:00", sedeLat, sedeLon, vivo)
	require.Equal(t, http.StatusConflict, quintoResp.StatusCode)
	var rechazo struct {
		Codigo string `json:"codigo"`
	}
	decodeJSON(t, quintoResp, &rechazo)
	assert.Equal(t, "turno_completo", rechazo.Codigo)

	// History covers the whole day
	histResp := do(t, env.server, "GET", "/v1/chequeos/historial?desde="+fecha+"&hasta="+fecha, nil, token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var hist struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, histResp, &hist)
	assert.EqualValues(t, 4, hist.Total)
}

// T-E2E-2: Pipeline rejections
func TestE2E_RechazosDelPipeline(t *testing.T) {
	env := setupTestEnv(t)

	enrolado := descriptor128(0.9)
	vivo := descriptor128(0.88)
	_, token := crearEmpleadoEnrolado(t, env, "rechazos@e2e.test", enrolado)

	fecha := "2026-03-03"

	// Someone else's face: dissimilarity above threshold
	impostor := descriptor128(-0.9)
	resp := registrarChequeo(t, env, token, "entrada", fecha, "09:00:00", sedeLat, sedeLon, impostor)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var rechazo struct {
		Codigo string `json:"codigo"`
	}
	decodeJSON(t, resp, &rechazo)
	assert.Equal(t, "identidad_no_verificada", rechazo.Codigo)

	// Right face, wrong place: ~5.5 km north of the geofence
	resp = registrarChequeo(t, env, token, "entrada", fecha, "09:00:00", sedeLat+0.05, sedeLon, vivo)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	decodeJSON(t, resp, &rechazo)
	assert.Equal(t, "fuera_de_rango", rechazo.Codigo)

	// Out of order: salida with an empty ledger
	resp = registrarChequeo(t, env, token, "salida", fecha, "18:00:00", sedeLat, sedeLon, vivo)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	decodeJSON(t, resp, &rechazo)
	assert.Equal(t, "transicion_invalida", rechazo.Codigo)

	// Nothing was persisted by the rejected attempts
	var count int64
	require.NoError(t, env.db.Model(&model.RegistroChequeo{}).Where("fecha = ?", fecha).Count(&count).Error)
	assert.Zero(t, count)
}

// T-E2E-3: The composite unique index is the authority against duplicates
func TestE2E_IndiceUnicoRechazaDuplicado(t *testing.T) {
	env := setupTestEnv(t)

	id, _ := crearEmpleadoEnrolado(t, env, "duplicado@e2e.test", descriptor128(0.9))
	empleadoID, err := uuid.Parse(id)
	require.NoError(t, err)

	fila := model.RegistroChequeo{
		EmpleadoID: empleadoID,
		Fecha:      "2026-03-04",
		Tipo:       "entrada",
		Hora:       "09:00:00",
		Latitud:    sedeLat,
		Longitud:   sedeLon,
	}
	require.NoError(t, env.db.Create(&fila).Error)

	duplicada := model.RegistroChequeo{
		EmpleadoID: empleadoID,
		Fecha:      "2026-03-04",
		Tipo:       "entrada",
		Hora:       "09:00:05",
		Latitud:    sedeLat,
		Longitud:   sedeLon,
	}
	err = env.db.Create(&duplicada).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

// T-E2E-4: retardo_mayor is accepted and an HR alert lands on the queue
func TestE2E_RetardoMayorNotificaRH(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, token := crearEmpleadoEnrolado(t, env, "retardo@e2e.test", descriptor128(0.9))

	// 25 minutes after shift start, past the 10-minute tolerance
	resp := registrarChequeo(t, env, token, "entrada", "2026-03-05", "09:25:00", sedeLat, sedeLon, descriptor128(0.88))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		Puntualidad *string `json:"puntualidad"`
	}
	decodeJSON(t, resp, &reg)
	require.NotNil(t, reg.Puntualidad)
	assert.Equal(t, "retardo_mayor", *reg.Puntualidad)

	n, err := env.rdb.LLen(ctx, worker.QueueNotificacion).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// T-E2E-5: daily report request is queued for the worker pool
func TestE2E_ReporteDiarioEncolado(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	resp := do(t, env.server, "POST", "/v1/reportes/diario",
		jsonBody(t, map[string]any{"fecha": "2026-03-06"}), env.adminToken)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var rep struct {
		Encolado  bool   `json:"encolado"`
		Solicitud string `json:"solicitud_id"`
	}
	decodeJSON(t, resp, &rep)
	assert.True(t, rep.Encolado)
	assert.NotEmpty(t, rep.Solicitud)

	n, err := env.rdb.LLen(ctx, worker.QueueReporte).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
