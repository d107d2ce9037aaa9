// cmd/kiosco/main.go — Agente de captura para el kiosco de asistencia.
// Toma frames de la cámara del kiosco (un endpoint HTTP que sirve JPEG) y
// corre la captura contra el motor facial en uno de dos modos:
//   - chequeo: sesión en vivo (política de vida) y registro del chequeo.
//   - enrolamiento: una toma fija, validada y persistida como descriptor
//     del empleado indicado (requiere token de RH).
// Uso:
//
//	go run cmd/kiosco/main.go -accion entrada -token $JWT -lat 19.432608 -lon -99.133209
//	go run cmd/kiosco/main.go -modo enrolamiento -empleado <uuid> -token $JWT_RH
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/biometria"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/config"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		modo       = flag.String("modo", "chequeo", "chequeo | enrolamiento")
		accion     = flag.String("accion", "entrada", "entrada | salida_descanso | regreso_descanso | salida")
		empleado   = flag.String("empleado", "", "id del empleado a enrolar (modo enrolamiento)")
		token      = flag.String("token", os.Getenv("KIOSCO_TOKEN"), "JWT (empleado para chequeo, RH para enrolamiento)")
		lat        = flag.Float64("lat", 0, "latitud del kiosco")
		lon        = flag.Float64("lon", 0, "longitud del kiosco")
		backendURL = flag.String("backend", envOr("BACKEND_URL", "http://localhost:8000"), "URL del backend")
		camaraURL  = flag.String("camara", envOr("CAMARA_URL", "http://localhost:8080/frame.jpg"), "endpoint JPEG de la cámara")
	)
	flag.Parse()

	if *token == "" {
		log.Fatal().Msg("falta el token (-token o KIOSCO_TOKEN)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Cancelable con Ctrl-C: el empleado puede abandonar la captura.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	motor := infra.MotorFacial(cfg.MotorFacialURL)
	matcher := biometria.NewMatcher(biometria.Umbrales{
		Coincidencia: cfg.UmbralCoincidencia,
		Vida:         cfg.UmbralVida,
		VidaGesto:    cfg.UmbralVidaGesto,
	})

	httpClient := &http.Client{Timeout: 10 * time.Second}
	frames := func(ctx context.Context) ([]byte, error) {
		return tomarFrame(ctx, httpClient, *camaraURL)
	}

	switch *modo {
	case "chequeo":
		correrChequeo(ctx, cfg, motor, matcher, frames, httpClient, *backendURL, *token, *accion, *lat, *lon)
	case "enrolamiento":
		correrEnrolamiento(ctx, motor, matcher, frames, httpClient, *backendURL, *token, *empleado)
	default:
		log.Fatal().Str("modo", *modo).Msg("modo desconocido")
	}
}

func correrChequeo(
	ctx context.Context,
	cfg *config.Config,
	motor biometria.MotorFacial,
	matcher *biometria.Matcher,
	frames biometria.FuenteFrames,
	client *http.Client,
	backendURL, token, accion string,
	lat, lon float64,
) {
	sesion := biometria.NewSesionCaptura(motor, matcher, biometria.SesionCapturaConfig{
		Intervalo:   time.Duration(cfg.CapturaIntervaloMs) * time.Millisecond,
		MaxIntentos: cfg.CapturaMaxIntentos,
	})

	log.Info().Str("accion", accion).Msg("kiosco: iniciando captura en vivo")
	captura, err := sesion.Ejecutar(ctx, frames)
	if err != nil {
		log.Fatal().Err(err).Msg("kiosco: captura rechazada")
	}
	log.Info().Float64("puntaje_vida", captura.PuntajeVida).Msg("kiosco: captura aceptada")

	ahora := time.Now()
	req := dto.RegistrarChequeoRequest{
		Accion:     accion,
		Fecha:      ahora.Format("2006-01-02"),
		Hora:       ahora.Format("15:04:05"),
		Latitud:    lat,
		Longitud:   lon,
		Descriptor: captura.Descriptor,
	}
	if err := postJSON(ctx, client, backendURL+"/v1/chequeos", token, req, http.StatusCreated); err != nil {
		log.Fatal().Err(err).Msg("kiosco: el backend rechazó el chequeo")
	}
	fmt.Printf("✅ Chequeo '%s' registrado\n", accion)
}

// correrEnrolamiento takes one still in enrollment mode (a detected face with
// a descriptor is enough, no liveness demanded) and persists it as the
// employee's enrolled descriptor.
func correrEnrolamiento(
	ctx context.Context,
	motor biometria.MotorFacial,
	matcher *biometria.Matcher,
	frames biometria.FuenteFrames,
	client *http.Client,
	backendURL, token, empleadoID string,
) {
	if empleadoID == "" {
		log.Fatal().Msg("falta el id del empleado (-empleado)")
	}

	log.Info().Str("empleado", empleadoID).Msg("kiosco: tomando captura de enrolamiento")
	imagen, err := frames(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("kiosco: camara no disponible")
	}
	captura, err := motor.Detectar(ctx, imagen, biometria.ModoEnrolamiento)
	if err != nil {
		log.Fatal().Err(err).Msg("kiosco: motor facial no disponible")
	}
	if err := matcher.EvaluarEnrolamiento(captura); err != nil {
		log.Fatal().Err(err).Msg("kiosco: captura de enrolamiento rechazada")
	}

	req := dto.EnrolarDescriptorRequest{Descriptor: captura.Descriptor}
	url := backendURL + "/v1/empleados/" + empleadoID + "/descriptor"
	if err := postJSON(ctx, client, url, token, req, http.StatusNoContent); err != nil {
		log.Fatal().Err(err).Msg("kiosco: el backend rechazó el enrolamiento")
	}
	fmt.Printf("✅ Empleado %s enrolado\n", empleadoID)
}

func tomarFrame(ctx context.Context, client *http.Client, camaraURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, camaraURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("camara no disponible: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camara respondió %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func postJSON(ctx context.Context, client *http.Client, url, token string, payload any, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Detail string `json:"detail"`
			Codigo string `json:"codigo"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%d %s: %s", resp.StatusCode, apiErr.Codigo, apiErr.Detail)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
