package infra

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/biometria"
)

// motorFacialRequest is sent to the face engine sidecar. The sidecar loads the
// embedding model and returns detection, liveness and gesture signals.
type motorFacialRequest struct {
	Imagen string `json:"imagen"` // base64-encoded frame
	Modo   string `json:"modo"`   // "enrolamiento" | "vivo"
}

// MotorFacialHTTP delegates face analysis to the Python sidecar that hosts the
// embedding model. The model is too heavy to load per request, so the sidecar
// keeps it resident and this client stays stateless.
type MotorFacialHTTP struct {
	sidecarURL string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewMotorFacialHTTP(sidecarURL string, cb *CircuitBreaker) *MotorFacialHTTP {
	return &MotorFacialHTTP{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (c *MotorFacialHTTP) Breaker() *CircuitBreaker { return c.cb }

// Detectar sends one frame to the sidecar and returns the analyzed capture.
// Calls go through the circuit breaker: while the sidecar is down the capture
// loop fails fast instead of stacking 30s timeouts.
func (c *MotorFacialHTTP) Detectar(ctx context.Context, imagen []byte, modo biometria.Modo) (*biometria.Captura, error) {
	var captura biometria.Captura
	err := c.cb.Execute(func() error {
		return c.detectar(ctx, imagen, modo, &captura)
	})
	if err != nil {
		return nil, err
	}
	return &captura, nil
}

func (c *MotorFacialHTTP) detectar(ctx context.Context, imagen []byte, modo biometria.Modo, out *biometria.Captura) error {
	body, err := json.Marshal(motorFacialRequest{
		Imagen: base64.StdEncoding.EncodeToString(imagen),
		Modo:   string(modo),
	})
	if err != nil {
		return fmt.Errorf("motor facial: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/detectar", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("motor facial: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("motor facial: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("motor facial: sidecar returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("motor facial: decode response: %w", err)
	}
	return nil
}

// ── Lazy singleton ────────────────────────────────────────────────────────────
// The engine client (and its breaker state) is shared process-wide and built on
// first use, so workers and handlers see the same breaker.

var (
	motorOnce sync.Once
	motorInst *MotorFacialHTTP
)

// MotorFacial returns the shared sidecar client, constructing it on first call.
// Safe for concurrent use.
func MotorFacial(sidecarURL string) *MotorFacialHTTP {
	motorOnce.Do(func() {
		motorInst = NewMotorFacialHTTP(sidecarURL, NewCircuitBreaker(DefaultCBConfig()))
	})
	return motorInst
}
