package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"herd-treatment-log/internal/platform/httpclient"
	"herd-treatment-log/internal/ports/syncremote"
)

var (
	ErrNotConfigured = errors.New("sync remote not configured")
	ErrRejected      = errors.New("sync remote rejected batch")
)

// Config del cliente del remoto de sincronización.
// BaseURL y APIKey normalmente vienen de env vars en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde va la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client implementa syncremote.Transport contra una API HTTP real.
// También implementa ConnectivityProber tocando el health del remoto.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

var (
	_ syncremote.Transport          = (*Client)(nil)
	_ syncremote.ConnectivityProber = (*Client)(nil)
)

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

type pushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Push manda el batch completo en un solo request. El remoto responde solo
// éxito/fracaso; cualquier no-2xx o success=false cuenta como fracaso y el
// ciclo entero queda para reintentar.
func (c *Client) Push(ctx context.Context, b syncremote.Batch) error {
	var out pushResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/v1/treatments/sync", c.headers(), b, &out); err != nil {
		return err
	}
	if !out.Success {
		if out.Message != "" {
			return errors.New(out.Message)
		}
		return ErrRejected
	}
	return nil
}

// Online prueba conectividad contra el health del remoto con un timeout
// corto. Cualquier respuesta (aunque sea error HTTP) cuenta como online;
// solo el fallo de red cuenta como offline.
func (c *Client) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := c.http.DoJSON(ctx, http.MethodGet, "/health", nil, nil, nil)
	if err == nil {
		return true
	}
	var httpErr *httpclient.HTTPError
	return errors.As(err, &httpErr)
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{c.apiKeyHeader: c.apiKey}
}
