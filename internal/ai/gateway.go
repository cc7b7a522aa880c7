package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/zapuscina/internal/model"
)

// DefaultGatewayTimeout bounds one gateway round trip. Model calls behind
// the gateway can take most of a minute.
const DefaultGatewayTimeout = 60 * time.Second

// errSnippetLimit caps how much of an error body gets copied into messages.
const errSnippetLimit = 800

// GatewayClient generates briefs and plans through an external AI gateway
// that speaks the liquidation wire protocol.
type GatewayClient struct {
	baseURL string
	http    *http.Client
}

var _ Provider = (*GatewayClient)(nil)

// NewGatewayClient points a client at a gateway base URL such as
// "https://gateway.example.com". A non-positive timeout gets the default.
func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &GatewayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *GatewayClient) Name() string { return "gateway" }

func (c *GatewayClient) GenerateBrief(ctx context.Context, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error) {
	var brief model.LiquidationBrief
	if err := c.post(ctx, "/ai/generate-liquidation-brief", req, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

func (c *GatewayClient) GeneratePlan(ctx context.Context, req model.LiquidationPlanRequest) (*model.LiquidationPlan, error) {
	var plan model.LiquidationPlan
	if err := c.post(ctx, "/ai/generate-liquidation-plan", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// post sends one JSON request and decodes the JSON reply. Connection problems
// and 5xx replies are transport errors; 4xx replies and undecodable bodies are
// schema errors.
func (c *GatewayClient) post(ctx context.Context, path string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Op: "gateway " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &TransportError{
			Op:  "gateway " + path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, errSnippet(resp.Body)),
		}
	}
	if resp.StatusCode >= 400 {
		return &SchemaError{
			Op:  "gateway " + path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, errSnippet(resp.Body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &SchemaError{Op: "gateway " + path, Err: fmt.Errorf("decoding reply: %w", err)}
	}
	return nil
}

func errSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, errSnippetLimit))
	return strings.TrimSpace(string(b))
}
