package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/erazemk/zapuscina/internal/model"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash-exp"

// GeminiClient generates briefs and plans by calling the Gemini API directly.
// Replies are requested as JSON and run through the normalization layer; a
// reply that fails to validate gets one repair re-prompt before giving up.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

var _ Provider = (*GeminiClient)(nil)

// NewGeminiClient dials the Gemini API. The returned client is safe for
// concurrent use and should be closed when the process shuts down.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is not set")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(0.2)
	m.SetTopP(0.8)
	m.SetTopK(40)
	m.SetMaxOutputTokens(4096)
	m.ResponseMIMEType = "application/json"

	return &GeminiClient{client: client, model: m, modelName: modelName}, nil
}

func (c *GeminiClient) Close() error { return c.client.Close() }

func (c *GeminiClient) Name() string { return "gemini" }

// GenerateBrief asks Gemini for a liquidation brief, attaching the request
// photo when present.
func (c *GeminiClient) GenerateBrief(ctx context.Context, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error) {
	var photo []byte
	if req.PhotoJpegBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.PhotoJpegBase64)
		if err != nil {
			return nil, fmt.Errorf("gemini: request photo is not valid base64: %w", err)
		}
		photo = decoded
	}

	prompt := briefPrompt(req)
	raw, err := c.generate(ctx, "brief", prompt, photo)
	if err != nil {
		return nil, err
	}

	brief, derr := DecodeBrief(raw, req)
	if derr != nil {
		repaired, err := c.generate(ctx, "brief repair", repairPrompt(prompt, raw, derr.Error(), "LiquidationBriefDTO"), photo)
		if err != nil {
			return nil, err
		}
		brief, err = DecodeBrief(repaired, req)
		if err != nil {
			return nil, &SchemaError{Op: "decoding brief", Err: derr}
		}
	}

	if brief.AIProvider == "" {
		brief.AIProvider = c.Name()
	}
	if brief.AIModel == "" {
		brief.AIModel = c.modelName
	}
	brief.SchemaVersion = schemaVersion(req.SchemaVersion)
	if !brief.Scope.Known() {
		brief.Scope = req.Scope
	}
	return brief, nil
}

// GeneratePlan asks Gemini for an operational checklist for the chosen path.
func (c *GeminiClient) GeneratePlan(ctx context.Context, req model.LiquidationPlanRequest) (*model.LiquidationPlan, error) {
	prompt := planPrompt(req)
	raw, err := c.generate(ctx, "plan", prompt, nil)
	if err != nil {
		return nil, err
	}

	plan, derr := DecodePlan(raw, req)
	if derr != nil {
		repaired, err := c.generate(ctx, "plan repair", repairPrompt(prompt, raw, derr.Error(), "LiquidationPlanChecklistDTO"), nil)
		if err != nil {
			return nil, err
		}
		plan, err = DecodePlan(repaired, req)
		if err != nil {
			return nil, &SchemaError{Op: "decoding plan", Err: derr}
		}
	}
	return plan, nil
}

// generate runs one model call and returns the reply text. Call failures are
// transport errors; a reply without a text part is a schema error.
func (c *GeminiClient) generate(ctx context.Context, op, prompt string, photo []byte) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	if len(photo) > 0 {
		parts = append(parts, genai.ImageData("jpeg", photo))
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &TransportError{Op: "gemini " + op, Err: err}
	}
	text, ok := responseText(resp)
	if !ok {
		return "", &SchemaError{Op: "gemini " + op, Err: fmt.Errorf("response has no text part")}
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				return string(text), true
			}
		}
	}
	return "", false
}

func briefPrompt(req model.LiquidationBriefRequest) string {
	title := req.Title
	if title == "" {
		title = "Untitled Item"
	}
	category := req.Category
	if category == "" {
		category = "Uncategorized"
	}
	qty := 1
	if req.Quantity != nil && *req.Quantity > 0 {
		qty = *req.Quantity
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	goal := "balanced"
	location := "none"
	if req.Inputs != nil {
		if req.Inputs.Goal != "" {
			goal = string(req.Inputs.Goal)
		}
		if req.Inputs.LocationHint != "" {
			location = req.Inputs.LocationHint
		}
	}

	return fmt.Sprintf(`You are an expert estate liquidation assistant.
Return STRICT JSON ONLY matching LiquidationBriefDTO. No markdown.

IMPORTANT:
- Return a FLAT JSON object (no wrapper key like "LiquidationBriefDTO").
- Do NOT nest the response under any extra keys.

Context:
- Scope: %s
- Title: %s
- Description: %s
- Category: %s
- Quantity: %d
- Goal: %s
- Location: %s
- Currency: %s

Rules:
- Always include: schemaVersion, scope, generatedAt, recommendedPath, reasoning, pathOptions, actionSteps.
- recommendedPath MUST be one of:
  pathA_maximizePrice | pathB_delegateConsign | pathC_quickExit | donate | needsInfo
- Include the primary A/B/C paths in pathOptions (plus donate/needsInfo when appropriate).
- pathOptions[].effort MUST be one of: low | medium | high | veryHigh
- pathOptions[].id MUST be a UUID string
`, req.Scope, title, req.Description, category, qty, goal, location, currency)
}

func planPrompt(req model.LiquidationPlanRequest) string {
	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	category := req.Category
	if category == "" {
		category = "Uncategorized"
	}

	steps := listBlock(req.Brief.ActionSteps)
	missing := listBlock(req.Brief.MissingDetails)

	return fmt.Sprintf(`You are an expert estate liquidation assistant.

Your job: generate an OPERATIONAL checklist plan for the user to execute.

Return STRICT JSON ONLY that matches LiquidationPlanChecklistDTO:
{
  "schemaVersion": 1,
  "createdAt": "ISO-8601 datetime",
  "items": [
    {
      "order": 1,
      "text": "step text",
      "isCompleted": false,
      "completedAt": null,
      "userNotes": null
    }
  ]
}

IMPORTANT:
- Return a FLAT JSON object (no wrapper key like "LiquidationPlanChecklistDTO").
- Do NOT nest the response under any extra keys.

Context:
- Scope: %s
- Title: %s
- Category: %s
- ChosenPath: %s

Brief context:
- recommendedPath: %s
- reasoning: %s

Brief actionSteps (context only):
%s

Missing details (ask user to collect early if relevant):
%s

Rules:
- Generate 10-16 steps.
- Steps must be specific, short, and sequential.
- Steps must reflect the chosenPath:
  - pathA_maximizePrice: comps, photos, listing quality, shipping/pickup decision, pricing strategy, relist cadence.
  - pathB_delegateConsign: shortlist consignors/dealers, intake packet, commission terms, agreement tracking, follow-ups.
  - pathC_quickExit: quick photos, honest description, fast pricing, safe local pickup rules.
  - donate: pick destination, receipt, record donation details.
  - needsInfo: gather missing details first, then regenerate brief.
- Do NOT include markdown. Do NOT include commentary.
Return JSON only.
`, req.Scope, title, category, req.ChosenPath, req.Brief.RecommendedPath, req.Brief.Reasoning, steps, missing)
}

// listBlock renders up to 20 entries as a bulleted block for prompt context.
func listBlock(entries []string) string {
	if len(entries) == 0 {
		return "(none)"
	}
	if len(entries) > 20 {
		entries = entries[:20]
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(e)
	}
	return b.String()
}

func repairPrompt(original, raw, validationErr, schemaName string) string {
	return fmt.Sprintf(`%s

The JSON you returned DID NOT validate against the %s schema.

Common mistakes to avoid:
- Do NOT wrap the JSON in a top-level key like %q.
- Return one FLAT object only.

Validation error:
%s

Your previous JSON:
%s

Return STRICT JSON ONLY that fixes the schema errors. No markdown. No backticks.
`, original, schemaName, schemaName, validationErr, raw)
}
