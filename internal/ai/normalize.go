package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zapuscina/internal/model"
)

var (
	openFenceRe  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

// CleanModelJSON extracts the first complete JSON object from model output,
// tolerating markdown fences and surrounding prose.
func CleanModelJSON(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	t = openFenceRe.ReplaceAllString(t, "")
	t = closeFenceRe.ReplaceAllString(t, "")
	span, ok := firstJSONObject(t)
	if !ok {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return span, nil
}

// firstJSONObject returns the first balanced {...} span, honoring string
// literals and escapes so braces inside values do not confuse the depth count.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Models sometimes nest the payload under a wrapper key. These are the
// wrappers seen in practice; anything ending in "DTO" also counts.
var wrapperKeys = map[string]bool{
	"brief":             true,
	"plan":              true,
	"item":              true,
	"data":              true,
	"result":            true,
	"response":          true,
	"payload":           true,
	"output":            true,
	"liquidationBrief":  true,
	"liquidation_brief": true,
}

// unwrap descends through up to two levels of single-key wrapper objects and
// returns the innermost payload object.
func unwrap(doc any) (map[string]any, bool) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	for range 2 {
		if len(m) != 1 {
			break
		}
		var key string
		for k := range m {
			key = k
		}
		if !wrapperKeys[key] && !strings.HasSuffix(key, "DTO") {
			break
		}
		inner, ok := m[key].(map[string]any)
		if !ok {
			break
		}
		m = inner
	}
	return m, true
}

var pathAliases = map[string]model.Path{
	"patha_maximizeprice":     model.PathMaximizePrice,
	"path_a_maximize_price":   model.PathMaximizePrice,
	"maximizeprice":           model.PathMaximizePrice,
	"maximize_value":          model.PathMaximizePrice,
	"pathb_delegateconsign":   model.PathConsign,
	"path_b_delegate_consign": model.PathConsign,
	"delegateconsign":         model.PathConsign,
	"minimize_effort":         model.PathConsign,
	"pathc_quickexit":         model.PathQuickExit,
	"path_c_quick_exit":       model.PathQuickExit,
	"quickexit":               model.PathQuickExit,
	"fastestexit":             model.PathQuickExit,
	"donation":                model.PathDonate,
}

// NormalizePath folds drifted path spellings onto the canonical wire ids.
// Unrecognized values pass through trimmed, for validation to reject.
func NormalizePath(s string) string {
	trimmed := strings.TrimSpace(s)
	key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(trimmed, " ", ""), "-", "_"))
	if p, ok := pathAliases[key]; ok {
		return string(p)
	}
	return trimmed
}

var effortAliases = map[string]model.Effort{
	"veryhigh":  model.EffortVeryHigh,
	"very_high": model.EffortVeryHigh,
	"vh":        model.EffortVeryHigh,
	"med":       model.EffortMedium,
}

// NormalizeEffort folds drifted effort spellings onto the canonical wire ids.
func NormalizeEffort(s string) string {
	trimmed := strings.TrimSpace(s)
	key := strings.ToLower(trimmed)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	if e, ok := effortAliases[key]; ok {
		return string(e)
	}
	return trimmed
}

// DecodeBrief shapes raw model output into a validated brief: clean the text,
// unwrap wrappers, normalize enums, stamp derivable fields, then decode.
func DecodeBrief(raw string, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error) {
	m, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	if _, ok := m["schemaVersion"]; !ok {
		m["schemaVersion"] = schemaVersion(req.SchemaVersion)
	}
	if _, ok := m["scope"].(string); !ok {
		m["scope"] = string(req.Scope)
	}
	ensureTimestamp(m, "generatedAt")
	if s, ok := m["recommendedPath"].(string); ok {
		m["recommendedPath"] = NormalizePath(s)
	}
	if opts, ok := m["pathOptions"].([]any); ok {
		for _, o := range opts {
			om, ok := o.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := om["id"].(string); id == "" {
				om["id"] = uuid.New().String()
			}
			if s, ok := om["path"].(string); ok {
				om["path"] = NormalizePath(s)
			}
			if s, ok := om["effort"].(string); ok {
				om["effort"] = NormalizeEffort(s)
			}
			if om["risks"] == nil {
				om["risks"] = []any{}
			}
		}
	}
	for _, k := range []string{"pathOptions", "actionSteps", "missingDetails", "assumptions"} {
		if m[k] == nil {
			m[k] = []any{}
		}
	}

	var brief model.LiquidationBrief
	if err := redecode(m, &brief); err != nil {
		return nil, fmt.Errorf("decoding brief: %w", err)
	}
	if brief.Inputs == nil {
		brief.Inputs = req.Inputs
	}
	if err := validateBrief(&brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// DecodePlan shapes raw model output into a validated plan checklist.
func DecodePlan(raw string, req model.LiquidationPlanRequest) (*model.LiquidationPlan, error) {
	m, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	if _, ok := m["schemaVersion"]; !ok {
		m["schemaVersion"] = schemaVersion(req.SchemaVersion)
	}
	ensureTimestamp(m, "createdAt")
	if m["items"] == nil {
		m["items"] = []any{}
	}
	if items, ok := m["items"].([]any); ok {
		for idx, it := range items {
			im, ok := it.(map[string]any)
			if !ok {
				continue
			}
			// Orders are reassigned sequentially; toggles address steps by
			// order, so duplicates from the model are not acceptable.
			im["order"] = idx + 1
			if s, ok := im["completedAt"].(string); ok {
				if _, err := time.Parse(time.RFC3339, s); err != nil {
					delete(im, "completedAt")
				}
			}
		}
	}

	var plan model.LiquidationPlan
	if err := redecode(m, &plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if err := validatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func decodeObject(raw string) (map[string]any, error) {
	clean, err := CleanModelJSON(raw)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal([]byte(clean), &doc); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}
	m, ok := unwrap(doc)
	if !ok {
		return nil, fmt.Errorf("model output is not a JSON object")
	}
	return m, nil
}

func redecode(m map[string]any, dst any) error {
	buf, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func schemaVersion(v int) int {
	if v <= 0 {
		return model.LiquidationSchemaVersion
	}
	return v
}

// ensureTimestamp replaces a missing or unparseable timestamp with now, so a
// model that drops or mangles the field does not fail the whole reply.
func ensureTimestamp(m map[string]any, key string) {
	if s, ok := m[key].(string); ok {
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return
		}
	}
	m[key] = time.Now().UTC().Format(time.RFC3339)
}

func validateBrief(b *model.LiquidationBrief) error {
	if !b.RecommendedPath.Known() {
		return fmt.Errorf("unknown recommended path %q", b.RecommendedPath)
	}
	if strings.TrimSpace(b.Reasoning) == "" {
		return fmt.Errorf("brief has no reasoning")
	}
	if b.Confidence != nil && (*b.Confidence < 0 || *b.Confidence > 1) {
		return fmt.Errorf("confidence %v out of range", *b.Confidence)
	}
	for i, opt := range b.PathOptions {
		if !opt.Path.Known() {
			return fmt.Errorf("path option %d: unknown path %q", i, opt.Path)
		}
		if !opt.Effort.Known() {
			return fmt.Errorf("path option %d: unknown effort %q", i, opt.Effort)
		}
	}
	return nil
}

func validatePlan(p *model.LiquidationPlan) error {
	if len(p.Items) == 0 {
		return fmt.Errorf("plan has no checklist items")
	}
	for i, item := range p.Items {
		if strings.TrimSpace(item.Text) == "" {
			return fmt.Errorf("checklist item %d has no text", i)
		}
	}
	return nil
}
