package ai

import (
	"strings"
	"testing"

	"github.com/erazemk/zapuscina/internal/model"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`Here is the brief: {"a":1} hope that helps!`, `{"a":1}`},
		{`{"text":"closing } brace and \" quote"}`, `{"text":"closing } brace and \" quote"}`},
		{`{"outer":{"inner":{"x":1}}}`, `{"outer":{"inner":{"x":1}}}`},
	}
	for _, tt := range tests {
		got, err := CleanModelJSON(tt.raw)
		if err != nil {
			t.Errorf("CleanModelJSON(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "no json here", `{"unterminated": "value`} {
		if _, err := CleanModelJSON(raw); err == nil {
			t.Errorf("CleanModelJSON(%q) succeeded", raw)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pathA_maximizePrice", "pathA_maximizePrice"},
		{"Path A - Maximize Price", "pathA_maximizePrice"},
		{"maximize_value", "pathA_maximizePrice"},
		{"delegateConsign", "pathB_delegateConsign"},
		{"minimize_effort", "pathB_delegateConsign"},
		{"quickExit", "pathC_quickExit"},
		{"fastestExit", "pathC_quickExit"},
		{"  pathC_quickExit  ", "pathC_quickExit"},
		{"donation", "donate"},
		{"donate", "donate"},
		{"needsInfo", "needsInfo"},
		{"flea market", "flea market"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEffort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Very High", "veryHigh"},
		{"very-high", "veryHigh"},
		{"very_high", "veryHigh"},
		{"VH", "veryHigh"},
		{"med", "medium"},
		{"low", "low"},
		{"herculean", "herculean"},
	}
	for _, tt := range tests {
		if got := NormalizeEffort(tt.in); got != tt.want {
			t.Errorf("NormalizeEffort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func briefReq() model.LiquidationBriefRequest {
	return model.LiquidationBriefRequest{
		SchemaVersion: model.LiquidationSchemaVersion,
		Scope:         model.ScopeItem,
		Title:         "Omega Seamaster",
		Inputs:        &model.LiquidationInputs{Goal: model.GoalMaximizeValue},
	}
}

func TestDecodeBriefStampsDerivableFields(t *testing.T) {
	raw := `{"recommendedPath":"maximize_value","reasoning":"Strong resale market."}`
	brief, err := DecodeBrief(raw, briefReq())
	if err != nil {
		t.Fatalf("DecodeBrief: %v", err)
	}

	if brief.SchemaVersion != model.LiquidationSchemaVersion {
		t.Errorf("schema version = %d", brief.SchemaVersion)
	}
	if brief.Scope != model.ScopeItem {
		t.Errorf("scope = %s", brief.Scope)
	}
	if brief.GeneratedAt.IsZero() {
		t.Error("generatedAt not stamped")
	}
	if brief.RecommendedPath != model.PathMaximizePrice {
		t.Errorf("path = %s", brief.RecommendedPath)
	}
	if brief.Inputs == nil || brief.Inputs.Goal != model.GoalMaximizeValue {
		t.Errorf("inputs not echoed: %+v", brief.Inputs)
	}
	if brief.ActionSteps == nil || brief.Assumptions == nil || brief.MissingDetails == nil {
		t.Error("list fields left nil")
	}
}

func TestDecodeBriefUnwraps(t *testing.T) {
	inner := `{"recommendedPath":"donate","reasoning":"Low value."}`
	wrapped := []string{
		`{"liquidationBriefDTO":` + inner + `}`,
		`{"brief":` + inner + `}`,
		`{"data":{"result":` + inner + `}}`,
	}
	for _, raw := range wrapped {
		brief, err := DecodeBrief(raw, briefReq())
		if err != nil {
			t.Errorf("DecodeBrief(%q): %v", raw, err)
			continue
		}
		if brief.RecommendedPath != model.PathDonate {
			t.Errorf("DecodeBrief(%q) path = %s", raw, brief.RecommendedPath)
		}
	}
}

func TestDecodeBriefNormalizesOptions(t *testing.T) {
	raw := `{
		"recommendedPath": "quickExit",
		"reasoning": "Bulky and local.",
		"confidence": 0.7,
		"pathOptions": [
			{"path": "delegateConsign", "label": "Consign it", "effort": "Very High"},
			{"id": "keep-me", "path": "pathC_quickExit", "label": "Quick sale", "effort": "low", "risks": null}
		]
	}`
	brief, err := DecodeBrief(raw, briefReq())
	if err != nil {
		t.Fatalf("DecodeBrief: %v", err)
	}
	if len(brief.PathOptions) != 2 {
		t.Fatalf("options = %d", len(brief.PathOptions))
	}

	first := brief.PathOptions[0]
	if first.ID == "" {
		t.Error("missing option id not filled")
	}
	if first.Path != model.PathConsign || first.Effort != model.EffortVeryHigh {
		t.Errorf("option = %s/%s", first.Path, first.Effort)
	}

	second := brief.PathOptions[1]
	if second.ID != "keep-me" {
		t.Errorf("supplied id replaced: %q", second.ID)
	}
	if second.Risks == nil || len(second.Risks) != 0 {
		t.Errorf("risks = %v, want empty list", second.Risks)
	}
}

func TestDecodeBriefRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown path", `{"recommendedPath":"ebay","reasoning":"x"}`},
		{"no reasoning", `{"recommendedPath":"donate","reasoning":"  "}`},
		{"confidence out of range", `{"recommendedPath":"donate","reasoning":"x","confidence":1.4}`},
		{"bad option path", `{"recommendedPath":"donate","reasoning":"x","pathOptions":[{"path":"barter","label":"l","effort":"low"}]}`},
		{"bad option effort", `{"recommendedPath":"donate","reasoning":"x","pathOptions":[{"path":"donate","label":"l","effort":"herculean"}]}`},
		{"not an object", `[1,2,3]`},
	}
	for _, tt := range tests {
		if _, err := DecodeBrief(tt.raw, briefReq()); err == nil {
			t.Errorf("%s: decode succeeded", tt.name)
		}
	}
}

func TestDecodeBriefFencedWithProse(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n```json\n" +
		`{"recommendedPath":"pathA_maximizePrice","reasoning":"Collector demand."}` +
		"\n```\nLet me know if you need anything else."
	brief, err := DecodeBrief(raw, briefReq())
	if err != nil {
		t.Fatalf("DecodeBrief: %v", err)
	}
	if brief.RecommendedPath != model.PathMaximizePrice {
		t.Errorf("path = %s", brief.RecommendedPath)
	}
}

func planDecodeReq() model.LiquidationPlanRequest {
	return model.LiquidationPlanRequest{
		SchemaVersion: model.LiquidationSchemaVersion,
		Scope:         model.ScopeItem,
		ChosenPath:    model.PathQuickExit,
	}
}

func TestDecodePlanReassignsOrders(t *testing.T) {
	raw := `{"items":[
		{"order": 3, "text": "First"},
		{"order": 3, "text": "Second", "isCompleted": true, "completedAt": "2026-01-05T10:00:00Z"},
		{"order": 7, "text": "Third", "completedAt": "whenever"}
	]}`
	plan, err := DecodePlan(raw, planDecodeReq())
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	if len(plan.Items) != 3 {
		t.Fatalf("items = %d", len(plan.Items))
	}
	for i, item := range plan.Items {
		if item.Order != i+1 {
			t.Errorf("item %d order = %d", i, item.Order)
		}
	}
	if !plan.Items[1].IsCompleted || plan.Items[1].CompletedAt == nil {
		t.Errorf("completion lost: %+v", plan.Items[1])
	}
	if plan.Items[2].CompletedAt != nil {
		t.Errorf("garbage completedAt kept: %v", plan.Items[2].CompletedAt)
	}
	if plan.SchemaVersion != model.LiquidationSchemaVersion {
		t.Errorf("schema version = %d", plan.SchemaVersion)
	}
	if plan.CreatedAt.IsZero() {
		t.Error("createdAt not stamped")
	}
}

func TestDecodePlanRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no items key", `{"schemaVersion":1}`},
		{"empty items", `{"items":[]}`},
		{"blank step", `{"items":[{"order":1,"text":"ok"},{"order":2,"text":"  "}]}`},
	}
	for _, tt := range tests {
		if _, err := DecodePlan(tt.raw, planDecodeReq()); err == nil {
			t.Errorf("%s: decode succeeded", tt.name)
		}
	}
}

func TestDecodePlanWrapped(t *testing.T) {
	raw := `{"liquidationPlanChecklistDTO":{"items":[{"text":"Only step"}]}}`
	plan, err := DecodePlan(raw, planDecodeReq())
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	if len(plan.Items) != 1 || plan.Items[0].Order != 1 {
		t.Errorf("plan = %+v", plan.Items)
	}
	if !strings.Contains(plan.Items[0].Text, "Only step") {
		t.Errorf("text = %q", plan.Items[0].Text)
	}
}
