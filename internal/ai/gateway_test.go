package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erazemk/zapuscina/internal/model"
)

func TestGatewayGenerateBrief(t *testing.T) {
	var gotPath string
	var gotReq model.LiquidationBriefRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(model.LiquidationBrief{
			SchemaVersion:   1,
			RecommendedPath: model.PathConsign,
			Reasoning:       "Dealer territory.",
		})
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL+"/", 0)
	brief, err := client.GenerateBrief(context.Background(), model.LiquidationBriefRequest{
		SchemaVersion: 1,
		Scope:         model.ScopeItem,
		Title:         "Persian rug",
	})
	if err != nil {
		t.Fatalf("GenerateBrief: %v", err)
	}
	if gotPath != "/ai/generate-liquidation-brief" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Title != "Persian rug" {
		t.Errorf("request title = %q", gotReq.Title)
	}
	if brief.RecommendedPath != model.PathConsign {
		t.Errorf("path = %s", brief.RecommendedPath)
	}
}

func TestGatewayGeneratePlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/generate-liquidation-plan" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.LiquidationPlan{
			SchemaVersion: 1,
			Items:         []model.ChecklistItem{{Order: 1, Text: "Photograph it."}},
		})
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, 0)
	plan, err := client.GeneratePlan(context.Background(), model.LiquidationPlanRequest{SchemaVersion: 1})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Items) != 1 || plan.Items[0].Text != "Photograph it." {
		t.Errorf("plan = %+v", plan.Items)
	}
}

func TestGatewayServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, 0)
	_, err := client.GenerateBrief(context.Background(), model.LiquidationBriefRequest{})
	if !IsTransport(err) {
		t.Fatalf("err = %v, want transport", err)
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "model upstream exploded") {
		t.Errorf("err = %v, want status and body", err)
	}
}

func TestGatewayClientErrorIsSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request shape", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, 0)
	_, err := client.GenerateBrief(context.Background(), model.LiquidationBriefRequest{})
	if !IsSchema(err) {
		t.Fatalf("err = %v, want schema", err)
	}
	if IsTransport(err) {
		t.Error("schema error also reads as transport")
	}
}

func TestGatewayBadBodyIsSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, 0)
	if _, err := client.GenerateBrief(context.Background(), model.LiquidationBriefRequest{}); !IsSchema(err) {
		t.Fatalf("err = %v, want schema", err)
	}
}

func TestGatewayConnectionRefusedIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGatewayClient(srv.URL, 0)
	if _, err := client.GenerateBrief(context.Background(), model.LiquidationBriefRequest{}); !IsTransport(err) {
		t.Fatalf("err = %v, want transport", err)
	}
}
