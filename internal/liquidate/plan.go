package liquidate

import (
	"time"

	"github.com/erazemk/zapuscina/internal/model"
)

const stepReviewBrief = "Review the brief and the recommended path."

// Step templates per path. The needsInfo template only gathers information;
// it never tells the owner to list, price, or hand anything over.
var planStepTemplates = map[model.Path][]string{
	model.PathMaximizePrice: {
		"Research comparable sold listings and pick an asking price.",
		"Take well-lit photos from every side, including flaws.",
		"Write a detailed listing with honest condition notes.",
		"Decide between shipping and local pickup, and cost it out.",
		"Publish the listing and respond to questions within a day.",
		"Adjust the price or relist every two weeks until it sells.",
	},
	model.PathConsign: {
		"Shortlist two or three consignment shops or dealers.",
		"Prepare an intake packet: photos, provenance, and your floor price.",
		"Compare commission rates, contract length, and payout terms.",
		"Sign the agreement and keep a copy with the intake receipt.",
		"Check in on sale progress every few weeks.",
	},
	model.PathQuickExit: {
		"Take a few quick photos in good light.",
		"Write a short, honest description with dimensions.",
		"Price below market so it moves within days.",
		"Post to local marketplaces with pickup-only terms.",
		"Arrange a safe, public handoff and a simple payment method.",
	},
	model.PathDonate: {
		"Choose a donation destination that accepts this category.",
		"Confirm drop-off hours or schedule a pickup.",
		"Get an itemized donation receipt.",
		"Record the donation against the catalog entry.",
	},
	model.PathNeedsInfo: {
		"Gather the missing details the brief called out.",
		"Check for marks, labels, serial numbers, or documentation.",
		"Photograph anything that identifies maker or provenance.",
		"Regenerate the brief once the gaps are filled.",
	},
}

// GeneratePlan expands a chosen path into an actionable checklist using only
// the request. An unknown chosen path falls back to the brief's
// recommendation, and failing that to information gathering, so the generator
// always returns a usable plan.
func GeneratePlan(req model.LiquidationPlanRequest) *model.LiquidationPlan {
	path := model.ParsePath(string(req.ChosenPath))
	if !path.Known() {
		path = model.ParsePath(string(req.Brief.RecommendedPath))
	}
	if !path.Known() {
		path = model.PathNeedsInfo
	}

	texts := []string{stepConfirmFacts}
	if req.Scope == model.ScopeSet {
		texts = append(texts, stepConfirmSet)
	}
	texts = append(texts, stepReviewBrief)
	texts = append(texts, planStepTemplates[path]...)
	texts = append(texts, recommendedSuffix(path))

	items := make([]model.ChecklistItem, len(texts))
	for i, text := range texts {
		items[i] = model.ChecklistItem{Order: i + 1, Text: text}
	}

	return &model.LiquidationPlan{
		SchemaVersion: schemaVersionOr(req.SchemaVersion),
		CreatedAt:     time.Now().UTC(),
		Items:         items,
	}
}
