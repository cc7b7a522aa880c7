package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// LiquidationSchemaVersion is the wire schema version for briefs and plans.
const LiquidationSchemaVersion = 1

// Payload tags stored alongside persisted liquidation payloads.
const (
	PayloadTagBrief = "brief.v1"
	PayloadTagPlan  = "plan.v1"
)

// Scope says whether a brief or plan covers a single item or a set.
type Scope string

// Scopes. ScopeUnknown absorbs unrecognized wire values.
const (
	ScopeItem    Scope = "item"
	ScopeSet     Scope = "set"
	ScopeUnknown Scope = ""
)

// ParseScope maps a wire string onto a known scope, or ScopeUnknown.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopeItem, ScopeSet:
		return Scope(s)
	}
	return ScopeUnknown
}

// Known reports whether the scope is one of the closed set.
func (s Scope) Known() bool {
	return ParseScope(string(s)) != ScopeUnknown
}

// Path identifies a disposal strategy.
type Path string

// Paths. PathUnknown absorbs unrecognized wire values.
const (
	PathMaximizePrice Path = "pathA_maximizePrice"
	PathConsign       Path = "pathB_delegateConsign"
	PathQuickExit     Path = "pathC_quickExit"
	PathDonate        Path = "donate"
	PathNeedsInfo     Path = "needsInfo"
	PathUnknown       Path = ""
)

// ParsePath maps a wire string onto a known path, or PathUnknown.
func ParsePath(s string) Path {
	switch Path(s) {
	case PathMaximizePrice, PathConsign, PathQuickExit, PathDonate, PathNeedsInfo:
		return Path(s)
	}
	return PathUnknown
}

// Known reports whether the path is one of the closed set.
func (p Path) Known() bool {
	return ParsePath(string(p)) != PathUnknown
}

// Effort grades how much work a path demands of the owner.
type Effort string

// Effort levels. EffortUnknown absorbs unrecognized wire values.
const (
	EffortLow      Effort = "low"
	EffortMedium   Effort = "medium"
	EffortHigh     Effort = "high"
	EffortVeryHigh Effort = "veryHigh"
	EffortUnknown  Effort = ""
)

// ParseEffort maps a wire string onto a known effort level, or EffortUnknown.
func ParseEffort(s string) Effort {
	switch Effort(s) {
	case EffortLow, EffortMedium, EffortHigh, EffortVeryHigh:
		return Effort(s)
	}
	return EffortUnknown
}

// Known reports whether the effort level is one of the closed set.
func (e Effort) Known() bool {
	return ParseEffort(string(e)) != EffortUnknown
}

// Goal is the owner's stated optimization target.
type Goal string

// Goals. GoalUnknown absorbs unrecognized wire values; decision logic treats
// it as GoalBalanced.
const (
	GoalMaximizeValue  Goal = "maximizeValue"
	GoalMinimizeEffort Goal = "minimizeEffort"
	GoalBalanced       Goal = "balanced"
	GoalFastestExit    Goal = "fastestExit"
	GoalUnknown        Goal = ""
)

// ParseGoal maps a wire string onto a known goal, or GoalUnknown.
func ParseGoal(s string) Goal {
	switch Goal(s) {
	case GoalMaximizeValue, GoalMinimizeEffort, GoalBalanced, GoalFastestExit:
		return Goal(s)
	}
	return GoalUnknown
}

// Known reports whether g names one of the recognized goals.
func (g Goal) Known() bool {
	return ParseGoal(string(g)) != GoalUnknown
}

// MoneyRange is a low/likely/high currency amount estimate.
type MoneyRange struct {
	CurrencyCode string   `json:"currencyCode"`
	Low          *float64 `json:"low,omitempty"`
	Likely       *float64 `json:"likely,omitempty"`
	High         *float64 `json:"high,omitempty"`
}

// LiquidationConstraints carry the owner's hard limits on a sale.
type LiquidationConstraints struct {
	LocalPickupOnly *bool      `json:"localPickupOnly,omitempty"`
	CanShip         *bool      `json:"canShip,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// LiquidationInputs echo the goal/constraints/location a brief was built from.
type LiquidationInputs struct {
	Goal         Goal                    `json:"goal,omitempty"`
	Constraints  *LiquidationConstraints `json:"constraints,omitempty"`
	LocationHint string                  `json:"locationHint,omitempty"`
}

// MemberSummary is the condensed view of one set member sent to the model.
type MemberSummary struct {
	Title     string   `json:"title,omitempty"`
	Category  string   `json:"category,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	UnitValue *float64 `json:"unitValue,omitempty"`
}

// SetContext describes the set a request covers.
type SetContext struct {
	SetName                string          `json:"setName,omitempty"`
	SetType                string          `json:"setType,omitempty"`
	Story                  string          `json:"story,omitempty"`
	SellTogetherPreference string          `json:"sellTogetherPreference,omitempty"`
	Completeness           string          `json:"completeness,omitempty"`
	MemberSummaries        []MemberSummary `json:"memberSummaries,omitempty"`
}

// LiquidationBriefRequest is the canonical generation request for one owner.
// All numeric fields are optional; generators default missing money to zero.
type LiquidationBriefRequest struct {
	SchemaVersion int   `json:"schemaVersion"`
	Scope         Scope `json:"scope"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	Quantity     *int     `json:"quantity,omitempty"`
	UnitValue    *float64 `json:"unitValue,omitempty"`
	CurrencyCode string   `json:"currencyCode,omitempty"`

	ValuationLow    *float64 `json:"valuationLow,omitempty"`
	ValuationLikely *float64 `json:"valuationLikely,omitempty"`
	ValuationHigh   *float64 `json:"valuationHigh,omitempty"`

	PhotoJpegBase64 string `json:"photoJpegBase64,omitempty"`

	SetContext *SetContext        `json:"setContext,omitempty"`
	Inputs     *LiquidationInputs `json:"inputs,omitempty"`
}

// PathOption models the expected outcome of one disposal strategy.
type PathOption struct {
	ID             string      `json:"id"`
	Path           Path        `json:"path"`
	Label          string      `json:"label"`
	NetProceeds    *MoneyRange `json:"netProceeds,omitempty"`
	Effort         Effort      `json:"effort"`
	TimeEstimate   string      `json:"timeEstimate,omitempty"`
	Risks          []string    `json:"risks"`
	LogisticsNotes string      `json:"logisticsNotes,omitempty"`
}

// LiquidationBrief is the generated recommendation for one owner.
type LiquidationBrief struct {
	SchemaVersion int       `json:"schemaVersion"`
	Scope         Scope     `json:"scope"`
	GeneratedAt   time.Time `json:"generatedAt"`
	AIProvider    string    `json:"aiProvider,omitempty"`
	AIModel       string    `json:"aiModel,omitempty"`

	RecommendedPath Path   `json:"recommendedPath"`
	Reasoning       string `json:"reasoning"`

	PathOptions []PathOption `json:"pathOptions"`
	ActionSteps []string     `json:"actionSteps"`

	MissingDetails []string `json:"missingDetails"`
	Assumptions    []string `json:"assumptions"`
	Confidence     *float64 `json:"confidence,omitempty"`

	Inputs *LiquidationInputs `json:"inputs,omitempty"`
}

// ChecklistItem is one step of a liquidation plan.
type ChecklistItem struct {
	Order       int        `json:"order"`
	Text        string     `json:"text"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UserNotes   string     `json:"userNotes,omitempty"`
}

// LiquidationPlan is the ordered checklist derived from a brief and a chosen path.
type LiquidationPlan struct {
	SchemaVersion int             `json:"schemaVersion"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []ChecklistItem `json:"items"`
}

// Completed reports whether the plan has steps and every step is done.
func (p *LiquidationPlan) Completed() bool {
	if len(p.Items) == 0 {
		return false
	}
	for _, it := range p.Items {
		if !it.IsCompleted {
			return false
		}
	}
	return true
}

// LiquidationPlanRequest asks for a plan for a chosen path, echoing the brief
// it is grounded on.
type LiquidationPlanRequest struct {
	SchemaVersion int              `json:"schemaVersion"`
	Scope         Scope            `json:"scope"`
	ChosenPath    Path             `json:"chosenPath"`
	Brief         LiquidationBrief `json:"brief"`
	Title         string           `json:"title,omitempty"`
	Category      string           `json:"category,omitempty"`
}

// Liquidation record kinds.
const (
	RecordKindBrief = "brief"
	RecordKindPlan  = "plan"
)

// Liquidation owner types.
const (
	LiquidationOwnerItem = "item"
	LiquidationOwnerSet  = "set"
)

// LiquidationRecord is one versioned brief or plan snapshot for an owner.
// Regeneration appends a new active record and deactivates prior ones;
// history is never deleted while the owner exists.
type LiquidationRecord struct {
	ID            string    `json:"id"`
	OwnerType     string    `json:"owner_type"`
	OwnerID       int64     `json:"owner_id"`
	Kind          string    `json:"kind"`
	SchemaVersion int       `json:"schema_version"`
	PayloadTag    string    `json:"payload_tag"`
	Payload       string    `json:"payload"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Workflow statuses for an owner's liquidation.
const (
	StatusNotStarted = "notStarted"
	StatusHasBrief   = "hasBrief"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
)

// CanonicalJSON encodes v with object keys sorted, so persisted payloads and
// CLI output are byte-stable for diffing.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalizing payload: %w", err)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("re-encoding payload: %w", err)
	}
	return out, nil
}
