package liquidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zapuscina/internal/model"
)

// LocalProvider and LocalModel stamp briefs produced by the heuristics here,
// so stored records always show where a recommendation came from.
const (
	LocalProvider = "local"
	LocalModel    = "heuristic-v1"
)

// Multipliers behind the net-proceeds estimates. Fees model marketplace cuts,
// the shipping penalty models packing cost and damage exposure.
const (
	feeRateStandard   = 0.25
	feeRateLowFee     = 0.20 // jewelry and high-value lots justify better venues
	shipPenaltyLow    = 0.02
	shipPenaltyHigh   = 0.08
	consignRate       = 0.62
	consignRateHigh   = 0.65 // optimistic bound if the consignor performs
	quickExitRate     = 0.75
	quickExitRateRisk = 0.70
	setTogetherBonus  = 0.03
)

const (
	confidenceBase = 0.70
	confidenceMin  = 0.45
	confidenceMax  = 0.90
)

// briefFacts is everything GenerateBrief derives from a request before
// assembling the output. Kept in one place so the decision steps read
// top-to-bottom.
type briefFacts struct {
	profile  Profile
	quantity int
	currency string

	likelyUnit    float64
	likelyTotal   float64
	lowTotal      float64
	highTotal     float64
	boundsAssumed bool

	tier Tier

	bulky         bool
	shipRisk      bool
	localFriendly bool

	isSet              bool
	keepTogetherStrong bool
	setIncomplete      bool

	goal            model.Goal
	localPickupOnly bool
	canShip         bool

	donate   bool
	hasPhoto bool
}

// GenerateBrief produces a liquidation brief from the request alone, with no
// network or storage access. Identical requests yield identical reasoning and
// steps; only timestamps and option IDs vary.
func GenerateBrief(req model.LiquidationBriefRequest) *model.LiquidationBrief {
	facts := deriveFacts(req)
	path := decidePath(facts)
	conf := confidence(facts)

	brief := &model.LiquidationBrief{
		SchemaVersion:   schemaVersionOr(req.SchemaVersion),
		Scope:           scopeOr(req.Scope, facts.isSet),
		GeneratedAt:     time.Now().UTC(),
		AIProvider:      LocalProvider,
		AIModel:         LocalModel,
		RecommendedPath: path,
		Reasoning:       reasoning(facts, req),
		PathOptions:     pathOptions(facts),
		ActionSteps:     briefSteps(path, facts),
		MissingDetails:  missingDetails(path, facts),
		Assumptions:     assumptions(facts),
		Confidence:      &conf,
		Inputs:          req.Inputs,
	}
	return brief
}

func schemaVersionOr(v int) int {
	if v <= 0 {
		return model.LiquidationSchemaVersion
	}
	return v
}

func scopeOr(s model.Scope, isSet bool) model.Scope {
	if s.Known() {
		return s
	}
	if isSet {
		return model.ScopeSet
	}
	return model.ScopeItem
}

func deriveFacts(req model.LiquidationBriefRequest) briefFacts {
	f := briefFacts{
		profile:  Classify(req.Category, req.Description),
		currency: req.CurrencyCode,
		canShip:  true,
		goal:     model.GoalBalanced,
	}
	if f.currency == "" {
		f.currency = "USD"
	}

	f.quantity = 1
	if req.Quantity != nil && *req.Quantity > 1 {
		f.quantity = *req.Quantity
	}

	if req.ValuationLikely != nil {
		f.likelyUnit = *req.ValuationLikely
	} else if req.UnitValue != nil {
		f.likelyUnit = *req.UnitValue
	}
	f.likelyTotal = f.likelyUnit * float64(f.quantity)

	f.isSet = req.Scope == model.ScopeSet || req.SetContext != nil
	if req.SetContext != nil && len(req.SetContext.MemberSummaries) > 0 {
		f.likelyTotal = 0
		for _, m := range req.SetContext.MemberSummaries {
			qty := 1
			if m.Quantity != nil && *m.Quantity > 1 {
				qty = *m.Quantity
			}
			unit := 0.0
			if m.UnitValue != nil {
				unit = *m.UnitValue
			}
			f.likelyTotal += unit * float64(qty)
		}
	}

	// Valuation bounds are per unit, like the likely valuation.
	if req.ValuationLow != nil {
		f.lowTotal = *req.ValuationLow * float64(f.quantity)
	} else {
		f.lowTotal = f.likelyTotal * 0.75
		f.boundsAssumed = true
	}
	if req.ValuationHigh != nil {
		f.highTotal = *req.ValuationHigh * float64(f.quantity)
	} else {
		f.highTotal = f.likelyTotal * 1.25
		f.boundsAssumed = true
	}

	desc := strings.ToLower(req.Description)
	f.bulky = f.profile.Bulky || containsAny(desc, bulkyKeywords) ||
		(f.profile.BulkyQtyThreshold > 0 && f.quantity >= f.profile.BulkyQtyThreshold)
	f.shipRisk = f.bulky || f.profile.ShippingRiskHigh
	f.localFriendly = f.profile.LocalFriendly || f.bulky

	adjusted := f.likelyTotal
	if f.profile.Kind == KindJewelry {
		adjusted *= jewelryTierAdjust
	}
	f.tier = tierFor(adjusted)

	if req.SetContext != nil {
		pref := flattenFlag(req.SetContext.SellTogetherPreference)
		f.keepTogetherStrong = strings.Contains(pref, "togetheronly") ||
			strings.Contains(pref, "togetherpreferred")
		f.setIncomplete = strings.Contains(strings.ToLower(req.SetContext.Completeness), "partial")
	}

	if req.Inputs != nil {
		if g := model.ParseGoal(string(req.Inputs.Goal)); g.Known() {
			f.goal = g
		}
		if c := req.Inputs.Constraints; c != nil {
			if c.LocalPickupOnly != nil {
				f.localPickupOnly = *c.LocalPickupOnly
			}
			if c.CanShip != nil {
				f.canShip = *c.CanShip
			}
		}
	}

	f.hasPhoto = req.PhotoJpegBase64 != ""
	f.donate = donationLikely(f, req)
	return f
}

// flattenFlag lowercases and strips separators so "together only",
// "together_only" and "togetherOnly" all compare equal.
func flattenFlag(s string) string {
	s = strings.ToLower(s)
	for _, sep := range []string{" ", "-", "_"} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

func donationLikely(f briefFacts, req model.LiquidationBriefRequest) bool {
	// An incomplete set meant to sell together is never donation-likely;
	// completeness has to be resolved before giving anything away.
	if f.setIncomplete && f.keepTogetherStrong {
		return false
	}
	if f.tier == TierMicro {
		return true
	}
	desc := strings.ToLower(req.Description)
	if f.tier == TierLow && f.profile.Kind == KindGeneral &&
		strings.Contains(desc, "used") && strings.Contains(desc, "worn") {
		return true
	}
	if containsAny(desc, hardToSellKeywords) && f.likelyTotal < 100 {
		return true
	}
	if f.quantity >= 10 && f.likelyTotal < 200 && f.profile.Kind == KindGeneral {
		return true
	}
	return false
}

// decidePath walks the decision table in order; the first matching row wins.
func decidePath(f briefFacts) model.Path {
	switch {
	case f.donate:
		return model.PathDonate
	case f.setIncomplete && f.keepTogetherStrong:
		return model.PathNeedsInfo
	case f.localPickupOnly:
		return model.PathQuickExit
	case !f.canShip && f.shipRisk:
		return model.PathQuickExit
	}

	switch f.goal {
	case model.GoalMinimizeEffort:
		return model.PathConsign
	case model.GoalFastestExit:
		return model.PathQuickExit
	case model.GoalMaximizeValue:
		if f.tier == TierHigh || f.tier == TierUltra {
			if f.shipRisk {
				return model.PathConsign
			}
			return model.PathMaximizePrice
		}
		if f.localFriendly {
			return model.PathQuickExit
		}
		return model.PathMaximizePrice
	default: // balanced
		if f.shipRisk || f.localFriendly {
			return model.PathQuickExit
		}
		if f.tier == TierMid || f.tier == TierHigh || f.tier == TierUltra {
			return model.PathMaximizePrice
		}
		return model.PathQuickExit
	}
}

// pathOptions always returns the three sale paths so the owner can compare
// them, whatever the recommendation is.
func pathOptions(f briefFacts) []model.PathOption {
	feeRate := feeRateStandard
	if f.profile.Kind == KindJewelry || f.tier == TierHigh || f.tier == TierUltra {
		feeRate = feeRateLowFee
	}
	shipPenalty := shipPenaltyLow
	if f.shipRisk {
		shipPenalty = shipPenaltyHigh
	}
	maxMult := 1 - feeRate - shipPenalty

	quickLow := quickExitRate
	if f.shipRisk {
		quickLow = quickExitRateRisk
	}
	quickHigh := quickLow
	if f.isSet && f.keepTogetherStrong {
		quickLow += setTogetherBonus
		quickHigh += setTogetherBonus
	}

	maxRisks := []string{"Longer time to sale", "Buyer negotiation and returns"}
	maxLogistics := "Pack carefully and insure shipments."
	maxTime := "2-6 weeks"
	if f.shipRisk {
		maxRisks = append(maxRisks, "Shipping damage or refused delivery")
		maxLogistics = "Favor local handoff; freight or white-glove if shipping."
		maxTime = "3-8 weeks"
	}

	options := []model.PathOption{
		{
			ID:             uuid.New().String(),
			Path:           model.PathMaximizePrice,
			Label:          "Sell it yourself at full market",
			NetProceeds:    scaleRange(f, maxMult, maxMult, maxMult),
			Effort:         model.EffortHigh,
			TimeEstimate:   maxTime,
			Risks:          maxRisks,
			LogisticsNotes: maxLogistics,
		},
		{
			ID:             uuid.New().String(),
			Path:           model.PathConsign,
			Label:          "Hand it to a consignor or dealer",
			NetProceeds:    scaleRange(f, consignRate, consignRate, consignRateHigh),
			Effort:         model.EffortLow,
			TimeEstimate:   "4-12 weeks",
			Risks:          []string{"Commission reduces proceeds", "Consignor sets the pace"},
			LogisticsNotes: "One drop-off or pickup appointment; consignor handles buyers.",
		},
		{
			ID:             uuid.New().String(),
			Path:           model.PathQuickExit,
			Label:          "Price for a fast local sale",
			NetProceeds:    scaleRange(f, quickLow, quickLow, quickHigh),
			Effort:         model.EffortMedium,
			TimeEstimate:   "3-10 days",
			Risks:          []string{"Leaves money on the table", "No-show buyers"},
			LogisticsNotes: "Local pickup keeps logistics trivial.",
		},
	}
	return options
}

func scaleRange(f briefFacts, lowMult, likelyMult, highMult float64) *model.MoneyRange {
	low := round2(f.lowTotal * lowMult)
	likely := round2(f.likelyTotal * likelyMult)
	high := round2(f.highTotal * highMult)
	return &model.MoneyRange{
		CurrencyCode: f.currency,
		Low:          &low,
		Likely:       &likely,
		High:         &high,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func reasoning(f briefFacts, req model.LiquidationBriefRequest) string {
	var sentences []string

	sentences = append(sentences, fmt.Sprintf(
		"Estimated value is %s %.2f likely (%.2f to %.2f) for quantity %d.",
		f.currency, f.likelyTotal, f.lowTotal, f.highTotal, f.quantity))

	switch f.goal {
	case model.GoalMaximizeValue:
		sentences = append(sentences, "The stated goal is to maximize sale value.")
	case model.GoalMinimizeEffort:
		sentences = append(sentences, "The stated goal is to minimize effort.")
	case model.GoalFastestExit:
		sentences = append(sentences, "The stated goal is the fastest possible exit.")
	default:
		sentences = append(sentences, "The stated goal balances value against effort.")
	}

	switch {
	case f.setIncomplete && f.keepTogetherStrong:
		sentences = append(sentences,
			"The set appears incomplete yet is meant to sell together, which blocks a confident recommendation.")
	case f.keepTogetherStrong:
		sentences = append(sentences, "The set should sell together for the best outcome.")
	case f.setIncomplete:
		sentences = append(sentences, "The set appears incomplete, which caps what buyers will pay.")
	}

	switch {
	case f.shipRisk:
		sentences = append(sentences,
			"Shipping is risky or costly for this category, so local buyers are favored.")
	case f.localFriendly:
		sentences = append(sentences,
			"It sells well locally, and shipping stays open as a fallback.")
	default:
		sentences = append(sentences, "It ships safely, which widens the buyer pool.")
	}

	sentences = append(sentences, f.profile.Note)
	return strings.Join(sentences, " ")
}

const (
	stepConfirmFacts = "Confirm item facts: title, condition, and quantity."
	stepConfirmSet   = "Confirm set completeness and whether members sell together."
)

func recommendedSuffix(path model.Path) string {
	return "AI recommended: " + string(path)
}

func briefSteps(path model.Path, f briefFacts) []string {
	steps := []string{stepConfirmFacts}
	if f.isSet {
		steps = append(steps, stepConfirmSet)
	}

	switch path {
	case model.PathMaximizePrice:
		steps = append(steps,
			"Research comparable sold listings to anchor the asking price.",
			"Photograph the item well and write an honest, detailed listing.",
			"List at the high end and adjust every two weeks until sold.")
	case model.PathConsign:
		steps = append(steps,
			"Shortlist two or three consignment shops or dealers nearby.",
			"Send photos and ask each for commission terms and timelines.",
			"Sign with the best terms and keep a copy of the agreement.")
	case model.PathQuickExit:
		steps = append(steps,
			"Take a few quick photos and write a short, honest description.",
			"Price below market and post to local marketplaces.",
			"Arrange a safe, public handoff with the first solid buyer.")
	case model.PathDonate:
		steps = append(steps,
			"Pick a donation destination that accepts this category.",
			"Schedule a drop-off or pickup.",
			"Keep the receipt for your records.")
	default: // needsInfo
		steps = append(steps,
			"Gather the missing details listed below.",
			"Update the catalog entry once you have them.",
			"Regenerate the brief with the fuller picture.")
	}

	steps = append(steps, recommendedSuffix(path))
	return steps
}

func missingDetails(path model.Path, f briefFacts) []string {
	details := []string{"Condition details and any damage or repairs"}
	if !f.hasPhoto {
		details = append(details, "A clear photo of the item")
	}
	if f.likelyUnit == 0 {
		details = append(details, "Any estimate of value or original purchase price")
	}
	switch f.profile.Kind {
	case KindJewelry:
		details = append(details, "Metal purity, stone details, and total weight")
	case KindRug:
		details = append(details, "Size, age, and whether it is hand-knotted")
	case KindFurniture:
		details = append(details, "Dimensions and any maker's marks")
	case KindElectronics:
		details = append(details, "Model number and whether it powers on")
	case KindArt:
		details = append(details, "Artist, provenance, and any signatures")
	case KindChinaCrystal:
		details = append(details, "Pattern name and an exact piece count")
	}
	if path == model.PathNeedsInfo && f.isSet {
		details = append(details, "Whether the set is complete and must stay together")
	}
	return details
}

func assumptions(f briefFacts) []string {
	out := []string{"Values are estimates from the description, not an appraisal."}
	if f.boundsAssumed {
		out = append(out, "Low and high bounds assume 75% to 125% of the likely value.")
	}
	if !f.hasPhoto {
		out = append(out, "No photo was reviewed.")
	}
	return out
}

func confidence(f briefFacts) float64 {
	c := confidenceBase
	if f.profile.Kind == KindJewelry {
		c += 0.05
	}
	if f.bulky || f.profile.Kind == KindRug {
		c -= 0.03
	}
	if f.isSet {
		c -= 0.02
	}
	switch f.tier {
	case TierMicro:
		c -= 0.05
	case TierMid:
		c += 0.02
	case TierHigh:
		c += 0.03
	case TierUltra:
		c -= 0.03
	}
	if c < confidenceMin {
		c = confidenceMin
	}
	if c > confidenceMax {
		c = confidenceMax
	}
	return round2(c)
}
