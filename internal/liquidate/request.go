package liquidate

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/erazemk/zapuscina/internal/model"
)

// GenerateOptions carries the caller's intent for a generation run: the
// owner's goal, constraints, an optional location hint and an optional
// prepared JPEG to attach to the request.
type GenerateOptions struct {
	Goal         model.Goal
	Constraints  *model.LiquidationConstraints
	LocationHint string
	PhotoJPEG    []byte
}

func (o GenerateOptions) inputs() *model.LiquidationInputs {
	if o.Goal == "" && o.Constraints == nil && o.LocationHint == "" {
		return nil
	}
	return &model.LiquidationInputs{
		Goal:         o.Goal,
		Constraints:  o.Constraints,
		LocationHint: o.LocationHint,
	}
}

// BuildItemRequest snapshots a catalog item into a self-contained brief
// request. The request carries everything a generator needs, so generation
// stays independent of the catalog.
func BuildItemRequest(item *model.Item, opts GenerateOptions) model.LiquidationBriefRequest {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	currency := item.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	req := model.LiquidationBriefRequest{
		SchemaVersion:   model.LiquidationSchemaVersion,
		Scope:           model.ScopeItem,
		Title:           item.Title,
		Description:     item.Description,
		Category:        item.Category,
		Quantity:        &qty,
		UnitValue:       item.UnitValue,
		CurrencyCode:    currency,
		ValuationLow:    item.ValuationLow,
		ValuationLikely: item.ValuationLikely,
		ValuationHigh:   item.ValuationHigh,
		Inputs:          opts.inputs(),
	}
	if len(opts.PhotoJPEG) > 0 {
		req.PhotoJpegBase64 = base64.StdEncoding.EncodeToString(opts.PhotoJPEG)
	}
	return req
}

// BuildSetRequest snapshots a set and its members into a brief request.
// Member quantities prefer the per-set override and fall back to the item's
// own quantity. Closet lots get a compact narrative describing the lot.
func BuildSetRequest(set *model.ItemSet, members []model.SetMember, opts GenerateOptions) model.LiquidationBriefRequest {
	summaries := make([]model.MemberSummary, 0, len(members))
	totalQty := 0
	for _, m := range members {
		qty := m.ItemQuantity
		if m.Quantity != nil {
			qty = *m.Quantity
		}
		if qty < 1 {
			qty = 1
		}
		totalQty += qty
		mq := qty
		summaries = append(summaries, model.MemberSummary{
			Title:     m.ItemTitle,
			Category:  m.ItemCategory,
			Quantity:  &mq,
			UnitValue: m.ItemUnitValue,
		})
	}
	if totalQty < 1 {
		totalQty = 1
	}

	description := set.Story
	if set.SetType == model.SetTypeClosetLot {
		if note := closetLotNote(set); note != "" {
			if description != "" {
				description += " "
			}
			description += note
		}
	}

	return model.LiquidationBriefRequest{
		SchemaVersion: model.LiquidationSchemaVersion,
		Scope:         model.ScopeSet,
		Title:         set.Name,
		Description:   description,
		Category:      set.SetType,
		Quantity:      &totalQty,
		CurrencyCode:  "USD",
		SetContext: &model.SetContext{
			SetName:                set.Name,
			SetType:                set.SetType,
			Story:                  set.Story,
			SellTogetherPreference: set.SellTogetherPreference,
			Completeness:           set.Completeness,
			MemberSummaries:        summaries,
		},
		Inputs: opts.inputs(),
	}
}

// closetLotNote folds the closet-specific fields into one sentence so
// generators that only read the description still see the lot's shape.
func closetLotNote(set *model.ItemSet) string {
	var parts []string
	if set.ClosetItemCount != nil {
		parts = append(parts, fmt.Sprintf("approx. %d items", *set.ClosetItemCount))
	}
	if set.ClosetSizeBand != "" {
		parts = append(parts, "sizes "+set.ClosetSizeBand)
	}
	if set.ClosetConditionBand != "" {
		parts = append(parts, "condition "+set.ClosetConditionBand)
	}
	if set.ClosetBrands != "" {
		parts = append(parts, "brands: "+set.ClosetBrands)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Closet lot: " + strings.Join(parts, "; ") + "."
}
