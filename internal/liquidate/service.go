// Package liquidate turns catalog entries into liquidation briefs and plans.
// The generators in this package are pure; Service wires them to storage and
// to an optional remote provider.
package liquidate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/zapuscina/internal/ai"
	"github.com/erazemk/zapuscina/internal/imaging"
	"github.com/erazemk/zapuscina/internal/model"
	"github.com/erazemk/zapuscina/internal/store"
)

// Sentinel errors callers translate into API responses.
var (
	ErrOwnerNotFound         = errors.New("owner not found")
	ErrNoBrief               = errors.New("no brief exists for this owner")
	ErrNoPlan                = errors.New("no plan exists for this owner")
	ErrBriefNeedsInfo        = errors.New("brief needs more information before planning")
	ErrUnknownPath           = errors.New("unknown liquidation path")
	ErrCorruptPayload        = errors.New("stored payload cannot be decoded")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

// Toggles exposes the runtime switches generation consults on every run.
type Toggles interface {
	RemoteAIEnabled(ctx context.Context) bool
	VerboseLogging(ctx context.Context) bool
}

// Service orchestrates generation and persistence for items and sets.
// Remote generation gets exactly one attempt per run; transport failures fall
// back to the local heuristics, schema failures on briefs are surfaced.
type Service struct {
	DB       *sql.DB
	Provider ai.Provider // nil disables remote generation
	Toggles  Toggles
	Log      *slog.Logger
}

// NewService wires a service. A nil logger falls back to slog.Default.
func NewService(db *sql.DB, provider ai.Provider, toggles Toggles, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{DB: db, Provider: provider, Toggles: toggles, Log: log}
}

// State is an owner's current liquidation snapshot: derived workflow status
// plus the active brief and plan, when present.
type State struct {
	Status        string                  `json:"status"`
	BriefRecordID string                  `json:"brief_record_id,omitempty"`
	Brief         *model.LiquidationBrief `json:"brief,omitempty"`
	PlanRecordID  string                  `json:"plan_record_id,omitempty"`
	Plan          *model.LiquidationPlan  `json:"plan,omitempty"`
}

// GenerateBrief builds a request from the owner's current catalog entry, runs
// generation, and persists the result as the new active brief.
func (s *Service) GenerateBrief(ctx context.Context, ownerType string, ownerID int64, opts GenerateOptions) (*model.LiquidationBrief, *model.LiquidationRecord, error) {
	req, err := s.buildRequest(ctx, ownerType, ownerID, opts)
	if err != nil {
		return nil, nil, err
	}

	brief, err := s.obtainBrief(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.saveBrief(ctx, ownerType, ownerID, brief)
	if err != nil {
		return nil, nil, err
	}
	return brief, rec, nil
}

// GeneratePlan expands the owner's active brief into a checklist for the
// chosen path and persists it as the new active plan. All preconditions are
// checked before any remote call.
func (s *Service) GeneratePlan(ctx context.Context, ownerType string, ownerID int64, chosen model.Path) (*model.LiquidationPlan, *model.LiquidationRecord, error) {
	if !chosen.Known() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownPath, chosen)
	}

	title, category, err := s.ownerLabels(ctx, ownerType, ownerID)
	if err != nil {
		return nil, nil, err
	}

	briefRec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindBrief)
	if err != nil {
		return nil, nil, err
	}
	if briefRec == nil {
		return nil, nil, ErrNoBrief
	}
	var brief model.LiquidationBrief
	if err := json.Unmarshal([]byte(briefRec.Payload), &brief); err != nil {
		return nil, nil, fmt.Errorf("%w: brief record %s: %v", ErrCorruptPayload, briefRec.ID, err)
	}
	if brief.RecommendedPath == model.PathNeedsInfo {
		return nil, nil, ErrBriefNeedsInfo
	}

	req := model.LiquidationPlanRequest{
		SchemaVersion: model.LiquidationSchemaVersion,
		Scope:         scopeForOwner(ownerType),
		ChosenPath:    chosen,
		Brief:         brief,
		Title:         title,
		Category:      category,
	}

	plan := s.obtainPlan(ctx, req)

	payload, err := model.CanonicalJSON(plan)
	if err != nil {
		return nil, nil, err
	}
	rec, err := store.SaveRecord(ctx, s.DB, &model.LiquidationRecord{
		OwnerType:     ownerType,
		OwnerID:       ownerID,
		Kind:          model.RecordKindPlan,
		SchemaVersion: plan.SchemaVersion,
		PayloadTag:    model.PayloadTagPlan,
		Payload:       string(payload),
	})
	if err != nil {
		return nil, nil, err
	}
	return plan, rec, nil
}

// State reports the owner's derived workflow status with the active records
// decoded. The status is never stored; it always reflects what exists now.
func (s *Service) State(ctx context.Context, ownerType string, ownerID int64) (*State, error) {
	if _, _, err := s.ownerLabels(ctx, ownerType, ownerID); err != nil {
		return nil, err
	}

	st := &State{Status: model.StatusNotStarted}

	briefRec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindBrief)
	if err != nil {
		return nil, err
	}
	if briefRec != nil {
		var brief model.LiquidationBrief
		if err := json.Unmarshal([]byte(briefRec.Payload), &brief); err != nil {
			return nil, fmt.Errorf("%w: brief record %s: %v", ErrCorruptPayload, briefRec.ID, err)
		}
		st.Status = model.StatusHasBrief
		st.BriefRecordID = briefRec.ID
		st.Brief = &brief
	}

	planRec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindPlan)
	if err != nil {
		return nil, err
	}
	if planRec != nil {
		var plan model.LiquidationPlan
		if err := json.Unmarshal([]byte(planRec.Payload), &plan); err != nil {
			return nil, fmt.Errorf("%w: plan record %s: %v", ErrCorruptPayload, planRec.ID, err)
		}
		st.Status = model.StatusInProgress
		if plan.Completed() {
			st.Status = model.StatusCompleted
		}
		st.PlanRecordID = planRec.ID
		st.Plan = &plan
	}
	return st, nil
}

// History lists every stored brief and plan record for the owner, newest
// first, active or not.
func (s *Service) History(ctx context.Context, ownerType string, ownerID int64) ([]model.LiquidationRecord, error) {
	if _, _, err := s.ownerLabels(ctx, ownerType, ownerID); err != nil {
		return nil, err
	}
	return store.ListRecords(ctx, s.DB, ownerType, ownerID)
}

// ToggleChecklistItem flips completion of the active plan step with the given
// order and persists the plan in place. It returns the updated plan and the
// recomputed workflow status.
func (s *Service) ToggleChecklistItem(ctx context.Context, ownerType string, ownerID int64, order int) (*model.LiquidationPlan, string, error) {
	rec, plan, err := s.activePlan(ctx, ownerType, ownerID)
	if err != nil {
		return nil, "", err
	}

	found := false
	for i := range plan.Items {
		if plan.Items[i].Order != order {
			continue
		}
		found = true
		if plan.Items[i].IsCompleted {
			plan.Items[i].IsCompleted = false
			plan.Items[i].CompletedAt = nil
		} else {
			now := time.Now().UTC()
			plan.Items[i].IsCompleted = true
			plan.Items[i].CompletedAt = &now
		}
		break
	}
	if !found {
		return nil, "", fmt.Errorf("%w: order %d", ErrChecklistItemNotFound, order)
	}

	if err := s.storePlan(ctx, rec.ID, plan); err != nil {
		return nil, "", err
	}

	status := model.StatusInProgress
	if plan.Completed() {
		status = model.StatusCompleted
	}
	return plan, status, nil
}

// SetChecklistNote replaces the owner's note on the active plan step with the
// given order. An empty note clears it.
func (s *Service) SetChecklistNote(ctx context.Context, ownerType string, ownerID int64, order int, note string) (*model.LiquidationPlan, error) {
	rec, plan, err := s.activePlan(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range plan.Items {
		if plan.Items[i].Order == order {
			plan.Items[i].UserNotes = note
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: order %d", ErrChecklistItemNotFound, order)
	}

	if err := s.storePlan(ctx, rec.ID, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan deactivates the active plan, returning the workflow to the brief
// stage. The record stays in history.
func (s *Service) DeletePlan(ctx context.Context, ownerType string, ownerID int64) (string, error) {
	rec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindPlan)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNoPlan
	}
	if err := store.DeactivateRecord(ctx, s.DB, rec.ID); err != nil {
		return "", err
	}

	briefRec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindBrief)
	if err != nil {
		return "", err
	}
	if briefRec != nil {
		return model.StatusHasBrief, nil
	}
	return model.StatusNotStarted, nil
}

// GenerateBriefFromRequest runs the brief generation policy on a
// caller-supplied request without touching the catalog or storage. This is the
// stateless wire-protocol entry point.
func (s *Service) GenerateBriefFromRequest(ctx context.Context, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error) {
	return s.obtainBrief(ctx, req)
}

// GeneratePlanFromRequest runs the plan generation policy on a caller-supplied
// request without persistence.
func (s *Service) GeneratePlanFromRequest(ctx context.Context, req model.LiquidationPlanRequest) *model.LiquidationPlan {
	return s.obtainPlan(ctx, req)
}

// obtainBrief runs the generation policy: local-only when remote is off, one
// remote attempt otherwise. Transport failures fall back to local with an
// assumption flag; schema failures are surfaced.
func (s *Service) obtainBrief(ctx context.Context, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error) {
	if !s.remoteEnabled(ctx) {
		s.verbosef(ctx, "remote generation off, using local brief", "scope", req.Scope)
		return GenerateBrief(req), nil
	}

	remote, err := s.Provider.GenerateBrief(ctx, req)
	if err == nil {
		if remote.SchemaVersion != req.SchemaVersion {
			s.Log.Warn("remote brief schema version differs",
				"got", remote.SchemaVersion, "want", req.SchemaVersion)
		}
		return remote, nil
	}
	if ai.IsTransport(err) {
		s.verbosef(ctx, "remote brief failed, falling back to local",
			"provider", s.Provider.Name(), "error", err.Error())
		brief := GenerateBrief(req)
		brief.Assumptions = append(brief.Assumptions,
			"Remote generation unavailable: "+err.Error())
		return brief, nil
	}
	return nil, err
}

// obtainPlan mirrors obtainBrief but never fails: any remote error falls back
// to the local template, since a plan always exists for a known path.
func (s *Service) obtainPlan(ctx context.Context, req model.LiquidationPlanRequest) *model.LiquidationPlan {
	if !s.remoteEnabled(ctx) {
		s.verbosef(ctx, "remote generation off, using local plan", "path", req.ChosenPath)
		return GeneratePlan(req)
	}

	remote, err := s.Provider.GeneratePlan(ctx, req)
	if err != nil {
		s.verbosef(ctx, "remote plan failed, falling back to local",
			"provider", s.Provider.Name(), "error", err.Error())
		return GeneratePlan(req)
	}
	if remote.SchemaVersion != req.SchemaVersion {
		s.Log.Warn("remote plan schema version differs",
			"got", remote.SchemaVersion, "want", req.SchemaVersion)
	}
	return remote
}

func (s *Service) remoteEnabled(ctx context.Context) bool {
	if s.Provider == nil {
		return false
	}
	return s.Toggles == nil || s.Toggles.RemoteAIEnabled(ctx)
}

func (s *Service) verbosef(ctx context.Context, msg string, args ...any) {
	if s.Toggles != nil && s.Toggles.VerboseLogging(ctx) {
		s.Log.Info(msg, args...)
		return
	}
	s.Log.Debug(msg, args...)
}

// buildRequest loads the owner and snapshots it into a request. Stored photos
// ride along for items when the caller did not supply one; photo preparation
// failures drop the photo rather than block generation.
func (s *Service) buildRequest(ctx context.Context, ownerType string, ownerID int64, opts GenerateOptions) (model.LiquidationBriefRequest, error) {
	switch ownerType {
	case model.LiquidationOwnerItem:
		item, err := store.GetItem(ctx, s.DB, ownerID)
		if err != nil {
			return model.LiquidationBriefRequest{}, err
		}
		if item == nil {
			return model.LiquidationBriefRequest{}, ErrOwnerNotFound
		}
		if len(opts.PhotoJPEG) == 0 && item.PhotoMime != "" {
			photo, _, err := store.GetItemPhoto(ctx, s.DB, ownerID)
			if err == nil && len(photo) > 0 {
				prepared, perr := imaging.PrepareForModel(photo)
				if perr != nil {
					s.verbosef(ctx, "skipping unusable item photo", "item", ownerID, "error", perr.Error())
				} else {
					opts.PhotoJPEG = prepared
				}
			}
		}
		return BuildItemRequest(item, opts), nil
	case model.LiquidationOwnerSet:
		set, err := store.GetSet(ctx, s.DB, ownerID)
		if err != nil {
			return model.LiquidationBriefRequest{}, err
		}
		if set == nil {
			return model.LiquidationBriefRequest{}, ErrOwnerNotFound
		}
		members, err := store.ListSetMembers(ctx, s.DB, ownerID)
		if err != nil {
			return model.LiquidationBriefRequest{}, err
		}
		return BuildSetRequest(set, members, opts), nil
	}
	return model.LiquidationBriefRequest{}, fmt.Errorf("unknown owner type %q", ownerType)
}

func (s *Service) ownerLabels(ctx context.Context, ownerType string, ownerID int64) (title, category string, err error) {
	switch ownerType {
	case model.LiquidationOwnerItem:
		item, err := store.GetItem(ctx, s.DB, ownerID)
		if err != nil {
			return "", "", err
		}
		if item == nil {
			return "", "", ErrOwnerNotFound
		}
		return item.Title, item.Category, nil
	case model.LiquidationOwnerSet:
		set, err := store.GetSet(ctx, s.DB, ownerID)
		if err != nil {
			return "", "", err
		}
		if set == nil {
			return "", "", ErrOwnerNotFound
		}
		return set.Name, set.SetType, nil
	}
	return "", "", fmt.Errorf("unknown owner type %q", ownerType)
}

func (s *Service) saveBrief(ctx context.Context, ownerType string, ownerID int64, brief *model.LiquidationBrief) (*model.LiquidationRecord, error) {
	payload, err := model.CanonicalJSON(brief)
	if err != nil {
		return nil, err
	}
	return store.SaveRecord(ctx, s.DB, &model.LiquidationRecord{
		OwnerType:     ownerType,
		OwnerID:       ownerID,
		Kind:          model.RecordKindBrief,
		SchemaVersion: brief.SchemaVersion,
		PayloadTag:    model.PayloadTagBrief,
		Payload:       string(payload),
	})
}

func (s *Service) activePlan(ctx context.Context, ownerType string, ownerID int64) (*model.LiquidationRecord, *model.LiquidationPlan, error) {
	rec, err := store.GetActiveRecord(ctx, s.DB, ownerType, ownerID, model.RecordKindPlan)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, ErrNoPlan
	}
	var plan model.LiquidationPlan
	if err := json.Unmarshal([]byte(rec.Payload), &plan); err != nil {
		return nil, nil, fmt.Errorf("%w: plan record %s: %v", ErrCorruptPayload, rec.ID, err)
	}
	return rec, &plan, nil
}

func (s *Service) storePlan(ctx context.Context, recordID string, plan *model.LiquidationPlan) error {
	payload, err := model.CanonicalJSON(plan)
	if err != nil {
		return err
	}
	return store.UpdateRecordPayload(ctx, s.DB, recordID, string(payload))
}

func scopeForOwner(ownerType string) model.Scope {
	if ownerType == model.LiquidationOwnerSet {
		return model.ScopeSet
	}
	return model.ScopeItem
}
