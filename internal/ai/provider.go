// Package ai talks to remote model providers and normalizes their replies
// into the liquidation wire shapes.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/erazemk/zapuscina/internal/model"
)

// Provider generates liquidation briefs and plans remotely. Implementations
// classify failures as TransportError or SchemaError so callers can tell "no
// reply arrived" from "the reply was unusable".
type Provider interface {
	Name() string
	GenerateBrief(ctx context.Context, req model.LiquidationBriefRequest) (*model.LiquidationBrief, error)
	GeneratePlan(ctx context.Context, req model.LiquidationPlanRequest) (*model.LiquidationPlan, error)
}

// TransportError reports that no usable reply arrived: connection failures,
// timeouts, or a broken upstream. Callers typically fall back to local
// generation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ai: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError reports that a reply arrived but could not be shaped into the
// expected structure. Brief callers surface these instead of masking them.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ai: %s: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsSchema reports whether err is (or wraps) a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
