package alerts

import (
	"context"

	"github.com/google/cel-go/cel"

	"voltstore/pkg/logger"
)

// MuteInput is the evaluation context for mute rules.
type MuteInput struct {
	SKU           string
	WarehouseCode string
	AlertType     AlertType
	Available     int64
	Threshold     int64
}

// RuleSet holds compiled mute rules. A notification is suppressed when any
// rule evaluates to true; the alert record itself is still written.
//
// Rules are CEL expressions over: sku, warehouse_code, alert_type (strings),
// available, threshold (ints). Example:
//
//	alert_type == "LOW_STOCK" && warehouse_code == "RETURNS"
type RuleSet struct {
	programs []muteRule
}

type muteRule struct {
	expr string
	prg  cel.Program
}

// NewRuleSet compiles mute rule expressions. Invalid expressions are logged
// and skipped so one bad rule cannot disable alerting.
func NewRuleSet(ctx context.Context, exprs []string) *RuleSet {
	env, err := cel.NewEnv(
		cel.Variable("sku", cel.StringType),
		cel.Variable("warehouse_code", cel.StringType),
		cel.Variable("alert_type", cel.StringType),
		cel.Variable("available", cel.IntType),
		cel.Variable("threshold", cel.IntType),
	)
	if err != nil {
		logger.Error(ctx, "mute rules environment failed", "error", err)
		return &RuleSet{}
	}

	rs := &RuleSet{}
	for _, expr := range exprs {
		if expr == "" {
			continue
		}
		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			logger.Warn(ctx, "skipping invalid mute rule", "rule", expr, "error", iss.Err())
			continue
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			logger.Warn(ctx, "skipping non-boolean mute rule", "rule", expr)
			continue
		}
		prg, err := env.Program(ast)
		if err != nil {
			logger.Warn(ctx, "skipping mute rule", "rule", expr, "error", err)
			continue
		}
		rs.programs = append(rs.programs, muteRule{expr: expr, prg: prg})
	}
	return rs
}

// Len returns the number of active rules.
func (rs *RuleSet) Len() int {
	return len(rs.programs)
}

// Muted reports whether any rule suppresses notification for the input.
// Evaluation errors are logged and treated as not muted.
func (rs *RuleSet) Muted(ctx context.Context, in MuteInput) bool {
	if rs == nil || len(rs.programs) == 0 {
		return false
	}

	vars := map[string]any{
		"sku":            in.SKU,
		"warehouse_code": in.WarehouseCode,
		"alert_type":     string(in.AlertType),
		"available":      in.Available,
		"threshold":      in.Threshold,
	}

	for _, rule := range rs.programs {
		out, _, err := rule.prg.Eval(vars)
		if err != nil {
			logger.Warn(ctx, "mute rule evaluation failed", "rule", rule.expr, "error", err)
			continue
		}
		if muted, ok := out.Value().(bool); ok && muted {
			return true
		}
	}
	return false
}
