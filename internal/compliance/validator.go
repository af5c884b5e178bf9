package compliance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/markitbot/complianced/internal/jurisdiction"
	"github.com/markitbot/complianced/internal/logging"
	"github.com/markitbot/complianced/internal/rules"
)

const instrumentationName = "github.com/markitbot/complianced/internal/compliance"

// limitWarnFraction is the share of a purchase limit past which a
// non-blocking "approaching limit" warning is attached.
const limitWarnFraction = 0.8

// Validator runs the full deterministic compliance pass over a checkout.
// Stateless apart from the read-only jurisdiction table; safe for concurrent
// use without locking.
type Validator struct {
	table  *jurisdiction.Table
	logger *zap.Logger
	clock  func() time.Time

	tracer        trace.Tracer
	meter         metric.Meter
	checkCounter  metric.Int64Counter
	denialCounter metric.Int64Counter
}

// NewValidator creates a validator over a loaded table.
func NewValidator(table *jurisdiction.Table, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := &Validator{
		table:  table,
		logger: logger.Named("compliance"),
		clock:  time.Now,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	v.initMetrics()
	return v
}

// WithClock overrides the clock for testing.
func (v *Validator) WithClock(clock func() time.Time) *Validator {
	v.clock = clock
	return v
}

func (v *Validator) initMetrics() {
	var err error

	v.checkCounter, err = v.meter.Int64Counter(
		"complianced.checkout.checks_total",
		metric.WithDescription("Total number of checkout compliance checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		v.logger.Warn("failed to create check counter", zap.Error(err))
	}

	v.denialCounter, err = v.meter.Int64Counter(
		"complianced.checkout.denials_total",
		metric.WithDescription("Total number of denied checkouts"),
		metric.WithUnit("{denial}"),
	)
	if err != nil {
		v.logger.Warn("failed to create denial counter", zap.Error(err))
	}
}

// Check evaluates one checkout attempt and returns a fresh Result. Business
// denials are values in Result.Errors, never Go errors: the caller renders
// the complete list in one pass.
//
// The pass never short-circuits except for a missing date of birth, so a
// customer in the wrong state with an over-limit cart sees both reasons.
func (v *Validator) Check(ctx context.Context, input *CheckoutInput) *Result {
	ctx, span := v.tracer.Start(ctx, "compliance.check")
	defer span.End()

	now := v.clock()
	result := &Result{
		AuditID:   uuid.New().String(),
		CheckedAt: now,
	}

	if input == nil || input.Customer == nil {
		result.Errors = append(result.Errors, "Customer information is required")
		return v.finish(ctx, span, result, "")
	}

	v.logger.Debug("checking checkout",
		logging.CustomerID(input.Customer.UID),
		logging.DateOfBirth(input.Customer.DateOfBirth),
		logging.MedicalCard(input.Customer.HasMedicalCard),
		zap.String("region", input.DispensaryState),
	)

	region := input.DispensaryState
	rule := v.table.Resolve(region)
	result.StateRules = RuleSnapshot{
		State:       rule.Code,
		LegalStatus: rule.LegalStatus,
		MinAge:      rule.MinAge(),
	}
	span.SetAttributes(
		attribute.String("region", rule.Code),
		attribute.String("legal_status", string(rule.LegalStatus)),
		attribute.Int("cart_items", len(input.Cart)),
	)

	// Age is a prerequisite for legal capacity to transact at all: without a
	// DOB no other check is meaningful, so this is the one short circuit.
	if input.Customer.DateOfBirth == nil {
		result.Errors = append(result.Errors, "Date of birth is required")
		return v.finish(ctx, span, result, rule.Code)
	}

	if state := rules.CheckStateAllowed(v.table, region); !state.Allowed {
		result.Errors = append(result.Errors, state.Reason)
	}

	if age := rules.CheckAge(v.table, input.Customer.DateOfBirth, now, region); !age.Allowed {
		result.Errors = append(result.Errors, age.Reason)
	}

	// The medical-card gate applies regardless of the age-check outcome.
	if rule.LegalStatus == jurisdiction.StatusMedicalOnly && !input.Customer.HasMedicalCard {
		result.Errors = append(result.Errors,
			fmt.Sprintf("A valid medical card is required to purchase in %s", rule.Code))
	}

	limits := rules.CheckPurchaseLimits(v.table, input.Cart, region)
	if !limits.Allowed {
		result.Errors = append(result.Errors, limits.Reasons...)
	}
	result.Warnings = append(result.Warnings, v.limitWarnings(rule, limits)...)

	return v.finish(ctx, span, result, rule.Code)
}

// limitWarnings emits non-blocking notices for category sums past the
// warning fraction but still within the limit.
func (v *Validator) limitWarnings(rule jurisdiction.Rule, limits rules.LimitCheck) []string {
	categories := make([]string, 0, len(limits.Totals))
	for category := range limits.Totals {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	var warnings []string
	for _, c := range categories {
		category := jurisdiction.Category(c)
		total := limits.Totals[category]
		limit, constrained := rule.Limit(category)
		if !constrained {
			continue
		}
		if total > limit*limitWarnFraction && total <= limit {
			warnings = append(warnings,
				fmt.Sprintf("Approaching the %s purchase limit in %s", category, rule.Code))
		}
	}
	return warnings
}

func (v *Validator) finish(ctx context.Context, span trace.Span, result *Result, region string) *Result {
	result.Allowed = len(result.Errors) == 0

	span.SetAttributes(
		attribute.Bool("allowed", result.Allowed),
		attribute.Int("error_count", len(result.Errors)),
	)

	if v.checkCounter != nil {
		v.checkCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("allowed", result.Allowed),
		))
	}
	if !result.Allowed && v.denialCounter != nil {
		v.denialCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("region", region),
		))
	}

	v.logger.Info("checkout compliance check",
		zap.String("audit_id", result.AuditID),
		zap.String("region", region),
		zap.Bool("allowed", result.Allowed),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result
}
