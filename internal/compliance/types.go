package compliance

import (
	"time"

	"github.com/markitbot/complianced/internal/jurisdiction"
	"github.com/markitbot/complianced/internal/rules"
)

// Customer is the buyer shape supplied by the checkout workflow.
type Customer struct {
	// UID identifies the customer in the calling system.
	UID string `json:"uid"`

	// DateOfBirth is nil when the customer has not supplied one. A nil DOB
	// denies the checkout outright.
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// HasMedicalCard reports a verified medical credential. Verification
	// itself happens upstream; this core only gates on the boolean.
	HasMedicalCard bool `json:"has_medical_card"`

	// State is the customer's home state. Informational: the transaction is
	// governed by the dispensary's state.
	State string `json:"state,omitempty"`
}

// CheckoutInput is one checkout attempt. Constructed fresh per attempt by
// the caller and never persisted by this core.
type CheckoutInput struct {
	Customer *Customer `json:"customer"`

	// Cart is the ordered line items of the attempt. An empty cart is valid.
	Cart []rules.CartItem `json:"cart"`

	// DispensaryState is the region code governing the transaction. May
	// differ from the customer's home state.
	DispensaryState string `json:"dispensary_state"`
}

// RuleSnapshot captures the resolved jurisdiction rule for the audit trail.
type RuleSnapshot struct {
	State       string                   `json:"state"`
	LegalStatus jurisdiction.LegalStatus `json:"legal_status"`
	MinAge      int                      `json:"min_age"`
}

// Result is the verdict for one checkout attempt. Immutable once returned.
type Result struct {
	// AuditID uniquely identifies this check for audit correlation.
	AuditID string `json:"audit_id"`

	// Allowed is true only when Errors is empty.
	Allowed bool `json:"allowed"`

	// Errors are self-contained, user-displayable denial reasons.
	Errors []string `json:"errors,omitempty"`

	// Warnings are non-blocking notices, e.g. approaching a purchase limit.
	Warnings []string `json:"warnings,omitempty"`

	// StateRules snapshots the rule the verdict was computed against.
	StateRules RuleSnapshot `json:"state_rules"`

	// CheckedAt is when the verdict was produced.
	CheckedAt time.Time `json:"checked_at"`
}
