package rules

import (
	"fmt"

	"github.com/markitbot/complianced/internal/jurisdiction"
)

// StateCheck is the outcome of a state-legality check.
type StateCheck struct {
	Allowed bool
	Status  jurisdiction.LegalStatus
	Reason  string
}

// CheckStateAllowed verifies a sale is permitted at all in the region
// governing the transaction. Medical-only regions allow: the separate
// medical-card gate handles the credential requirement. Illegal and unknown
// regions deny, naming the region.
func CheckStateAllowed(table *jurisdiction.Table, regionCode string) StateCheck {
	rule := table.Resolve(regionCode)

	switch rule.LegalStatus {
	case jurisdiction.StatusLegal, jurisdiction.StatusMedicalOnly:
		return StateCheck{Allowed: true, Status: rule.LegalStatus}
	default:
		return StateCheck{
			Allowed: false,
			Status:  jurisdiction.StatusIllegal,
			Reason:  fmt.Sprintf("Cannabis sales are not permitted in %s", rule.Code),
		}
	}
}
