package rules

import (
	"fmt"
	"time"

	"github.com/markitbot/complianced/internal/jurisdiction"
)

// AgeCheck is the outcome of a minimum-age check.
type AgeCheck struct {
	Allowed bool
	// Age is the computed calendar age, -1 when the date of birth was absent.
	Age int
	// MinAge is the floor that applied (21 recreational, 18 medical).
	MinAge int
	Reason string
}

// CheckAge verifies the customer meets the region's age floor as of now.
//
// The floor is the one applicable once any required medical credential is
// assumed present: 18 in medical-only regions, 21 everywhere else (including
// illegal regions, where the state-legality check is expected to deny the
// sale anyway and the floor only feeds denial messaging). Credential
// verification itself belongs to the checkout validator.
//
// Age is calendar age by year/month/day comparison: a customer whose 21st
// birthday is today is 21; one whose birthday is tomorrow is not.
//
// A nil date of birth fails closed. The checkout validator rejects absent
// DOB before ever calling this, but a direct caller gets a denial too.
func CheckAge(table *jurisdiction.Table, dob *time.Time, now time.Time, regionCode string) AgeCheck {
	rule := table.Resolve(regionCode)
	minAge := rule.MinAge()

	if dob == nil {
		return AgeCheck{
			Allowed: false,
			Age:     -1,
			MinAge:  minAge,
			Reason:  "Date of birth is required",
		}
	}

	age := calendarAge(*dob, now)
	if age < minAge {
		return AgeCheck{
			Allowed: false,
			Age:     age,
			MinAge:  minAge,
			Reason:  fmt.Sprintf("Customer must be %d or older in %s", minAge, rule.Code),
		}
	}

	return AgeCheck{Allowed: true, Age: age, MinAge: minAge}
}

// calendarAge computes whole years between dob and now, counting the
// birthday itself as already reached.
func calendarAge(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
