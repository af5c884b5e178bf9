// Package compliance orchestrates the deterministic checkout checks into a
// single auditable verdict.
//
// The validator runs every applicable rule-engine check in one pass and
// accumulates all failures, so a checkout flow can show the customer the
// complete list of blocking reasons instead of forcing repeated round trips.
// The single exception is a missing or unparsable date of birth: age is
// foundational to every legal judgment that follows, so an absent DOB stops
// the pass immediately with that one error.
//
// # Usage
//
//	table, _ := jurisdiction.Load()
//	validator := compliance.NewValidator(table, logger)
//
//	result := validator.Check(ctx, &compliance.CheckoutInput{
//	    Customer:        &compliance.Customer{UID: "u1", DateOfBirth: &dob},
//	    Cart:            cart,
//	    DispensaryState: "CA",
//	})
//	if !result.Allowed {
//	    // result.Errors holds every denial reason, user-displayable
//	}
//
// Results are request-scoped and immutable once returned; the validator
// itself holds no per-request state and is safe for concurrent use.
package compliance
