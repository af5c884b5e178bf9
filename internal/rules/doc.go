// Package rules implements the deterministic compliance checks for a cannabis
// purchase: minimum age, state legality, and per-category purchase limits.
//
// Every function here is pure: no I/O, no clocks (callers pass "now"), no
// shared mutable state beyond the read-only jurisdiction table. Failures are
// values, never errors: a denied purchase is an expected business condition
// and the checkout validator needs to accumulate every applicable denial in
// one pass.
//
// All checks fail closed. An unknown region, a nil date of birth, or any
// other gap in required information resolves to "not allowed".
package rules
