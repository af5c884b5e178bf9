// Package jurisdiction provides the per-state legal reference table that the
// compliance rule engine evaluates against.
//
// The table is immutable after load. It is parsed once at process start from an
// embedded YAML document (or an operator-supplied override file), validated, and
// then shared read-only across all request-handling goroutines. Regions absent
// from the table are treated as illegal: a missing entry must never widen what a
// customer is allowed to buy.
//
// # Usage
//
//	table, err := jurisdiction.Load()
//	if err != nil {
//	    // malformed table is a boot failure, not a runtime condition
//	    log.Fatal(err)
//	}
//
//	rule, ok := table.Lookup("ca")
//	if !ok {
//	    // unknown region: fail closed
//	}
//
// # Updating the table
//
// Limit constants and legal statuses change through legislation, not at runtime.
// Updates ship as a new states.yaml and a redeploy; there is no mutation API and
// no locking protocol.
package jurisdiction
