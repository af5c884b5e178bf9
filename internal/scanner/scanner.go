// Package scanner provides a heuristic, pattern-based scan of customer-facing
// copy for the three marketing concerns regulators care about: implied
// medical claims, appeal to minors, and interstate-commerce language.
//
// This is deliberately not ML. The patterns catch the phrasing that shows up
// in real takedown letters; anything subtler goes through the judge-model
// gauntlet instead. Medical claims and minor targeting are warnings (fix the
// copy, the campaign can still run); interstate shipping language is a
// blocking error, because no U.S. jurisdiction permits interstate cannabis
// commerce regardless of either party's legal status.
package scanner

import (
	"fmt"
	"regexp"
)

// Concern classifies a scan finding.
type Concern string

const (
	// ConcernMedicalClaim flags copy implying therapeutic or curative effect.
	ConcernMedicalClaim Concern = "medical_claim"
	// ConcernMinorTargeting flags copy suggesting appeal to children.
	ConcernMinorTargeting Concern = "minor_targeting"
	// ConcernInterstateCommerce flags copy implying cross-border shipment.
	ConcernInterstateCommerce Concern = "interstate_commerce"
)

// Finding is one matched pattern.
type Finding struct {
	Concern Concern `json:"concern"`
	Match   string  `json:"match"`
	Message string  `json:"message"`
}

// Result aggregates every finding in a message. Allowed is false only when a
// blocking concern matched; warnings alone leave the message publishable.
type Result struct {
	Allowed  bool      `json:"allowed"`
	Errors   []string  `json:"errors,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// concernPatterns pairs a concern with its regex table. Order fixes the
// output order of findings.
var concernPatterns = []struct {
	concern  Concern
	blocking bool
	message  string
	patterns []*regexp.Regexp
}{
	{
		concern:  ConcernInterstateCommerce,
		blocking: true,
		message:  "Interstate commerce language is prohibited: cannabis may not be shipped across state lines",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)ship(?:s|ped|ping)?\s+(?:nationwide|nationally|anywhere|across\s+state\s+lines|out\s+of\s+state|to\s+(?:any|all|every)\s+state)`),
			regexp.MustCompile(`(?i)(?:deliver(?:s|y|ing)?|mail(?:s|ing)?)\s+(?:nationwide|to\s+all\s+50\s+states|across\s+state\s+lines|out\s+of\s+state)`),
			regexp.MustCompile(`(?i)nationwide\s+(?:shipping|delivery)`),
			regexp.MustCompile(`(?i)all\s+50\s+states`),
			regexp.MustCompile(`(?i)interstate\s+(?:shipping|delivery|commerce)`),
		},
	},
	{
		concern:  ConcernMedicalClaim,
		blocking: false,
		message:  "Copy implies a therapeutic or curative effect; medical claims require substantiation and are restricted",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcures?\b`),
			regexp.MustCompile(`(?i)\btreat(?:s|ment)?\s+(?:\w+\s+)?(?:cancer|anxiety|depression|insomnia|pain|ptsd|epilepsy|arthritis|glaucoma|disease|illness)`),
			regexp.MustCompile(`(?i)\bheals?\b`),
			regexp.MustCompile(`(?i)clinically\s+proven`),
			regexp.MustCompile(`(?i)doctor\s+(?:recommended|approved)`),
			regexp.MustCompile(`(?i)\bprevents?\s+(?:cancer|disease|seizures)`),
			regexp.MustCompile(`(?i)medical\s+benefits?\b`),
		},
	},
	{
		concern:  ConcernMinorTargeting,
		blocking: false,
		message:  "Copy may appeal to minors; advertising must not target anyone under 21",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bkids?\b`),
			regexp.MustCompile(`(?i)\bchild(?:ren)?\b`),
			regexp.MustCompile(`(?i)\bteens?\b`),
			regexp.MustCompile(`(?i)candy[\s-]?(?:like|flavored|themed)?`),
			regexp.MustCompile(`(?i)\bcartoon`),
			regexp.MustCompile(`(?i)\btoys?\b`),
			regexp.MustCompile(`(?i)whole\s+family`),
		},
	},
}

// Scan checks a message against every concern independently and aggregates
// all matches, not just the first. A single message can carry multiple
// warnings and the blocking error at once.
func Scan(text string) Result {
	result := Result{Allowed: true}
	if text == "" {
		return result
	}

	for _, cp := range concernPatterns {
		for _, re := range cp.patterns {
			match := re.FindString(text)
			if match == "" {
				continue
			}
			finding := Finding{
				Concern: cp.concern,
				Match:   match,
				Message: fmt.Sprintf("%s (matched %q)", cp.message, match),
			}
			result.Findings = append(result.Findings, finding)
			if cp.blocking {
				result.Allowed = false
				result.Errors = append(result.Errors, finding.Message)
			} else {
				result.Warnings = append(result.Warnings, finding.Message)
			}
		}
	}

	return result
}
