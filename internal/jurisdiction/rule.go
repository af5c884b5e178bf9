package jurisdiction

// LegalStatus is a region's cannabis legal regime.
type LegalStatus string

const (
	// StatusLegal permits adult-use (recreational) sale.
	StatusLegal LegalStatus = "legal"
	// StatusMedicalOnly permits sale only against a medical credential.
	StatusMedicalOnly LegalStatus = "medical_only"
	// StatusIllegal permits no sale. Also the default for unknown regions.
	StatusIllegal LegalStatus = "illegal"
)

// Valid reports whether s is one of the three recognized statuses.
func (s LegalStatus) Valid() bool {
	switch s {
	case StatusLegal, StatusMedicalOnly, StatusIllegal:
		return true
	}
	return false
}

// Category is a product category with its own per-transaction limit.
type Category string

const (
	CategoryFlower      Category = "flower"
	CategoryConcentrate Category = "concentrate"
	CategoryEdible      Category = "edible"
	CategoryPreroll     Category = "preroll"
	CategoryTopical     Category = "topical"
)

// Minimum purchase ages. These are federal-pattern constants, not per-state
// table data: every adult-use state uses 21, every medical program uses 18.
const (
	MinAgeRecreational = 21
	MinAgeMedical      = 18
)

// Rule is the legal regime for one region code. Immutable after load.
type Rule struct {
	// Code is the two-letter region identifier, uppercased.
	Code string `koanf:"code" json:"code"`

	// LegalStatus partitions regions into legal, medical_only, illegal.
	LegalStatus LegalStatus `koanf:"legal_status" json:"legal_status"`

	// PurchaseLimits maps product category to the maximum quantity per
	// transaction, in the category's natural unit (grams for flower and
	// concentrate, mg THC for edibles). Categories absent from the map are
	// unconstrained.
	PurchaseLimits map[Category]float64 `koanf:"purchase_limits" json:"purchase_limits,omitempty"`
}

// MinAge returns the age floor applicable under this rule. Medical-only
// regions report the medical floor (18); the medical-card gate is enforced
// separately by the checkout validator. Illegal regions still report 21 so
// downstream denial messaging has a nominal floor to name.
func (r Rule) MinAge() int {
	if r.LegalStatus == StatusMedicalOnly {
		return MinAgeMedical
	}
	return MinAgeRecreational
}

// Limit returns the per-transaction limit for a category, and whether one is
// defined.
func (r Rule) Limit(c Category) (float64, bool) {
	v, ok := r.PurchaseLimits[c]
	return v, ok
}
