package rules

import (
	"fmt"
	"sort"

	"github.com/markitbot/complianced/internal/jurisdiction"
)

// CartItem is one line of a checkout cart. Weight and potency fields are
// category-dependent: Grams for flower/concentrate/preroll, MgTHC for
// edibles. Quantity multiplies the per-unit amount.
type CartItem struct {
	ProductID string                `json:"product_id"`
	Quantity  int                   `json:"quantity"`
	Category  jurisdiction.Category `json:"category"`
	Grams     float64               `json:"grams,omitempty"`
	MgTHC     float64               `json:"mg_thc,omitempty"`
}

// amount returns the item's contribution toward its category's limit, in the
// category's natural unit.
func (i CartItem) amount() float64 {
	qty := float64(i.Quantity)
	if qty <= 0 {
		qty = 1
	}
	if i.Category == jurisdiction.CategoryEdible {
		return i.MgTHC * qty
	}
	return i.Grams * qty
}

// unit names the measurement unit for a category, for denial messaging.
func unit(c jurisdiction.Category) string {
	if c == jurisdiction.CategoryEdible {
		return "mg THC"
	}
	return "g"
}

// LimitCheck is the outcome of a purchase-limit check.
type LimitCheck struct {
	Allowed bool
	// Totals holds the per-category unit-normalized sums that were compared.
	Totals map[jurisdiction.Category]float64
	// Reasons names every category whose sum exceeded its limit.
	Reasons []string
}

// CheckPurchaseLimits sums quantities per category across all cart lines and
// compares each sum against the region's limit for that category. Repeated
// lines for the same product sum like any other lines. Categories with no
// limit in the table are unconstrained. An empty cart trivially passes.
//
// Every exceeded category is reported, not just the first, so the caller can
// surface a complete denial list.
func CheckPurchaseLimits(table *jurisdiction.Table, cart []CartItem, regionCode string) LimitCheck {
	rule := table.Resolve(regionCode)

	totals := make(map[jurisdiction.Category]float64)
	for _, item := range cart {
		totals[item.Category] += item.amount()
	}

	// Deterministic reason order regardless of map iteration.
	categories := make([]jurisdiction.Category, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	var reasons []string
	for _, c := range categories {
		limit, constrained := rule.Limit(c)
		if !constrained {
			continue
		}
		if totals[c] > limit {
			reasons = append(reasons, fmt.Sprintf(
				"Purchase limit exceeded for %s: %.4g%s over the %.4g%s limit in %s",
				c, totals[c], unit(c), limit, unit(c), rule.Code))
		}
	}

	return LimitCheck{
		Allowed: len(reasons) == 0,
		Totals:  totals,
		Reasons: reasons,
	}
}
