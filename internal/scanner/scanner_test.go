package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCleanCopy(t *testing.T) {
	result := Scan("Visit our Oakland dispensary this weekend for 20% off all flower.")
	assert.True(t, result.Allowed)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Findings)
}

func TestScanEmptyMessage(t *testing.T) {
	result := Scan("")
	assert.True(t, result.Allowed)
	assert.Empty(t, result.Findings)
}

func TestScanInterstateCommerceBlocks(t *testing.T) {
	tests := []string{
		"We ship nationwide!",
		"Free nationwide delivery on orders over $50",
		"We deliver to all 50 states",
		"Now shipping across state lines",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			result := Scan(text)
			assert.False(t, result.Allowed)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], "Interstate commerce")
		})
	}
}

func TestScanMedicalClaimWarns(t *testing.T) {
	result := Scan("Our tincture cures insomnia and treats chronic pain.")
	assert.True(t, result.Allowed, "medical claims warn, they do not block")
	assert.Empty(t, result.Errors)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "therapeutic")
}

func TestScanMinorTargetingWarns(t *testing.T) {
	result := Scan("Great for kids and families!")
	assert.True(t, result.Allowed, "minor targeting warns, it does not block")
	assert.Empty(t, result.Errors)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "minors")
}

func TestScanConcernsAreIndependent(t *testing.T) {
	result := Scan("Candy-flavored gummies that cure anxiety, shipped nationwide!")

	assert.False(t, result.Allowed)
	assert.NotEmpty(t, result.Errors, "interstate language blocks")
	assert.GreaterOrEqual(t, len(result.Warnings), 2, "medical claim and minor appeal both warn")

	concerns := map[Concern]bool{}
	for _, f := range result.Findings {
		concerns[f.Concern] = true
	}
	assert.True(t, concerns[ConcernInterstateCommerce])
	assert.True(t, concerns[ConcernMedicalClaim])
	assert.True(t, concerns[ConcernMinorTargeting])
}

func TestScanAggregatesAllMatches(t *testing.T) {
	result := Scan("This cures pain, heals wounds, and is doctor recommended.")
	assert.GreaterOrEqual(t, len(result.Warnings), 3, "every matching pattern is reported")
}
