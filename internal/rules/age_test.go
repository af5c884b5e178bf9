package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markitbot/complianced/internal/jurisdiction"
)

func mustTable(t *testing.T) *jurisdiction.Table {
	t.Helper()
	table, err := jurisdiction.Load()
	require.NoError(t, err)
	return table
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAge(t *testing.T) {
	table := mustTable(t)
	now := date(2026, time.June, 15)

	tests := []struct {
		name    string
		dob     time.Time
		region  string
		allowed bool
		minAge  int
	}{
		{
			name:    "well over 21 in legal state",
			dob:     date(1990, time.January, 1),
			region:  "CA",
			allowed: true,
			minAge:  21,
		},
		{
			name:    "21st birthday today counts",
			dob:     date(2005, time.June, 15),
			region:  "CA",
			allowed: true,
			minAge:  21,
		},
		{
			name:    "21st birthday tomorrow does not",
			dob:     date(2005, time.June, 16),
			region:  "CA",
			allowed: false,
			minAge:  21,
		},
		{
			name:    "18 passes the medical floor",
			dob:     date(2008, time.June, 15),
			region:  "FL",
			allowed: true,
			minAge:  18,
		},
		{
			name:    "17 fails the medical floor",
			dob:     date(2008, time.June, 16),
			region:  "FL",
			allowed: false,
			minAge:  18,
		},
		{
			name:    "illegal region applies the recreational floor",
			dob:     date(2007, time.January, 1),
			region:  "ID",
			allowed: false,
			minAge:  21,
		},
		{
			name:    "unknown region applies the recreational floor",
			dob:     date(1990, time.January, 1),
			region:  "ZZ",
			allowed: true,
			minAge:  21,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dob := tt.dob
			check := CheckAge(table, &dob, now, tt.region)
			assert.Equal(t, tt.allowed, check.Allowed)
			assert.Equal(t, tt.minAge, check.MinAge)
			if !tt.allowed {
				assert.NotEmpty(t, check.Reason)
			}
		})
	}
}

func TestCheckAgeNilDOBFailsClosed(t *testing.T) {
	table := mustTable(t)

	check := CheckAge(table, nil, time.Now(), "CA")
	assert.False(t, check.Allowed)
	assert.Equal(t, -1, check.Age)
	assert.Equal(t, "Date of birth is required", check.Reason)
}

func TestCalendarAgeAcrossYearBoundary(t *testing.T) {
	dob := date(2005, time.December, 31)

	assert.Equal(t, 20, calendarAge(dob, date(2026, time.December, 30)))
	assert.Equal(t, 21, calendarAge(dob, date(2026, time.December, 31)))
	assert.Equal(t, 21, calendarAge(dob, date(2027, time.January, 1)))
}
