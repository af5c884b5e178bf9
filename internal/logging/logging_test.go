package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"debug json", Config{Level: "debug", Format: "json"}, false},
		{"console", Config{Level: "warn", Format: "console"}, false},
		{"bad level", Config{Level: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestDateOfBirthNeverLogsRawDate(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	dob := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	logger.Info("checkout", DateOfBirth(&dob))

	entries := logs.All()
	require.Len(t, entries, 1)
	field := entries[0].ContextMap()["dob_present"]
	assert.Equal(t, true, field)
	for _, f := range entries[0].Context {
		assert.NotContains(t, f.String, "1990")
	}
}

func TestCustomerIDIsDigested(t *testing.T) {
	a := CustomerID("user-12345")
	b := CustomerID("user-12345")
	c := CustomerID("user-67890")

	assert.Equal(t, a.String, b.String, "same customer correlates")
	assert.NotEqual(t, a.String, c.String)
	assert.NotContains(t, a.String, "12345")
	assert.Len(t, a.String, 12)
}

func TestCustomerIDEmpty(t *testing.T) {
	assert.Equal(t, "", CustomerID("").String)
}
