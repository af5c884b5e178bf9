package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

// DateOfBirth logs only whether a DOB was supplied. The raw date never
// reaches the log stream; the age derived from it is logged separately by
// the validator.
func DateOfBirth(dob *time.Time) zap.Field {
	return zap.Bool("dob_present", dob != nil)
}

// CustomerID logs a stable short digest of a customer UID so audit entries
// for the same customer correlate without exposing the identifier.
func CustomerID(uid string) zap.Field {
	if uid == "" {
		return zap.String("customer", "")
	}
	sum := sha256.Sum256([]byte(uid))
	return zap.String("customer", hex.EncodeToString(sum[:])[:12])
}

// MedicalCard logs possession of a medical credential, never its number.
func MedicalCard(has bool) zap.Field {
	return zap.Bool("medical_card", has)
}
