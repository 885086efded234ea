// Package service contains the business rules of the skate tracker.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain errors from package apperror.
// They know nothing about HTTP, which is why the skatectl CLI and the tests
// can exercise the same rules the REST API uses.
//
// DEPENDENCY INJECTION:
// Every service takes repository interfaces, never *postgres.DB or
// *sqlite.DB. server.go decides which backend (and whether the Redis cache)
// sits behind them.
package service

import (
	"math"
	"strings"

	"github.com/sakif/skate-tracker/internal/apperror"
)

// Numeric columns are 32-bit INTEGER in PostgreSQL. Values past these limits
// are rejected here instead of failing inside the driver.
const (
	MaxTrickID = math.MaxInt32
	MaxAge     = 150
)

// firstMissing returns the name of the first blank field, or "" when every
// field has a value. Fields are given as name/value pairs.
func firstMissing(pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return pairs[i]
		}
	}
	return ""
}

// optional turns a blank string into nil so it is stored as NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// checkTrickID validates a trick_id from a request body.
func checkTrickID(trickID int64) error {
	switch {
	case trickID <= 0:
		return apperror.ValidationFailed("trick_id", "Trick ID is required")
	case trickID > MaxTrickID:
		return apperror.ValidationFailed("trick_id", "Invalid trick ID")
	}
	return nil
}
