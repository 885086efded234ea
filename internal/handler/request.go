package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/auth"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. Field-level AppErrors raised by
// custom unmarshalers pass through; any other decode failure becomes a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.ValidationFailed("", "Invalid request body")
	}
	return nil
}

// userID returns the id RequireAuth stored in the request context.
func userID(r *http.Request) (int64, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperror.Forbidden(auth.MsgNoToken)
	}
	return id, nil
}

// looseInt is an optional integer that arrives as a JSON number, a numeric
// string, an empty string, or null. Form inputs on the mobile client send
// every field as a string, so "27" and "" must both work.
type looseInt struct {
	field string
	set   bool
	value int64
}

func (n *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return apperror.ValidationFailed(n.field, fmt.Sprintf("%s must be a whole number", n.field))
	}
	n.set, n.value = true, v
	return nil
}

// Int returns nil when the value was absent or blank.
func (n looseInt) Int() *int {
	if !n.set {
		return nil
	}
	v := int(n.value)
	return &v
}

// Int64 returns 0 when absent; services treat 0 as a missing id.
func (n looseInt) Int64() int64 {
	return n.value
}
