package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// uintURLParam parses a chi URL parameter as an unsigned ID.
func uintURLParam(r *http.Request, key string) (uint, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", key, raw)
	}
	return uint(id), nil
}

// optionalUintQuery parses an optional numeric query parameter.
func optionalUintQuery(r *http.Request, key string) (*uint, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s '%s'", key, raw)
	}
	val := uint(id)
	return &val, nil
}

// optionalBoolQuery parses an optional boolean query parameter.
func optionalBoolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s '%s'", key, raw)
	}
	return &val, nil
}

// isUniqueViolation reports whether err stems from a unique constraint,
// e.g. a slug collision. SQLite surfaces these as plain-text errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
