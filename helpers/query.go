package helpers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrRequired is wrapped by errors for parameters that were not supplied
var ErrRequired = errors.New("is required")

// GetRequiredString returns the trimmed value of key, which must be present
// and non-empty
func GetRequiredString(query url.Values, key string) (string, int, error) {
	s := strings.TrimSpace(query.Get(key))
	if s == "" {
		return "", http.StatusBadRequest, fmt.Errorf("%s %w", key, ErrRequired)
	}

	return s, http.StatusOK, nil
}

// GetRequiredInt64 returns the value of key as a base 10 integer
func GetRequiredInt64(query url.Values, key string) (int64, int, error) {
	s, status, err := GetRequiredString(query, key)
	if err != nil {
		return 0, status, err
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, http.StatusBadRequest,
			fmt.Errorf("%s (%s) is not a number", key, s)
	}

	return i, http.StatusOK, nil
}

// GetRequiredFloat64 returns the value of key as a finite float
func GetRequiredFloat64(query url.Values, key string) (float64, int, error) {
	s, status, err := GetRequiredString(query, key)
	if err != nil {
		return 0, status, err
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, http.StatusBadRequest,
			fmt.Errorf("%s (%s) is not a number", key, s)
	}

	return f, http.StatusOK, nil
}

// GetBool returns the value of key as a boolean, or def if key is absent.
// yes/no and on/off are accepted alongside the strconv.ParseBool forms.
func GetBool(query url.Values, key string, def bool) (bool, int, error) {
	s := strings.TrimSpace(query.Get(key))
	if s == "" {
		return def, http.StatusOK, nil
	}

	switch strings.ToLower(s) {
	case "yes", "on":
		return true, http.StatusOK, nil
	case "no", "off":
		return false, http.StatusOK, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, http.StatusBadRequest,
			fmt.Errorf("%s (%s) is not a boolean", key, s)
	}

	return b, http.StatusOK, nil
}

// GetOptionalInt64 returns a pointer to the value of key, or nil if key is
// absent
func GetOptionalInt64(query url.Values, key string) (*int64, int, error) {
	if strings.TrimSpace(query.Get(key)) == "" {
		return nil, http.StatusOK, nil
	}

	i, status, err := GetRequiredInt64(query, key)
	if err != nil {
		return nil, status, err
	}

	return &i, http.StatusOK, nil
}
