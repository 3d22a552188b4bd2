package validators

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// IsPincode reports whether the input is a 6-digit pincode.
func IsPincode(value string) bool {
	return pincodePattern.MatchString(value)
}

// QueryString returns a trimmed query parameter or the fallback when absent.
func QueryString(r *http.Request, key, fallback string) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return fallback
	}
	return value
}

// QueryInt parses an integer query parameter, returning fallback when absent.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" must be an integer")
	}
	return parsed, nil
}

// QueryFloat parses a float query parameter. Absent values return (0, false, nil).
func QueryFloat(r *http.Request, key string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" must be a number")
	}
	return parsed, true, nil
}
