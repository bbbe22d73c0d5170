package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
)

// Festival editions before the web era never carry media, so the floor keeps
// obvious typos out of the collection.
const (
	minFestivalYear = 1900
	maxFestivalYear = 3000
)

func ParseYearParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "year"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "year must be numeric").WithDetails(map[string]any{"field": "year"})
	}
	if year < minFestivalYear || year > maxFestivalYear {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "year out of range").WithDetails(map[string]any{"field": "year", "min": minFestivalYear, "max": maxFestivalYear})
	}
	return year, nil
}

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
