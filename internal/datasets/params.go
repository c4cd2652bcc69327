package datasets

import (
	"fmt"
	"strconv"
	"strings"
)

// Query parameter bounds. The upper bound mirrors the original service's
// pinned reference year (2023) plus a ten-year horizon.
const (
	QueryYearMin = 2020
	QueryYearMax = 2033
)

// ValidateYear checks a year query parameter against the accepted window.
func ValidateYear(year int) error {
	if year < QueryYearMin || year > QueryYearMax {
		return fmt.Errorf("year %d is outside valid range (%d-%d)", year, QueryYearMin, QueryYearMax)
	}
	return nil
}

// CanonicalIndustry matches a raw industry parameter against the dataset's
// industry list case-insensitively and returns the canonical spelling.
func CanonicalIndustry(raw string, available []string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, ind := range available {
		if strings.EqualFold(trimmed, ind) {
			return ind, nil
		}
	}
	return "", fmt.Errorf("industry '%s' not found; valid industries: %s", trimmed, strings.Join(available, ", "))
}

// ParseYearRange parses a "YYYY-YYYY" range parameter, validating order and
// bounds of both endpoints.
func ParseYearRange(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("year range must be in format 'YYYY-YYYY' (e.g., '2024-2030')")
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("year range must be in format 'YYYY-YYYY' (e.g., '2024-2030')")
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("year range must be in format 'YYYY-YYYY' (e.g., '2024-2030')")
	}
	if start > end {
		return 0, 0, fmt.Errorf("start year must be less than or equal to end year")
	}
	if err := ValidateYear(start); err != nil {
		return 0, 0, err
	}
	if err := ValidateYear(end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
