package datasets

import (
	"strings"
	"testing"
)

func TestValidateYear(t *testing.T) {
	for _, year := range []int{2020, 2023, 2033} {
		if err := ValidateYear(year); err != nil {
			t.Fatalf("expected %d to be valid: %v", year, err)
		}
	}
	for _, year := range []int{2019, 2034, 0, -1} {
		if err := ValidateYear(year); err == nil {
			t.Fatalf("expected %d to be rejected", year)
		}
	}
}

func TestCanonicalIndustry(t *testing.T) {
	available := []string{"Finance", "Healthcare", "Technology"}

	tests := []struct {
		raw  string
		want string
	}{
		{"Healthcare", "Healthcare"},
		{"healthcare", "Healthcare"},
		{"HEALTHCARE", "Healthcare"},
		{" finance ", "Finance"},
	}
	for _, tc := range tests {
		got, err := CanonicalIndustry(tc.raw, available)
		if err != nil {
			t.Fatalf("CanonicalIndustry(%q): unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("CanonicalIndustry(%q): expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestCanonicalIndustryUnknown(t *testing.T) {
	_, err := CanonicalIndustry("Agriculture", []string{"Finance", "Healthcare"})
	if err == nil {
		t.Fatalf("expected error for unknown industry")
	}
	if !strings.Contains(err.Error(), "Finance, Healthcare") {
		t.Fatalf("expected valid industries listed in %q", err.Error())
	}
}

func TestParseYearRange(t *testing.T) {
	start, end, err := ParseYearRange("2024-2030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 2024 || end != 2030 {
		t.Fatalf("expected 2024-2030, got %d-%d", start, end)
	}
}

func TestParseYearRangeInvalid(t *testing.T) {
	tests := []string{
		"2024",
		"abcd-2030",
		"2024-efgh",
		"2030-2024",
		"2019-2024",
		"2024-2034",
	}
	for _, raw := range tests {
		if _, _, err := ParseYearRange(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
