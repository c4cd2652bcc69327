package insights

import "pulse-backend/internal/datasets"

// Apply returns the subsequence of records whose year is in years (or any
// year when years is empty) and whose industry is in industries (or any
// industry when industries is empty), preserving relative order. The
// industry values must be canonical dataset spellings.
func Apply[T interface{ Dims() (datasets.Industry, int) }](records []T, years []int, industries []string) []T {
	yearSet := make(map[int]struct{}, len(years))
	for _, y := range years {
		yearSet[y] = struct{}{}
	}
	industrySet := make(map[string]struct{}, len(industries))
	for _, ind := range industries {
		industrySet[ind] = struct{}{}
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		ind, year := rec.Dims()
		if len(yearSet) > 0 {
			if _, ok := yearSet[year]; !ok {
				continue
			}
		}
		if len(industrySet) > 0 {
			if _, ok := industrySet[string(ind)]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}
