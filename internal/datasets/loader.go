package datasets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"pulse-backend/internal/shared/storage/object"
	"pulse-backend/internal/shared/telemetry"
)

// Fixed dataset file names, relative to the dataset store root.
const (
	AdoptionFile = "industry_genai_adoption.csv"
	UsageFile    = "aws_service_usage_by_industry.csv"
	GrowthFile   = "genai_growth_prediction.csv"
)

var (
	adoptionColumns = []string{"industry", "year", "adoption_rate", "use_cases_count", "investment_millions"}
	usageColumns    = []string{"industry", "year", "bedrock_usage", "sagemaker_usage", "lambda_usage", "s3_usage", "ec2_usage"}
	growthColumns   = []string{"industry", "year", "predicted_adoption", "confidence_interval_low", "confidence_interval_high"}
)

// Loader reads and validates the CSV datasets from an object store.
type Loader struct {
	Store object.ObjectStore
}

// NewLoader constructs a Loader backed by the given store.
func NewLoader(store object.ObjectStore) *Loader {
	return &Loader{Store: store}
}

// LoadAdoption loads and validates the GenAI adoption dataset.
func (l *Loader) LoadAdoption(ctx context.Context) ([]AdoptionRecord, Metadata, error) {
	rows, columns, err := l.readCSV(ctx, AdoptionFile, adoptionColumns)
	if err != nil {
		return nil, Metadata{}, err
	}
	records, meta := buildDataset(AdoptionFile, rows, columns, parseAdoptionRow)
	return records, meta, nil
}

// LoadUsage loads and validates the AWS service usage dataset.
func (l *Loader) LoadUsage(ctx context.Context) ([]UsageRecord, Metadata, error) {
	rows, columns, err := l.readCSV(ctx, UsageFile, usageColumns)
	if err != nil {
		return nil, Metadata{}, err
	}
	records, meta := buildDataset(UsageFile, rows, columns, parseUsageRow)
	return records, meta, nil
}

// LoadGrowth loads and validates the growth prediction dataset.
func (l *Loader) LoadGrowth(ctx context.Context) ([]GrowthRecord, Metadata, error) {
	rows, columns, err := l.readCSV(ctx, GrowthFile, growthColumns)
	if err != nil {
		return nil, Metadata{}, err
	}
	records, meta := buildDataset(GrowthFile, rows, columns, parseGrowthRow)
	return records, meta, nil
}

// readCSV opens the named file and returns its rows keyed by column name,
// verifying that every required column is present.
func (l *Loader) readCSV(ctx context.Context, filename string, required []string) ([]row, []string, error) {
	f, err := l.Store.Open(ctx, filename)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrDataUnavailable, filename)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse %s: %v", ErrDataUnavailable, filename, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing required columns in %s: %v (available: %v)", ErrDataUnavailable, filename, missing, header)
	}

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: parse %s: %v", ErrDataUnavailable, filename, err)
		}
		r := make(row, len(header))
		for col, i := range index {
			if i < len(record) {
				r[col] = record[i]
			}
		}
		rows = append(rows, r)
	}

	return rows, header, nil
}

// buildDataset validates rows into typed records and assembles metadata.
// Invalid rows are collected as errors and excluded from the records.
func buildDataset[T interface{ Dims() (Industry, int) }](
	filename string,
	rows []row,
	columns []string,
	parse func(row) (T, []fieldError),
) ([]T, Metadata) {
	records := make([]T, 0, len(rows))
	var errs []string

	for i, r := range rows {
		rec, fieldErrs := parse(r)
		if len(fieldErrs) > 0 {
			// Row numbers are 1-based and account for the header line.
			msg := rowError(i+2, filename, fieldErrs)
			errs = append(errs, msg)
			telemetry.Warn("dataset.row_invalid", map[string]any{"file": filename, "error": msg})
			continue
		}
		records = append(records, rec)
	}

	meta := Metadata{
		Filename:    filename,
		RecordCount: len(rows),
		Columns:     columns,
		Industries:  distinctIndustries(records),
		Validation: ValidationResult{
			IsValid:          len(errs) == 0,
			Errors:           errs,
			RecordsProcessed: len(rows),
			RecordsValid:     len(records),
			RecordsInvalid:   len(errs),
		},
	}
	meta.YearMin, meta.YearMax = yearRange(records)

	telemetry.Info("dataset.loaded", map[string]any{
		"file":    filename,
		"valid":   meta.Validation.RecordsValid,
		"invalid": meta.Validation.RecordsInvalid,
	})

	return records, meta
}

func distinctIndustries[T interface{ Dims() (Industry, int) }](records []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		ind, _ := rec.Dims()
		if _, ok := seen[string(ind)]; !ok {
			seen[string(ind)] = struct{}{}
			out = append(out, string(ind))
		}
	}
	sort.Strings(out)
	return out
}

func yearRange[T interface{ Dims() (Industry, int) }](records []T) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}
	_, first := records[0].Dims()
	min, max := first, first
	for _, rec := range records[1:] {
		_, year := rec.Dims()
		if year < min {
			min = year
		}
		if year > max {
			max = year
		}
	}
	return min, max
}
