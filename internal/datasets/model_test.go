package datasets

import "testing"

func TestCompositeScoreUniformUsage(t *testing.T) {
	rec := UsageRecord{
		BedrockUsage:   0.5,
		SageMakerUsage: 0.5,
		LambdaUsage:    0.5,
		S3Usage:        0.5,
		EC2Usage:       0.5,
	}

	// Weights sum to 1, so a uniform level passes through unchanged.
	if got := rec.CompositeScore(); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestCompositeScoreWeighting(t *testing.T) {
	rec := UsageRecord{
		BedrockUsage:   1.0,
		SageMakerUsage: 0.0,
		LambdaUsage:    0.0,
		S3Usage:        0.0,
		EC2Usage:       0.0,
	}

	if got := rec.CompositeScore(); got != 0.3 {
		t.Fatalf("expected 0.3 for bedrock-only usage, got %v", got)
	}
}

func TestCompositeScoreRounds(t *testing.T) {
	rec := UsageRecord{
		BedrockUsage:   0.333,
		SageMakerUsage: 0.333,
		LambdaUsage:    0.333,
		S3Usage:        0.333,
		EC2Usage:       0.333,
	}

	if got := rec.CompositeScore(); got != 0.333 {
		t.Fatalf("expected 0.333, got %v", got)
	}
}

func TestIndustryValid(t *testing.T) {
	if !IndustryHealthcare.Valid() {
		t.Fatalf("expected Healthcare to be valid")
	}
	if Industry("Agriculture").Valid() {
		t.Fatalf("expected Agriculture to be invalid")
	}
	if Industry("healthcare").Valid() {
		t.Fatalf("expected industry validity to be case-sensitive")
	}
}

func TestIndustriesCount(t *testing.T) {
	if len(Industries) != 8 {
		t.Fatalf("expected 8 industries, got %d", len(Industries))
	}
}
