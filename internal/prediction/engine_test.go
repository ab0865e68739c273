package prediction_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimequity/internal/domain"
	"claimequity/internal/prediction"
)

func newEngine(t *testing.T) *prediction.Engine {
	t.Helper()
	tables, err := prediction.DefaultTables()
	require.NoError(t, err)
	return prediction.NewEngine(tables)
}

func TestPredict_ReferenceInputIsDeterministic(t *testing.T) {
	e := newEngine(t)
	in := domain.PredictionInput{Age: 45, ZipCode: "08540", ClaimAmount: decimal.NewFromInt(5000)}

	first := e.Predict(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, e.Predict(in))
	}
	// 50 base + 0 age + 2.5 zip + 0 medium - 5 no prior auth, rounded half away from zero.
	assert.Equal(t, 48, first.ProbabilityPercent)
}

func TestPredict_Table(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		in   domain.PredictionInput
		want domain.PredictionResult
	}{
		{"young low amount with auth", domain.PredictionInput{Age: 25, ZipCode: "94105", ClaimAmount: decimal.NewFromInt(800), HasPriorAuthorization: true}, domain.PredictionResult{ProbabilityPercent: 74}},
		{"senior high amount", domain.PredictionInput{Age: 70, ZipCode: "77002", ClaimAmount: decimal.NewFromInt(25000)}, domain.PredictionResult{ProbabilityPercent: 38}},
		{"unknown prefix uses default", domain.PredictionInput{Age: 50, ZipCode: "55555", ClaimAmount: decimal.NewFromInt(5000)}, domain.PredictionResult{ProbabilityPercent: 45}},
		{"malformed zip uses default", domain.PredictionInput{Age: 50, ZipCode: "abc", ClaimAmount: decimal.NewFromInt(5000)}, domain.PredictionResult{ProbabilityPercent: 45}},
		{"tier boundary 1000 is low", domain.PredictionInput{Age: 50, ZipCode: "55555", ClaimAmount: decimal.NewFromInt(1000)}, domain.PredictionResult{ProbabilityPercent: 55}},
		{"tier boundary 10000 is medium", domain.PredictionInput{Age: 50, ZipCode: "55555", ClaimAmount: decimal.NewFromInt(10000)}, domain.PredictionResult{ProbabilityPercent: 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, e.Predict(tt.in)); diff != "" {
				t.Errorf("Predict() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPredict_Clamped(t *testing.T) {
	tables, err := prediction.ParseTables([]byte(`
base: 95
age: [{weight: 20}]
zip_default: 0
amount: {low: 0, medium: 0, high: -300}
prior_auth_bonus: 15
no_prior_auth_penalty: 0
`))
	require.NoError(t, err)
	e := prediction.NewEngine(tables)

	assert.Equal(t, 100, e.Predict(domain.PredictionInput{Age: 30, ClaimAmount: decimal.NewFromInt(10), HasPriorAuthorization: true}).ProbabilityPercent)
	assert.Equal(t, 0, e.Predict(domain.PredictionInput{Age: 30, ClaimAmount: decimal.NewFromInt(50000)}).ProbabilityPercent)
}

func TestZipPrefix(t *testing.T) {
	tests := []struct {
		zip    string
		prefix string
		ok     bool
	}{
		{"08540", "085", true},
		{" 08540-1234 ", "085", true},
		{"0854", "", false},
		{"08540-12", "", false},
		{"ABCDE", "", false},
	}
	for _, tt := range tests {
		prefix, ok := prediction.ZipPrefix(tt.zip)
		assert.Equal(t, tt.prefix, prefix, tt.zip)
		assert.Equal(t, tt.ok, ok, tt.zip)
	}
}
