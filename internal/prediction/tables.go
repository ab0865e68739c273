package prediction

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"claimequity/internal/domain"
)

//go:embed tables.yaml
var defaultTables []byte

// AgeBand assigns Weight to ages up to and including MaxAge. A nil MaxAge
// matches any age.
type AgeBand struct {
	MaxAge *int
	Weight decimal.Decimal
}

// Tables are the static weights behind Predict.
type Tables struct {
	Base               decimal.Decimal
	Age                []AgeBand
	ZipDefault         decimal.Decimal
	ZipPrefix          map[string]decimal.Decimal
	Amount             map[domain.AmountTier]decimal.Decimal
	PriorAuthBonus     decimal.Decimal
	NoPriorAuthPenalty decimal.Decimal
}

type rawTables struct {
	Base float64 `yaml:"base"`
	Age  []struct {
		MaxAge *int    `yaml:"max_age"`
		Weight float64 `yaml:"weight"`
	} `yaml:"age"`
	ZipDefault         float64            `yaml:"zip_default"`
	ZipPrefix          map[string]float64 `yaml:"zip_prefix"`
	Amount             map[string]float64 `yaml:"amount"`
	PriorAuthBonus     float64            `yaml:"prior_auth_bonus"`
	NoPriorAuthPenalty float64            `yaml:"no_prior_auth_penalty"`
}

// DefaultTables returns the tables compiled into the binary.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTables)
}

// LoadTables reads tables from path, or returns the compiled-in tables when
// path is empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prediction tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates a YAML table document.
func ParseTables(data []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding prediction tables: %w", err)
	}

	t := &Tables{
		Base:               decimal.NewFromFloat(raw.Base),
		ZipDefault:         decimal.NewFromFloat(raw.ZipDefault),
		ZipPrefix:          make(map[string]decimal.Decimal, len(raw.ZipPrefix)),
		Amount:             make(map[domain.AmountTier]decimal.Decimal, 3),
		PriorAuthBonus:     decimal.NewFromFloat(raw.PriorAuthBonus),
		NoPriorAuthPenalty: decimal.NewFromFloat(raw.NoPriorAuthPenalty),
	}

	if len(raw.Age) == 0 {
		return nil, fmt.Errorf("prediction tables: at least one age band is required")
	}
	prev := -1
	for i, band := range raw.Age {
		if band.MaxAge == nil {
			if i != len(raw.Age)-1 {
				return nil, fmt.Errorf("prediction tables: open age band must be last")
			}
		} else {
			if *band.MaxAge <= prev {
				return nil, fmt.Errorf("prediction tables: age bands must be ascending (band %d)", i)
			}
			prev = *band.MaxAge
		}
		t.Age = append(t.Age, AgeBand{MaxAge: band.MaxAge, Weight: decimal.NewFromFloat(band.Weight)})
	}
	if raw.Age[len(raw.Age)-1].MaxAge != nil {
		return nil, fmt.Errorf("prediction tables: last age band must be open-ended")
	}

	for prefix, w := range raw.ZipPrefix {
		if len(prefix) != 3 || !allDigits(prefix) {
			return nil, fmt.Errorf("prediction tables: invalid zip prefix %q", prefix)
		}
		t.ZipPrefix[prefix] = decimal.NewFromFloat(w)
	}

	for _, tier := range []domain.AmountTier{domain.AmountLow, domain.AmountMedium, domain.AmountHigh} {
		w, ok := raw.Amount[string(tier)]
		if !ok {
			return nil, fmt.Errorf("prediction tables: missing amount tier %q", tier)
		}
		t.Amount[tier] = decimal.NewFromFloat(w)
	}

	return t, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
