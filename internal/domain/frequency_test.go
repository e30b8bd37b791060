package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{"monthly", Monthly, false},
		{" Monthly ", Monthly, false},
		{"12", Monthly, false},
		{"quarterly", Quarterly, false},
		{"4", Quarterly, false},
		{"semiannual", Semiannual, false},
		{"half-yearly", Semiannual, false},
		{"weekly", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequency_Labels(t *testing.T) {
	assert.Equal(t, "monthly", Monthly.String())
	assert.Equal(t, "quarter", Quarterly.PeriodLabel())
	assert.Equal(t, "half-year", Semiannual.PeriodLabel())
	assert.Equal(t, "frequency(52)", Frequency(52).String())
	assert.Equal(t, "period", Frequency(52).PeriodLabel())
	assert.False(t, Frequency(52).Valid())
	assert.Equal(t, 4, Quarterly.PeriodsPerYear())
}

func TestEnums_YAML(t *testing.T) {
	var doc struct {
		Frequency   Frequency      `yaml:"frequency"`
		Convention  RateConvention `yaml:"convention"`
		Granularity Granularity    `yaml:"granularity"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("frequency: 2\nconvention: effective\ngranularity: annual\n"), &doc))
	assert.Equal(t, Semiannual, doc.Frequency)
	assert.Equal(t, Geometric, doc.Convention)
	assert.Equal(t, PerYear, doc.Granularity)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "frequency: semiannual\nconvention: geometric\ngranularity: year\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("frequency: daily\n"), &doc))
}

func TestEnums_JSON(t *testing.T) {
	var doc struct {
		Frequency  Frequency      `json:"frequency"`
		Convention RateConvention `json:"convention"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"frequency":"quarterly","convention":"nominal"}`), &doc))
	assert.Equal(t, Quarterly, doc.Frequency)
	assert.Equal(t, Nominal, doc.Convention)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"frequency":"quarterly","convention":"nominal"}`, string(out))
}

func TestParseRateConventionAndGranularity(t *testing.T) {
	_, err := ParseRateConvention("continuous")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "rate_convention")

	g, err := ParseGranularity("periodic")
	require.NoError(t, err)
	assert.Equal(t, PerPeriod, g)

	_, err = ParseGranularity("day")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestParseRiskProfile(t *testing.T) {
	p, err := ParseRiskProfile("growth")
	require.NoError(t, err)
	assert.Equal(t, ProfileGrowth, p)

	_, err = ParseRiskProfile("reckless")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
