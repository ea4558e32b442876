package docmerge

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Anna", "Anna"},
		{"whole float", 5.0, "5"},
		{"negative whole float", -12.0, "-12"},
		{"large whole float", 123456789.0, "123456789"},
		{"fractional float", 5.25, "5.25"},
		{"small fraction", 0.1, "0.1"},
		{"nan", math.NaN(), ""},
		{"int", 42, "42"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestRowValueMissingColumn(t *testing.T) {
	row := Row{"Namn": "Anna"}
	assert.Equal(t, "Anna", row.Value("Namn"))
	assert.Equal(t, "", row.Value("Adress"))
}

func TestMappingValidate(t *testing.T) {
	require.NoError(t, DefaultMapping.Validate())

	dup := Mapping{{"Name", "A"}, {"Name", "B"}}
	assert.ErrorContains(t, dup.Validate(), "duplicate placeholder")

	empty := Mapping{{"", "A"}}
	assert.ErrorContains(t, empty.Validate(), "empty placeholder")
}

func TestLoadMappingKeepsOrder(t *testing.T) {
	src := `
Postal Code: Postadress
Name: Namn
Car Number: Registreringsnr
`
	m, err := LoadMapping(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, Mapping{
		{Placeholder: "Postal Code", Column: "Postadress"},
		{Placeholder: "Name", Column: "Namn"},
		{Placeholder: "Car Number", Column: "Registreringsnr"},
	}, m)
}

func TestLoadMappingRejectsNonMapping(t *testing.T) {
	_, err := LoadMapping(strings.NewReader("- Name\n- Address\n"))
	assert.Error(t, err)

	_, err = LoadMapping(strings.NewReader(""))
	assert.Error(t, err)

	_, err = LoadMapping(strings.NewReader("Name:\n  nested: value\n"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	assert.Equal(t, "{{Car Number}}", Token("Car Number"))
}
