package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"R$1.234,56", "1234.56"},
		{"  R$ 1.234,56  ", "1234.56"},
		{"R$\u00a01.234,56", "1234.56"},
		{"100,00", "100"},
		{"-50,00", "-50"},
		{"R$ -1.500,00", "-1500"},
		{"1.500", "1500"},
		{"1.234.567,89", "1234567.89"},
		{"0,5", "0.5"},
		{"42", "42"},
		{"1500.5", "1500.5"},
		{"100.00", "100"},
		{"R$ 1,234.56", "1234.56"},
		{"R$ -1,000.00", "-1000"},
		{"€ 12,30", "12.3"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "R$", "abc", "12,34,56", "1.2.3", "--5", "1e3", "12a"} {
		_, err := ParseAmount(in)
		require.Error(t, err, "ParseAmount(%q)", in)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestParseAmount_BrazilianThousandsForm(t *testing.T) {
	// Every "R$ x.xxx,yy" string yields the exact decimal.
	for _, tt := range []struct {
		in   string
		want decimal.Decimal
	}{
		{"R$ 1.234,56", decimal.New(123456, -2)},
		{"R$ 9.999,99", decimal.New(999999, -2)},
		{"R$ 1.000,01", decimal.New(100001, -2)},
	} {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "%s -> %s", tt.in, got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0.00"},
		{"100", "R$ 100.00"},
		{"50", "R$ 50.00"},
		{"-50", "R$ -50.00"},
		{"1234.56", "R$ 1,234.56"},
		{"1234567.891", "R$ 1,234,567.89"},
		{"999.995", "R$ 1,000.00"},
		{"-0.001", "R$ 0.00"},
		{"0.5", "R$ 0.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)), "Format(%s)", tt.in)
	}
}

func TestFormatWith(t *testing.T) {
	assert.Equal(t, "US$ 12.00", FormatWith("US$", decimal.NewFromInt(12)))
}

func TestFormatParseRoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "1", "12.3", "100", "999.99", "1000", "1234.56", "-1234.56", "1000000", "-0.5", "123456789.12"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		got, err := ParseAmount(Format(d))
		require.NoError(t, err, "parsing %q", Format(d))
		assert.True(t, d.Round(2).Equal(got), "round trip %s -> %q -> %s", v, Format(d), got)
	}
}
