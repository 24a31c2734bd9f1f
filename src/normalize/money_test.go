// backend/src/normalize/money_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"R$ 100,00", "100"},
		{"R$1.234,56", "1234.56"},
		{"-50,25", "-50.25"},
		{"1234.56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234.567,89", "1234567.89"},
		{"1.234.567", "1234567"},
		{"0,01", "0.01"},
		{"42", "42"},
		{`"15,90"`, "15.9"},
		{"R$ 1 234,56", "1234.56"},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got.String(), "input %q", tt.in)
	}
}

func TestParseMoneyAmbiguousDot(t *testing.T) {
	// "1.234" reads as one thousand two hundred and thirty four under the
	// Brazilian heuristic, and as a plain decimal with it disabled.
	old := ThousandsHeuristic
	defer func() { ThousandsHeuristic = old }()

	ThousandsHeuristic = true
	got, err := ParseMoney("1.234")
	require.NoError(t, err)
	assert.Equal(t, "1234", got.String())

	got, err = ParseMoney("-1.234")
	require.NoError(t, err)
	assert.Equal(t, "-1234", got.String())

	// Four integer digits cannot be grouping with a single dot.
	got, err = ParseMoney("1234.567")
	require.NoError(t, err)
	assert.Equal(t, "1234.567", got.String())

	// Two fractional digits is always a decimal.
	got, err = ParseMoney("1.23")
	require.NoError(t, err)
	assert.Equal(t, "1.23", got.String())

	ThousandsHeuristic = false
	got, err = ParseMoney("1.234")
	require.NoError(t, err)
	assert.Equal(t, "1.234", got.String())
}

func TestParseMoneyErrors(t *testing.T) {
	_, err := ParseMoney("")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseMoney("R$ ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseMoney("-")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseMoney("abc")
	assert.Error(t, err)

	_, err = ParseMoney("12,34,56")
	assert.Error(t, err)
}
