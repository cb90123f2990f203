package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/session"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
)

// Locale data may group with either kind of no-break space
func plainSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func usd(t *testing.T) *CurrencyFormatter {
	t.Helper()
	f, err := NewCurrencyFormatter("en-US", types.CurrencyUSD, WithSymbol("$"))
	require.NoError(t, err)
	return f
}

func TestCurrencyFormatting(t *testing.T) {
	f := usd(t)
	assert.Equal(t, "$3,200", f.Format(3200))
	assert.Equal(t, "$0", f.Format(0))
	assert.Equal(t, "-$1,500", f.Format(-1500))
	assert.Equal(t, "USD", f.Currency())

	nok, err := NewCurrencyFormatter("", types.CurrencyNOK, WithSymbol("kr"))
	require.NoError(t, err)
	assert.Equal(t, "3 200 kr", plainSpaces(nok.Format(3200)))
	assert.Equal(t, "1 234 568 kr", plainSpaces(nok.Format(1234568)))

	code, err := NewCurrencyFormatter("en-US", types.CurrencyEUR, WithSymbol("EUR"))
	require.NoError(t, err)
	assert.Equal(t, "EUR 75", code.Format(75))
}

func TestFormatDecimalRounds(t *testing.T) {
	f := usd(t)
	s := session.New(catalog.DefaultSnapshot(), session.WithLogger(zap.NewNop()))
	line := s.State().Breakdown.Lines[0]
	assert.Equal(t, "$3,200", f.FormatDecimal(line.Cost))
}

func TestCurrencyFormatterRejectsUnknownInputs(t *testing.T) {
	_, err := NewCurrencyFormatter("not a locale!", types.CurrencyNOK)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = NewCurrencyFormatter("en-US", types.Currency("ZZ"))
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func result(t *testing.T, update session.FormUpdate) *EstimateResult {
	t.Helper()
	s := session.New(catalog.DefaultSnapshot(), session.WithLogger(zap.NewNop()))
	s.SetFormData(update)
	return NewEstimateResult(s)
}

func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewCLIFormatter(usd(t), true).Render(&buf, result(t, session.FormUpdate{IsPremium: session.Set(true)}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Bookkeeping")
	assert.Contains(t, out, "$3,200")
	assert.Contains(t, out, "Premium")
	assert.Contains(t, out, "$5,000")
	assert.Contains(t, out, "Monthly total: $8,200")
	assert.Contains(t, out, "Consulting / Freelancers, 0 of 2 questions answered yes")
	assert.NotContains(t, out, "\033[")
}

func TestCLIFormatterShowsValidationError(t *testing.T) {
	var buf bytes.Buffer
	res := result(t, session.FormUpdate{Employees: session.Set(types.NumberOf(0))})
	require.NoError(t, NewCLIFormatter(usd(t), true).Render(&buf, res))

	assert.Equal(t, "✗ "+*res.State.Error+"\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(usd(t)).Render(&buf, result(t, session.FormUpdate{})))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, true, doc["valid"])
	assert.Nil(t, doc["error"])
	assert.Equal(t, 3200.0, doc["total"])
	assert.Equal(t, "$3,200", doc["formattedTotal"])
	assert.Equal(t, "USD", doc["currency"])

	meta := doc["metadata"].(map[string]any)
	assert.Equal(t, 1.0, meta["snapshotVersion"])
	assert.Len(t, meta["snapshotHash"], 64)
}

func TestJSONReportForInvalidForm(t *testing.T) {
	report := NewJSONFormatter(usd(t)).Report(result(t, session.FormUpdate{Revenue: session.Set(types.Blank())}))
	assert.False(t, report.Valid)
	require.NotNil(t, report.Error)
	assert.Zero(t, report.Total)
	assert.Empty(t, report.FormattedTotal)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(usd(t), true)
	assert.Equal(t, []Format{FormatCLI, FormatJSON}, r.Formats())

	f, err := r.Get(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	_, err = r.Get("html")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	assert.Error(t, r.Register(NewJSONFormatter(usd(t))))
}
