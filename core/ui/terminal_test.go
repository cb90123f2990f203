package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsByRunes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Service", "Cost").AlignRight(1)
	table.AddRow("Salary & Payroll", "kr 1 900")
	table.AddRow("Bookkeeping", "kr 3 200", "ignored")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Service          │     Cost", lines[0])
	assert.Equal(t, "Salary & Payroll │ kr 1 900", lines[2])
	assert.Equal(t, "Bookkeeping      │ kr 3 200", lines[3])
}

func TestColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Success("saved %d", 2)
	w.Warning("careful")
	w.Error("broken")

	assert.Equal(t, "✓ saved 2\n⚠ careful\n✗ broken\n", buf.String())
	assert.NotContains(t, buf.String(), "\033[")
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false).SubHeader("Services")
	assert.Equal(t, Bold+"▸ Services"+Reset+"\n", buf.String())
}

func TestVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Debug("hidden")
	w.SetVerbosity(0)
	w.Info("hidden")
	assert.Empty(t, buf.String())

	w.SetVerbosity(2)
	w.Debug("shown")
	assert.Equal(t, "  shown\n", buf.String())
}

func TestTotalBox(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	box := w.NewTotalBox()
	box.Total = "kr 8 200"
	box.Render()
	assert.Contains(t, buf.String(), "Monthly total: kr 8 200")

	buf.Reset()
	box.Error = "Revenue cannot be negative"
	box.Render()
	assert.Equal(t, "✗ Revenue cannot be negative\n", buf.String())
}

func TestHeadlessTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewWriter(&buf, true).NewTable("", "").AlignRight(1)
	table.AddRow("Subtotal", "100")
	table.AddRow("Premium", "50")
	table.Render()

	assert.Equal(t, "Subtotal │ 100\nPremium  │  50\n", buf.String())
}
