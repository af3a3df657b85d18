package display_test

import (
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/contacts"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/drive"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status biometric.Status
		want   string
	}{
		{biometric.StatusNormal, "Normal"},
		{biometric.StatusWarning, "Warning"},
		{biometric.StatusCritical, "Critical"},
		{biometric.StatusInactive, "Inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Contains(t, display.StatusBadge(tt.status), tt.want)
			fg := display.StatusStyle(tt.status).GetForeground()
			assert.Equal(t, lipgloss.Color(tt.status.Color()), fg)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "72 BPM", display.FormatValue(biometric.HeartRate,
		biometric.Reading{Value: 72, Status: biometric.StatusNormal}))
	assert.Equal(t, "36.6 °C", display.FormatValue(biometric.Temperature,
		biometric.Reading{Value: 36.6, Status: biometric.StatusNormal}))
	assert.Equal(t, "--", display.FormatValue(biometric.GSR, biometric.Reading{}))
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := display.RenderTable([]string{"A", "B"}, [][]string{{"long cell", "x"}, {"s", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Empty(t, display.RenderTable(nil, nil))
}

func TestSnapshotInactive(t *testing.T) {
	out := display.Snapshot(biometric.Snapshot{})

	assert.Contains(t, out, "Heart Rate")
	assert.Contains(t, out, "Temperature")
	assert.Equal(t, 4, strings.Count(out, "Inactive"))
}

func TestDriveLine(t *testing.T) {
	assert.Contains(t, display.DriveLine(drive.Status{Active: true, ElapsedFormatted: "00:01:05"}), "00:01:05")
	assert.Contains(t, display.DriveLine(drive.Status{ElapsedFormatted: "00:00:09"}), "Not driving")
}

func TestAlertCard(t *testing.T) {
	a := alert.Alert{
		Kind:     alert.KindHealth,
		RaisedAt: time.Now(),
		Notified: []contacts.Contact{{Name: "Mom", Phone: "010-1234-5678"}},
	}

	out := display.Alert(a)
	assert.Contains(t, out, "Health Alert")
	assert.Contains(t, out, "Pull over safely if possible")
	assert.Contains(t, out, "010-1234-5678")
}
