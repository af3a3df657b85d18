package display

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/drive"
)

const noValue = "--"

// FormatValue renders a reading with its channel's precision and unit.
// Inactive readings render as "--".
func FormatValue(c biometric.Channel, r biometric.Reading) string {
	if r.Status == biometric.StatusInactive {
		return noValue
	}

	p := biometric.ProfileOf(c)
	return strconv.FormatFloat(r.Value, 'f', p.Decimals, 64) + " " + p.Unit
}

// Snapshot renders one row per channel.
func Snapshot(snap biometric.Snapshot) string {
	rows := make([][]string, 0, len(biometric.Channels))
	for _, c := range biometric.Channels {
		r := snap.Reading(c)
		rows = append(rows, []string{
			biometric.ProfileOf(c).Name,
			FormatValue(c, r),
			StatusBadge(r.Status),
		})
	}

	return RenderTable([]string{"CHANNEL", "VALUE", "STATUS"}, rows)
}

// DriveLine renders the drive status line, e.g. "● Driving 00:01:05".
func DriveLine(s drive.Status) string {
	if s.Active {
		return StatusStyle(biometric.StatusNormal).Render("● Driving") + " " + Bold(s.ElapsedFormatted)
	}

	return Dim("○ Not driving") + " " + s.ElapsedFormatted
}

// Alert renders an alert card with its explanation and recommendations.
func Alert(a alert.Alert) string {
	content := a.Kind.Content()
	status := biometric.StatusWarning
	if a.Kind == alert.KindHealth {
		status = biometric.StatusCritical
	}

	var b strings.Builder
	b.WriteString(StatusStyle(status).Bold(true).Render(content.Title))
	b.WriteString("\n")
	b.WriteString(content.Description)
	b.WriteString("\n\n")
	b.WriteString(Dim(content.Explanation))
	b.WriteString("\n")
	for i, rec := range content.Recommendations {
		fmt.Fprintf(&b, "\n%d. %s", i+1, rec)
	}
	for _, c := range a.Notified {
		fmt.Fprintf(&b, "\n%s %s (%s)", Dim("notified"), c.Name, c.Phone)
	}

	return RenderBox(content.SheetTitle, b.String())
}
