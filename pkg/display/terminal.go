package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgHiBlack)
	valueColor  = color.New(color.FgWhite, color.Bold)
	errorColor  = color.New(color.FgRed)
)

// WriteText renders panel p to a terminal.
func WriteText(w io.Writer, p tzlookup.Panel, snap Snapshot) error {
	var out strings.Builder

	out.WriteString(headerColor.Sprint("🌍 " + Title(p)))
	out.WriteString("\n" + strings.Repeat("─", 50) + "\n")

	if p == tzlookup.Address && snap.Shown(tzlookup.BlockError) {
		out.WriteString(errorColor.Sprint("✗ " + snap.Get(tzlookup.BlockError)))
		out.WriteString("\n")
	}

	if resultShown(p, snap) {
		width := 0
		for _, label := range labels {
			width = max(width, len(label))
		}
		for _, row := range Rows(p, snap) {
			value := row.Value
			if value == tzlookup.Placeholder {
				value = labelColor.Sprint(value)
			} else {
				value = valueColor.Sprint(value)
			}
			fmt.Fprintf(&out, "  %s  %s\n", labelColor.Sprintf("%-*s", width, row.Label), value)
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}
