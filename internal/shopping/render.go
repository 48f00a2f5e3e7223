package shopping

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format selects the layout of a rendered shopping list.
type Format int

const (
	// FormatPrint is a boxed checklist ready to be printed.
	FormatPrint Format = iota
	// FormatNotes is plain text that notes apps can turn into a checklist.
	FormatNotes
)

const (
	title        = "My Shopping List"
	recipeHeader = "Recipes:"

	borderSide   = "|"
	borderCorner = "+"
	borderFill   = "-"
)

// ParseFormat resolves a format from its name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "print", "boxed":
		return FormatPrint, nil
	case "notes", "plain", "ios notes":
		return FormatNotes, nil
	}
	return 0, fmt.Errorf("unknown report format %q (want print or notes)", s)
}

func (f Format) String() string {
	switch f {
	case FormatPrint:
		return "print"
	case FormatNotes:
		return "notes"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// line is one row of a report before decoration. Rule rows carry no text.
type line struct {
	text string
	rule bool
}

// Render lays the list out as text. Ingredients and recipe names are sorted
// so the same list always renders the same report. An empty list renders
// to the empty string.
func (l *ShoppingList) Render(format Format) string {
	if l.IsEmpty() {
		return ""
	}

	lines := l.layout(format)

	var sb strings.Builder
	switch format {
	case FormatPrint:
		writeBoxed(&sb, lines)
	default:
		writePlain(&sb, lines)
	}
	return sb.String()
}

func (l *ShoppingList) layout(format Format) []line {
	rule := line{rule: true}
	lines := []line{{text: title}, rule}

	for _, it := range l.Items() {
		qty := formatQuantity(it.Measure.Quantity)
		if format == FormatPrint {
			lines = append(lines,
				line{text: "[_] " + it.Name},
				line{text: fmt.Sprintf("    * %s %s", qty, it.Measure.Unit)},
			)
			continue
		}
		lines = append(lines, line{text: fmt.Sprintf("%s: %s %s", it.Name, qty, it.Measure.Unit)})
	}

	lines = append(lines, rule, line{text: recipeHeader})
	for _, name := range l.RecipeNames() {
		lines = append(lines, line{text: "- " + name})
	}
	return append(lines, rule)
}

// formatQuantity rounds up so the list never under-buys. Amounts beyond the
// int64 range are printed in full.
func formatQuantity(q float64) string {
	c := math.Ceil(q)
	if c == 0 {
		c = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(c, 'f', 0, 64)
}

// writeBoxed pads every row to the widest row plus one column and wraps it in
// side borders. Rule rows become a full-width run of the fill character
// between corners.
func writeBoxed(sb *strings.Builder, lines []line) {
	width := 0
	for _, ln := range lines {
		if w := runewidth.StringWidth(ln.text); w > width {
			width = w
		}
	}
	width++

	for _, ln := range lines {
		if ln.rule {
			sb.WriteString(borderCorner + strings.Repeat(borderFill, width) + borderCorner + "\n")
			continue
		}
		sb.WriteString(borderSide + runewidth.FillRight(ln.text, width) + borderSide + "\n")
	}
}

func writePlain(sb *strings.Builder, lines []line) {
	for _, ln := range lines {
		sb.WriteString(ln.text)
		sb.WriteString("\n")
	}
}
