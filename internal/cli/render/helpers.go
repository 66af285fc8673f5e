package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	labelStyle     = color.New(color.FgWhite, color.Bold)
	addressStyle   = color.New(color.FgBlue)
	timestampStyle = color.New(color.Faint)
	goodStyle      = color.New(color.FgGreen)
	badStyle       = color.New(color.FgRed)
	pendingStyle   = color.New(color.FgYellow)
	activeStyle    = color.New(color.FgCyan)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep only the innermost message of an error chain
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// WriteJSON writes v as indented JSON
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// humanize turns an identifier such as "reward_eligible" into "Reward Eligible"
func humanize(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// tokens formats an 18-decimal amount
func tokens(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return domain.FormatDecimal(v, domain.CanonicalDecimals)
}

// amount formats a base-unit integer
func amount(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// newTable creates a borderless table in the style of the list views
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	return t
}

// field writes an aligned "Label: value" line
func field(out io.Writer, label, value string) {
	labelStyle.Fprintf(out, "%-12s", label+":")
	fmt.Fprintf(out, " %s\n", value)
}
