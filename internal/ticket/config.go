// Package ticket renders receipts as fixed-width monospace text for thermal
// and letter printers. Rendering is a pure function of a Config and the
// document data; nothing here reads global state.
package ticket

// DefaultLineWidth is the width of a 58mm thermal roll.
const DefaultLineWidth = 32

// Config carries the printer and business parameters used at render time.
type Config struct {
	// LineWidth is 32, 40 or 48; any other value renders at DefaultLineWidth
	LineWidth    int
	BusinessName string
	Footer       string
	RFC          string
	TerminalID   string
}

// Width returns the effective line width.
func (c Config) Width() int {
	switch c.LineWidth {
	case 32, 40, 48:
		return c.LineWidth
	}
	return DefaultLineWidth
}
