package ui

// DisplayConfig holds configuration for UI rendering
type DisplayConfig struct {
	// Truncation limits
	MaxMessageLength  int
	MaxAuthorLength   int
	MaxPathLength     int
	MaxPreviewChanges int

	// Display lengths
	DefaultTerminalWidth int

	// Tree settings
	TreeIndent string

	// Date formatting
	DateLayout string
}

// DefaultConfig returns the default display configuration
func DefaultConfig() DisplayConfig {
	return DisplayConfig{
		MaxMessageLength:  60,
		MaxAuthorLength:   20,
		MaxPathLength:     70,
		MaxPreviewChanges: 8,

		DefaultTerminalWidth: 120,

		TreeIndent: "  ",

		DateLayout: "2006-01-02 15:04",
	}
}

// Global display configuration (can be overridden)
var Display = DefaultConfig()

// SetDisplayConfig updates the global display configuration
func SetDisplayConfig(c DisplayConfig) {
	Display = c
}
