package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// Format renders any value as indented JSON
func (f *DefaultJSONFormatter) Format(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// PrintBestConfig prints configuration as JSON
func (f *DefaultJSONFormatter) PrintBestConfig(w io.Writer, config interface{}) {
	data, err := f.Format(config)
	if err != nil {
		fmt.Fprintf(w, "❌ Failed to format config: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// WriteResultJSON writes the result bundle to a JSON file
func WriteResultJSON(report *RunReport, path string) error {
	return writeJSON(report, path)
}

// WriteBestConfigJSON writes configuration to JSON file
func WriteBestConfigJSON(config interface{}, path string) error {
	return writeJSON(config, path)
}

func writeJSON(v interface{}, path string) error {
	data, err := NewDefaultJSONFormatter().Format(v)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
