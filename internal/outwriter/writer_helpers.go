// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/clutchmetrics/clutch/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// labelFor returns the tier label for a CPI value, colored when enabled.
func labelFor(cpi float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(cpi)
	}
	return contract.GetPlainLabel(cpi)
}

// colorDelta formats a difference value, colored by sign when enabled.
// Positive deltas render green, negative red, zero yellow.
func colorDelta(delta float64, fmtFloat func(float64) string, useColors bool) string {
	s := fmtFloat(delta)
	if !useColors {
		return s
	}
	switch {
	case delta > 0:
		return color.New(color.FgGreen).SprintFunc()(s)
	case delta < 0:
		return color.New(color.FgRed).SprintFunc()(s)
	default:
		return color.New(color.FgYellow).SprintFunc()(s)
	}
}

// requireOutputFile enforces that parquet output goes to a file, never stdout.
func requireOutputFile(outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	return nil
}
