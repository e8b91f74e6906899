package contract

import (
	"errors"
	"fmt"

	"github.com/clutchmetrics/clutch/schema"
)

// Sentinel errors surfaced to the presentation layer. The layer must be able
// to distinguish "no data for this selection" from "computation failed".
var (
	// ErrNotFound means an unknown player or team identifier was requested.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData means too few labeled examples exist to train the
	// predictor. No partial or degenerate model is returned alongside it.
	ErrInsufficientData = errors.New("insufficient training data")
)

// IntegrityError reports rows dropped for referential integrity reasons
// during loading. It is returned only when the drops exceed
// MaxIntegrityDropFraction of the detail rows read; below that the report
// is logged and processing continues.
type IntegrityError struct {
	Report schema.IntegrityReport
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: dropped %d rows (%d missing game refs, %d missing player refs, %d malformed)",
		e.Report.Dropped(), e.Report.MissingGameRefs, e.Report.MissingPlayerRefs,
		e.Report.MalformedGameRows+e.Report.MalformedDetailRows)
}
