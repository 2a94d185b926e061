package pipeline

import (
	"context"
	"fmt"

	"nba-season-dashboard/internal/model"
)

// ValidateRecords checks that every record carries the structural columns of
// the schema. A single worker keeps file order, which entity extraction relies on.
// The first invalid record is returned through fail and stops the stage.
func ValidateRecords(
	ctx context.Context,
	schema model.Schema,
	in <-chan model.GenericRecord,
	out chan<- model.GenericRecord,
	fail func(error),
	tracker *LoadTracker,
	label string,
) {
	defer close(out)

	validCount := 0
	for rec := range in {
		tracker.RecordIngested(label)
		if err := validateRecord(rec, schema); err != nil {
			tracker.RecordInvalid(label)
			fmt.Printf("❌ Validation: invalid record in %s - %v\n", label, err)
			fail(err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case out <- rec:
			validCount++
		}
	}

	fmt.Printf("🔍 Validation Summary (%s): %d valid records\n", label, validCount)
}

// validateRecord applies the schema's required-column rules to a record.
func validateRecord(rec model.GenericRecord, schema model.Schema) error {
	row, _ := rec[RowKey].(int)
	for _, field := range schema.RequiredColumns() {
		if _, ok := rec[field]; !ok {
			return &LoadError{Row: row, Err: fmt.Errorf("missing required field: %s", field)}
		}
	}
	return nil
}

// validateHeaders checks the header of a source against the schema, so that
// an empty file with a wrong header still fails.
func validateHeaders(headers []string, schema model.Schema) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, c := range schema.RequiredColumns() {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %v", missing)
	}
	return nil
}
