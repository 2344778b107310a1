package model

import (
	U "campaigniq/util"

	"github.com/pkg/errors"
)

// Violation reasons.
const (
	ViolationMissingColumn  = "missing_column"
	ViolationMalformedValue = "malformed_value"
)

// SchemaViolation names one offending column. RowIndices is capped at
// the configured maximum so error payloads stay bounded; RowCount is
// the uncapped total.
type SchemaViolation struct {
	Column     string `json:"column"`
	Reason     string `json:"reason"`
	RowIndices []int  `json:"row_indices,omitempty"`
	RowCount   int    `json:"row_count"`
}

// ValidationResult is the outcome of validating one table. An empty
// table is valid-but-empty, not an error.
type ValidationResult struct {
	Kind       string            `json:"kind"`
	RowCount   int               `json:"row_count"`
	Violations []SchemaViolation `json:"violations,omitempty"`
}

func (vr *ValidationResult) IsValid() bool {
	return len(vr.Violations) == 0
}

// invalidRowSet returns the set of row indices with at least one
// malformed value. Missing-column violations invalidate no individual
// row; they fail the whole column.
func (vr *ValidationResult) invalidRowSet() map[int]bool {
	invalid := make(map[int]bool)
	for _, v := range vr.Violations {
		for _, idx := range v.RowIndices {
			invalid[idx] = true
		}
	}
	return invalid
}

// cellConforms checks a single cell against its column spec.
func cellConforms(spec ColumnSpec, value interface{}) bool {
	switch spec.Type {
	case ColumnTypeString:
		str, ok := U.GetValueAsString(value)
		if !ok || str == "" {
			return false
		}
		if len(spec.Enum) > 0 && !U.ContainsStringInArray(spec.Enum, str) {
			return false
		}
		return true
	case ColumnTypeInteger:
		n, ok := U.GetValueAsInt64(value)
		if !ok {
			return false
		}
		return !spec.NonNegative || n >= 0
	case ColumnTypeDecimal:
		f, ok := U.GetValueAsFloat64(value)
		if !ok {
			return false
		}
		return !spec.NonNegative || f >= 0
	case ColumnTypeDate:
		_, err := U.ParseDate(value)
		return err == nil
	}
	return false
}

// ValidateTable checks table against the required-column contract for
// kind. Pure: the table is never modified. maxViolationRows caps the
// per-column offending row indices reported back.
func ValidateTable(kind string, table Table, maxViolationRows int) (*ValidationResult, error) {
	if !IsValidDatasetKind(kind) {
		return nil, errors.Errorf("unknown dataset kind %q", kind)
	}
	if maxViolationRows <= 0 {
		return nil, errors.Errorf("invalid violation row cap %d", maxViolationRows)
	}

	result := &ValidationResult{Kind: kind, RowCount: len(table)}
	if len(table) == 0 {
		return result, nil
	}

	for _, spec := range requiredColumns[kind] {
		present := false
		for _, row := range table {
			if _, exists := row[spec.Name]; exists {
				present = true
				break
			}
		}
		if !present {
			result.Violations = append(result.Violations, SchemaViolation{
				Column: spec.Name, Reason: ViolationMissingColumn, RowCount: len(table)})
			continue
		}

		// Column exists. Rows where it is absent or unparseable are
		// malformed for that column.
		var badIndices []int
		badCount := 0
		for i, row := range table {
			value, exists := row[spec.Name]
			if exists && cellConforms(spec, value) {
				continue
			}
			badCount++
			if len(badIndices) < maxViolationRows {
				badIndices = append(badIndices, i)
			}
		}
		if badCount > 0 {
			result.Violations = append(result.Violations, SchemaViolation{
				Column: spec.Name, Reason: ViolationMalformedValue,
				RowIndices: badIndices, RowCount: badCount})
		}
	}
	return result, nil
}
