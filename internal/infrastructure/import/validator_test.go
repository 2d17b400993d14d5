package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRow(line int, data map[string]string) *Row {
	return &Row{LineNumber: line, Data: data}
}

func TestFieldRuleBuilder(t *testing.T) {
	rule := Field("QID Number").
		Required().
		Pattern(`^\d{11}$`, "11 digits").
		Unique().
		MaxLength(11).
		Build()

	assert.Equal(t, "QID Number", rule.Column)
	assert.True(t, rule.Required)
	assert.True(t, rule.Unique)
	assert.Equal(t, 11, rule.MaxLength)
	assert.NotNil(t, rule.Pattern)
	assert.Equal(t, "11 digits", rule.PatternDesc)
}

func TestFieldValidator_Required(t *testing.T) {
	rules := []FieldRule{
		Field("First Name").Required().Build(),
		Field("Job Title").Build(),
	}
	v := NewFieldValidator(rules, 10)

	t.Run("missing required field fails", func(t *testing.T) {
		ok := v.ValidateRow(makeRow(2, map[string]string{"First Name": "", "Job Title": ""}))
		assert.False(t, ok)
		assert.Equal(t, ErrCodeImportRequiredField, v.Errors().Errors()[0].Code)
	})

	t.Run("empty optional field passes", func(t *testing.T) {
		v.Reset()
		ok := v.ValidateRow(makeRow(3, map[string]string{"First Name": "Fatima", "Job Title": ""}))
		assert.True(t, ok)
	})
}

func TestFieldValidator_Date(t *testing.T) {
	rules := []FieldRule{
		Field("QID Expiry").Date().Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"QID Expiry": "2027-06-01"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"QID Expiry": "01/06/2027"})))
	assert.Equal(t, ErrCodeImportInvalidFormat, v.Errors().Errors()[0].Code)
}

func TestFieldValidator_Pattern(t *testing.T) {
	rules := []FieldRule{
		Field("QID Number").Pattern(`^\d{11}$`, "11 digits").Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"QID Number": "28912345678"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"QID Number": "2891234567A"})))
	assert.Equal(t, ErrCodeImportPatternMismatch, v.Errors().Errors()[0].Code)
}

func TestFieldValidator_OneOf(t *testing.T) {
	rules := []FieldRule{
		Field("ID Type").Required().OneOf("QID", "PASSPORT").Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"ID Type": "QID"})))
	assert.True(t, v.ValidateRow(makeRow(3, map[string]string{"ID Type": "passport"})))
	assert.False(t, v.ValidateRow(makeRow(4, map[string]string{"ID Type": "VISA"})))
	assert.Equal(t, ErrCodeImportInvalidValue, v.Errors().Errors()[0].Code)
}

func TestFieldValidator_MaxLength(t *testing.T) {
	rules := []FieldRule{
		Field("Organization").MaxLength(5).Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"Organization": "BCQ"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"Organization": "A Very Long Name"})))
	assert.Equal(t, ErrCodeImportInvalidLength, v.Errors().Errors()[0].Code)
}

func TestFieldValidator_UniqueInFile(t *testing.T) {
	rules := []FieldRule{
		Field("QID Number").Unique().Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"QID Number": "28912345678"})))
	assert.True(t, v.ValidateRow(makeRow(3, map[string]string{"QID Number": "29912345678"})))

	// Second occurrence is the error, citing the first row
	assert.False(t, v.ValidateRow(makeRow(5, map[string]string{"QID Number": "28912345678"})))

	errs := v.Errors().Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeImportDuplicateInFile, errs[0].Code)
	assert.Equal(t, 5, errs[0].Row)
	assert.Contains(t, errs[0].Message, "first seen in row 2")
}

func TestFieldValidator_UniqueCaseInsensitive(t *testing.T) {
	rules := []FieldRule{
		Field("Passport Number").Unique().Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"Passport Number": "p1234567"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"Passport Number": "P1234567"})))
}

func TestFieldValidator_Custom(t *testing.T) {
	rules := []FieldRule{
		Field("Access Group").Custom(func(value string) error {
			if value == "Restricted" {
				return errors.New("group is not importable")
			}
			return nil
		}).Build(),
	}
	v := NewFieldValidator(rules, 10)

	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"Access Group": "Media"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"Access Group": "Restricted"})))
	assert.Equal(t, ErrCodeImportValidation, v.Errors().Errors()[0].Code)
}

func TestFieldValidator_Reset(t *testing.T) {
	rules := []FieldRule{
		Field("QID Number").Unique().Build(),
	}
	v := NewFieldValidator(rules, 10)

	require.True(t, v.ValidateRow(makeRow(2, map[string]string{"QID Number": "28912345678"})))
	v.Reset()

	// Same value passes again after reset
	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"QID Number": "28912345678"})))
	assert.False(t, v.Errors().HasErrors())
}

func TestReferenceValidator(t *testing.T) {
	lookups := 0
	lookup := func(refType, value string) (bool, error) {
		lookups++
		if refType == "access group" {
			return value == "Media" || value == "VIP", nil
		}
		return false, errors.New("unknown reference type")
	}

	t.Run("valid reference passes", func(t *testing.T) {
		v := NewReferenceValidator(lookup, 10)
		assert.True(t, v.ValidateReference(2, "Access Group", "access group", "Media"))
		assert.False(t, v.Errors().HasErrors())
	})

	t.Run("unknown value fails", func(t *testing.T) {
		v := NewReferenceValidator(lookup, 10)
		assert.False(t, v.ValidateReference(3, "Access Group", "access group", "Catering"))
		assert.Equal(t, ErrCodeImportRefNotFound, v.Errors().Errors()[0].Code)
	})

	t.Run("empty value passes", func(t *testing.T) {
		v := NewReferenceValidator(lookup, 10)
		assert.True(t, v.ValidateReference(4, "Access Group", "access group", ""))
	})

	t.Run("results are cached", func(t *testing.T) {
		v := NewReferenceValidator(lookup, 10)
		lookups = 0
		v.ValidateReference(2, "Access Group", "access group", "Media")
		v.ValidateReference(3, "Access Group", "access group", "Media")
		v.ValidateReference(4, "Access Group", "access group", "Media")
		assert.Equal(t, 1, lookups)
	})

	t.Run("lookup error is reported", func(t *testing.T) {
		v := NewReferenceValidator(lookup, 10)
		assert.False(t, v.ValidateReference(5, "Access Group", "bogus", "Media"))
		assert.Equal(t, ErrCodeImportValidation, v.Errors().Errors()[0].Code)
	})
}
