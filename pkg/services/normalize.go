package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/common"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/rowsource"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CategoryRow is a decoded category import row.
type CategoryRow struct {
	Name           string `validate:"required"`
	Description    string
	ParentCategory string
}

// ProductRow is a decoded product import row. Category holds a display name or
// slug, never an id.
type ProductRow struct {
	Name             string `validate:"required"`
	Description      string `validate:"required"`
	ShortDescription string
	Category         string `validate:"required"`
	Origin           string
	Specifications   map[string]string
	Certifications   []string
	PackagingOptions []string
}

var requiredMessages = map[string]string{
	"CategoryRow.Name":       "Category name is required",
	"ProductRow.Name":        "Product name is required",
	"ProductRow.Description": "Product description is required",
	"ProductRow.Category":    "Category is required",
}

func DecodeCategoryRow(row rowsource.Row) (CategoryRow, error) {
	decoded := CategoryRow{
		Name:           field(row, "name"),
		Description:    field(row, "description"),
		ParentCategory: field(row, "parentCategory"),
	}
	return decoded, validateRow(decoded)
}

func DecodeProductRow(row rowsource.Row) (ProductRow, error) {
	decoded := ProductRow{
		Name:             field(row, "name"),
		Description:      field(row, "description"),
		ShortDescription: field(row, "shortDescription"),
		Category:         field(row, "category"),
		Origin:           field(row, "origin"),
		Certifications:   SplitList(row["certifications"]),
		PackagingOptions: SplitList(row["packagingOptions"]),
	}
	if err := validateRow(decoded); err != nil {
		return decoded, err
	}

	specs, err := ParseSpecifications(row["specifications"])
	if err != nil {
		return decoded, err
	}
	decoded.Specifications = specs

	if decoded.ShortDescription == "" {
		decoded.ShortDescription = Truncate(decoded.Description, common.SHORT_DESCRIPTION_LENGTH)
	}
	if decoded.Origin == "" {
		decoded.Origin = models.DefaultOrigin
	}
	return decoded, nil
}

// ParseSpecifications decodes a JSON object into a flat string map. Scalar
// values are stringified; nested objects and arrays are rejected.
func ParseSpecifications(text string) (map[string]string, error) {
	specs := map[string]string{}
	if strings.TrimSpace(text) == "" {
		return specs, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil || raw == nil {
		return nil, FormatError("Invalid specifications JSON format")
	}

	for key, value := range raw {
		switch v := value.(type) {
		case string:
			specs[key] = v
		case float64:
			specs[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			specs[key] = strconv.FormatBool(v)
		case nil:
			specs[key] = ""
		default:
			return nil, FormatError("Invalid specifications JSON format: %q must be a text value", key)
		}
	}
	return specs, nil
}

// SplitList splits comma separated text, trimming entries and dropping
// empty ones.
func SplitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func field(row rowsource.Row, name string) string {
	return strings.TrimSpace(row[name])
}

func validateRow(row any) error {
	err := common.Validate.Struct(row)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := requiredMessages[fieldErrs[0].StructNamespace()]; ok {
			return ValidationError("%s", msg)
		}
		return ValidationError("%s is required", fieldErrs[0].Field())
	}
	return ValidationError("%s", err.Error())
}

// validateRequest checks validate tags on an API payload and reports the
// first failing field.
func validateRequest(req any) error {
	err := common.Validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
	return ValidationError("%s", err.Error())
}
