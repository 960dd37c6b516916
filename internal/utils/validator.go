// internal/utils/validator.go
package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/shopkz-search/internal/i18n"
	"github.com/javajoker/shopkz-search/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("percent", validatePercent)
	validate.RegisterTagNameFunc(jsonFieldName)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validatePercent accepts strings that parse as a number in [0, 100].
func validatePercent(fl validator.FieldLevel) bool {
	value, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	if err != nil {
		return false
	}
	return value >= 0 && value <= 100
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// ValidationError describes one invalid field of a result payload.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ResultsValidationError lists every violation found in a result payload.
type ResultsValidationError struct {
	Errors []ValidationError
}

func (e *ResultsValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	first := e.Errors[0]
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", first.Message)
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", first.Message, len(e.Errors)-1)
}

// Localize returns the violations with messages in the given language.
func (e *ResultsValidationError) Localize(lang string) []ValidationError {
	localized := make([]ValidationError, len(e.Errors))
	for i, ve := range e.Errors {
		ve.Message = getValidationMessage(lang, ve)
		localized[i] = ve
	}
	return localized
}

// ValidateResults decodes and checks every raw upstream product. It returns
// the typed items, or a *ResultsValidationError naming each invalid field.
func ValidateResults(items []json.RawMessage) ([]models.ResultItem, error) {
	results := make([]models.ResultItem, 0, len(items))
	var violations []ValidationError

	for i, raw := range items {
		prefix := fmt.Sprintf("results[%d]", i)

		var item models.ResultItem
		typeField := ""
		if err := json.Unmarshal(raw, &item); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) || typeErr.Field == "" {
				// Not an object at all, nothing else to check.
				violations = append(violations, newValidationError(prefix, "type", ""))
				continue
			}
			typeField = prefix + typeErrorPath(raw, typeErr)
			violations = append(violations, newValidationError(typeField, "type", ""))
		}

		if err := ValidateStruct(&item); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return nil, err
			}
			for _, fe := range fieldErrs {
				path := joinPath(prefix, namespacePath(fe.Namespace()))
				if typeField != "" && withinPath(path, typeField) {
					continue
				}
				violations = append(violations, newValidationError(path, fe.Tag(), fe.Param()))
			}
		}

		results = append(results, item)
	}

	if len(violations) > 0 {
		return nil, &ResultsValidationError{Errors: violations}
	}
	return results, nil
}

// typeErrorPath returns the path of a decode type error relative to the item,
// with slice indices. UnmarshalTypeError.Field has none, so the offending
// value is found by walking raw along that field.
func typeErrorPath(raw json.RawMessage, typeErr *json.UnmarshalTypeError) string {
	segments := strings.Split(typeErr.Field, ".")
	if path, ok := locateTypeError(raw, segments, typeErr.Type); ok {
		return path
	}
	return "." + typeErr.Field
}

func locateTypeError(raw json.RawMessage, segments []string, target reflect.Type) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' && (len(segments) > 0 || target.Kind() != reflect.Slice) {
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return "", false
		}
		for i, elem := range elems {
			if path, ok := locateTypeError(elem, segments, target); ok {
				return fmt.Sprintf("[%d]%s", i, path), true
			}
		}
		return "", false
	}

	if len(segments) == 0 {
		return "", json.Unmarshal(trimmed, reflect.New(target).Interface()) != nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return "", false
	}
	value, ok := obj[segments[0]]
	if !ok {
		return "", false
	}
	path, ok := locateTypeError(value, segments[1:], target)
	if !ok {
		return "", false
	}
	return "." + segments[0] + path, true
}

// NewResultsTypeError reports a payload whose result list is not a list.
func NewResultsTypeError() *ResultsValidationError {
	return &ResultsValidationError{Errors: []ValidationError{newValidationError("results", "type", "")}}
}

func newValidationError(field, tag, param string) ValidationError {
	ve := ValidationError{Field: field, Tag: tag, Param: param}
	ve.Message = getValidationMessage(i18n.DefaultLanguage(), ve)
	return ve
}

// namespacePath drops the root struct name from a validator namespace.
func namespacePath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return ""
}

// withinPath reports whether path is root or one of its nested fields.
func withinPath(path, root string) bool {
	if !strings.HasPrefix(path, root) {
		return false
	}
	rest := path[len(root):]
	return rest == "" || rest[0] == '.' || rest[0] == '['
}

func joinPath(prefix, field string) string {
	if field == "" {
		return prefix
	}
	return prefix + "." + field
}

func getValidationMessage(lang string, e ValidationError) string {
	switch e.Tag {
	case "required":
		return i18n.T(lang, i18n.KeyValidationRequired, e.Field)
	case "type":
		return i18n.T(lang, i18n.KeyValidationType, e.Field)
	case "gt":
		return i18n.T(lang, i18n.KeyValidationGT, e.Field, e.Param)
	case "gte":
		return i18n.T(lang, i18n.KeyValidationGTE, e.Field, e.Param)
	case "lte":
		return i18n.T(lang, i18n.KeyValidationLTE, e.Field, e.Param)
	case "percent":
		return i18n.T(lang, i18n.KeyValidationPercent, e.Field)
	case "number":
		return i18n.T(lang, i18n.KeyValidationNumber, e.Field)
	default:
		return i18n.T(lang, i18n.KeyValidationInvalid, e.Field)
	}
}
