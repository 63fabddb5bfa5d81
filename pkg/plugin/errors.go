package plugin

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels. Match with errors.Is.
var (
	// ErrUnsupportedField is returned when a plugin is asked for a field it does not declare.
	ErrUnsupportedField = errors.New("unsupported field")
	// ErrNotImplemented is returned by contract points nobody provided.
	ErrNotImplemented = errors.New("not implemented")
	// ErrExtractionFailed marks a missing or malformed value from a supporting source.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrExtractorNotFound is the terminal error for an unresolved required field.
	ErrExtractorNotFound = errors.New("extractor not found")
	// ErrGroupingMismatch is returned when DOM and extracted ingredient counts disagree.
	ErrGroupingMismatch = errors.New("ingredient grouping mismatch")
	// ErrUnsupportedSite is returned when a site module is required but none matches the host.
	ErrUnsupportedSite = errors.New("unsupported site")
)

// ExtractionError reports a value that was not found or was present but invalid.
type ExtractionError struct {
	Field   Field
	Value   any
	Invalid bool
}

// Missing returns an ExtractionError for an absent value.
func Missing(field Field) error {
	return &ExtractionError{Field: field}
}

// Invalid returns an ExtractionError carrying the offending raw value.
func Invalid(field Field, value any) error {
	return &ExtractionError{Field: field, Value: value, Invalid: true}
}

func (e *ExtractionError) Error() string {
	if e.Invalid {
		return fmt.Sprintf("invalid value for %q: %v", e.Field.String(), e.Value)
	}
	return "missing required field: " + e.Field.String()
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailed }

// NotFoundError is returned once plugins, override and defaults are exhausted.
type NotFoundError struct {
	Field Field
}

func (e *NotFoundError) Error() string {
	return "no extractor found for field: " + e.Field.String()
}

func (e *NotFoundError) Is(target error) bool { return target == ErrExtractorNotFound }

// GroupingError reports a cardinality mismatch while grouping ingredients.
type GroupingError struct {
	Found    int
	Expected int
}

func (e *GroupingError) Error() string {
	return fmt.Sprintf("found %d grouped ingredients but was expecting to find %d", e.Found, e.Expected)
}

func (e *GroupingError) Is(target error) bool { return target == ErrGroupingMismatch }

// Unsupported wraps ErrUnsupportedField for field.
func Unsupported(field Field) error {
	return errors.Wrapf(ErrUnsupportedField, "extraction not supported for field: %s", field)
}

// NotImplemented wraps ErrNotImplemented for the named method.
func NotImplemented(method string) error {
	return errors.Wrapf(ErrNotImplemented, "method should be implemented: %s", method)
}
