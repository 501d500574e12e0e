package access

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Instances cache struct
// metadata, so one per process is the intended usage.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON key names so messages speak the descriptor's language
	// instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// ValidationError reports every structural problem found in a descriptor.
// Reasons holds one entry per problem so a caller sees the complete list
// instead of fixing them one round-trip at a time.
type ValidationError struct {
	Direction Direction
	Reasons   []string
}

func (e *ValidationError) Error() string {
	what := "access descriptor"
	if e.Direction != "" {
		what = string(e.Direction) + " access descriptor"
	}

	return fmt.Sprintf("invalid %s: %s", what, strings.Join(e.Reasons, "; "))
}

// Validate checks a descriptor against the shape for the given direction.
// It is pure: no network, no filesystem. A nil return means the descriptor
// matches the shape exactly.
func Validate(a *Access, dir Direction) error {
	reasons := fieldReasons(a)

	switch dir {
	case Send:
		reasons = append(reasons, sendShapeReasons(a)...)
	case Receive:
		reasons = append(reasons, receiveShapeReasons(a)...)
	default:
		return fmt.Errorf("access: unknown direction %q", dir)
	}

	if len(reasons) > 0 {
		return &ValidationError{Direction: dir, Reasons: reasons}
	}

	return nil
}

// fieldReasons runs the tag-declared rules shared by both shapes.
func fieldReasons(a *Access) []string {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, fieldReason(fe))
	}

	return reasons
}

// fieldReason renders one validator failure in descriptor terms.
func fieldReason(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Access.")

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// sendShapeReasons enforces the upload shape: full container coordinates
// plus the document type used to create the container.
func sendShapeReasons(a *Access) []string {
	var reasons []string

	if a.ContainerType == "" {
		reasons = append(reasons, "containerType is required for send")
	}

	if a.Container == "" {
		reasons = append(reasons, "container is required for send")
	}

	if a.XSIType == "" {
		reasons = append(reasons, "xsiType is required for send")
	}

	return reasons
}

// receiveShapeReasons enforces the two download shapes: container-qualified
// (containerType and container together) or container-less (neither), with
// resource mandatory in both. xsiType and upsert belong to the send shape
// only and are rejected even with values that would change nothing.
func receiveShapeReasons(a *Access) []string {
	var reasons []string

	if a.Resource == "" {
		reasons = append(reasons, "resource is required for receive")
	}

	switch {
	case a.ContainerType != "" && a.Container == "":
		reasons = append(reasons, "container is required when containerType is set")
	case a.ContainerType == "" && a.Container != "":
		reasons = append(reasons, "containerType is required when container is set")
	}

	if a.XSIType != "" {
		reasons = append(reasons, "xsiType is not allowed for receive")
	}

	if a.Upsert != nil {
		reasons = append(reasons, "upsert is not allowed for receive")
	}

	return reasons
}
