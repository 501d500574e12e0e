package access

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath is the sentinel argument that reads the descriptor from
// standard input instead of a file, keeping credentials off disk.
const StdinPath = "-"

// Load reads one access descriptor from path, or from stdin when path is
// "-". Decoding is strict: the descriptor shapes are closed, so unknown
// keys are fatal rather than ignored. A typoed key like "uspert" would
// otherwise silently change transfer semantics.
func Load(path string) (*Access, error) {
	if path == StdinPath {
		return Parse(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("access: opening descriptor: %w", err)
	}
	defer f.Close()

	a, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("access: %s: %w", path, err)
	}

	return a, nil
}

// Parse decodes one descriptor from r.
func Parse(r io.Reader) (*Access, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var a Access
	if err := dec.Decode(&a); err != nil {
		return nil, decodeError(err)
	}

	if dec.More() {
		return nil, &ValidationError{Reasons: []string{"trailing data after descriptor"}}
	}

	return &a, nil
}

// decodeError converts json decode failures into descriptor errors.
// Structural problems (unknown keys, wrong value types) are validation
// errors; unparseable input is reported as is.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "document"
		}

		return &ValidationError{Reasons: []string{
			fmt.Sprintf("%s: expected %s, got %s", field, typeErr.Type, typeErr.Value),
		}}
	}

	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &ValidationError{Reasons: []string{"unknown key " + name}}
	}

	if errors.Is(err, io.EOF) {
		return &ValidationError{Reasons: []string{"empty document"}}
	}

	return fmt.Errorf("access: decoding descriptor: %w", err)
}
