package obj

import (
	"errors"
	"fmt"
)

// OBJ parse errors.
var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	ErrDegenerateFace  = errors.New("face has fewer than 3 distinct vertices")
)

// ParseError describes where a parse failed. Err is one of the sentinel errors above.
type ParseError struct {
	Line      int
	Directive string
	Token     string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Directive, e.Err)
	}
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Directive, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
