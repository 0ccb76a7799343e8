package document

import "fmt"

// ParseError reports malformed JSON input. Offset is the byte position of
// the first unparseable token and Line the 1-based line containing it.
type ParseError struct {
	Offset int64
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSON at line %d (offset %d): %s", e.Line, e.Offset, e.Msg)
}

// PathError reports a path lookup that failed because an intermediate
// segment did not match the expected kind or was absent.
type PathError struct {
	Path string // the longest resolvable prefix
	Msg  string
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("path not found: %s", e.Msg)
	}
	return fmt.Sprintf("path not found at %s: %s", e.Path, e.Msg)
}
