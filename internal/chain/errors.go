package chain

import "fmt"

// ParseError reports an input file that is not valid JSON or not an
// array of objects.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a record that cannot be de-duplicated because it
// has no chainId.
type SchemaError struct {
	Path  string
	Index int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d in %s is missing chainId", e.Index, e.Path)
}

// IOError reports a filesystem read or write failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
