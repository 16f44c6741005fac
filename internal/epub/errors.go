package epub

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMimetype  = errors.New("invalid mimetype: must be 'application/epub+zip'")
	ErrMimetypeNotFound = errors.New("mimetype file not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidUTF8      = errors.New("content is not valid UTF-8")
	ErrMissingElement   = errors.New("missing element")
	ErrMissingAttribute = errors.New("missing attribute")
	ErrOutOfRange       = errors.New("index out of range")
	ErrDanglingRef      = errors.New("spine item not found in manifest")
	ErrMalformedXML     = errors.New("malformed XML")
)

// IOError reports a failure to open the archive or read one of its entries.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports content that is present but not usable: a wrong
// mimetype, XML that does not parse, or a required element or attribute that
// is absent. Doc names the archive entry, Node the offending element if known.
type FormatError struct {
	Doc  string
	Node string
	Err  error
}

func (e *FormatError) Error() string {
	switch {
	case e.Doc != "" && e.Node != "":
		return fmt.Sprintf("%s: %s: %v", e.Doc, e.Node, e.Err)
	case e.Doc != "":
		return fmt.Sprintf("%s: %v", e.Doc, e.Err)
	case e.Node != "":
		return fmt.Sprintf("%s: %v", e.Node, e.Err)
	}
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// LookupError reports a reference that does not resolve: a chapter or image
// index outside its range, or a spine id with no manifest entry. Callers
// driving a UI can recover from it.
type LookupError struct {
	What string
	Key  string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.What, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func missingElement(doc, node string) error {
	return &FormatError{Doc: doc, Node: node, Err: ErrMissingElement}
}

func missingAttribute(doc, node, attr string) error {
	return &FormatError{Doc: doc, Node: node, Err: fmt.Errorf("%w %q", ErrMissingAttribute, attr)}
}

func outOfRange(what string, index, length int) error {
	return &LookupError{
		What: what,
		Key:  fmt.Sprint(index),
		Err:  fmt.Errorf("%w [0, %d)", ErrOutOfRange, length),
	}
}
