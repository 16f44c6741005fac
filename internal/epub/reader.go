package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	mimetypeEntry = "mimetype"
	epubMimetype  = "application/epub+zip"
)

// Archive provides access to the entries of an EPUB container.
// It is not safe for concurrent use.
type Archive struct {
	path      string
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	log       *zap.Logger
}

// OpenArchive opens an EPUB file and validates its mimetype entry.
func OpenArchive(path string, log *zap.Logger) (*Archive, error) {
	if log == nil {
		log = zap.NewNop()
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	a := &Archive{
		path:      path,
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		log:       log,
	}

	for _, f := range zr.File {
		a.files[normalizePath(f.Name)] = f
	}

	if err := a.validateMimetype(); err != nil {
		zr.Close()
		return nil, err
	}

	return a, nil
}

// Close closes the underlying zip file.
func (a *Archive) Close() error {
	return a.zipReader.Close()
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Has reports whether the archive contains an entry with the given name.
func (a *Archive) Has(name string) bool {
	_, ok := a.files[normalizePath(name)]
	return ok
}

// ReadBytes returns the raw content of the named entry.
func (a *Archive) ReadBytes(name string) ([]byte, error) {
	name = normalizePath(name)
	f, ok := a.files[name]
	if !ok {
		return nil, &IOError{Path: name, Err: ErrEntryNotFound}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &IOError{Path: name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &IOError{Path: name, Err: err}
	}
	return data, nil
}

// ReadEntry returns the named entry decoded as UTF-8 text.
func (a *Archive) ReadEntry(name string) (string, error) {
	data, err := a.ReadBytes(name)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &FormatError{Doc: normalizePath(name), Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

// validateMimetype checks that the mimetype entry exists and names an EPUB
func (a *Archive) validateMimetype() error {
	f, ok := a.files[mimetypeEntry]
	if !ok {
		return &FormatError{Doc: a.path, Err: ErrMimetypeNotFound}
	}

	if f.Method != zip.Store {
		a.log.Debug("mimetype entry is compressed", zap.String("epub", a.path))
	}

	content, err := a.ReadEntry(mimetypeEntry)
	if err != nil {
		return fmt.Errorf("failed to read mimetype: %w", err)
	}

	if got := strings.TrimSpace(content); got != epubMimetype {
		return &FormatError{Doc: mimetypeEntry, Err: fmt.Errorf("%w: got %q", ErrInvalidMimetype, got)}
	}

	return nil
}

// normalizePath normalizes file paths (removes ./ prefix)
func normalizePath(path string) string {
	return strings.TrimLeft(strings.TrimPrefix(path, "./"), "/")
}
