// Package epub reads EPUB publications and renders their chapters as styled
// text lines for a terminal.
package epub

import (
	"fmt"

	"go.uber.org/zap"
)

// Epub is an open publication. It owns the archive handle and must not be
// used from more than one goroutine at a time.
type Epub struct {
	archive   *Archive
	container Container
	pkg       *Package
	log       *zap.Logger
}

// Option configures Open.
type Option func(*Epub)

// WithLogger sets the logger used while reading the publication.
func WithLogger(log *zap.Logger) Option {
	return func(e *Epub) {
		if log != nil {
			e.log = log
		}
	}
}

// Open opens the EPUB at path and resolves its chapter list.
func Open(path string, opts ...Option) (*Epub, error) {
	e := &Epub{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	archive, err := OpenArchive(path, e.log)
	if err != nil {
		return nil, err
	}

	if err := e.resolve(archive); err != nil {
		archive.Close()
		return nil, err
	}
	e.archive = archive

	e.log.Debug("Publication opened",
		zap.String("epub", path),
		zap.String("package", e.container.PackagePath),
		zap.Int("manifest", len(e.pkg.Manifest)),
		zap.Int("chapters", len(e.pkg.Spine)))
	return e, nil
}

func (e *Epub) resolve(archive *Archive) error {
	containerXML, err := archive.ReadEntry(containerEntry)
	if err != nil {
		return err
	}
	if e.container, err = ParseContainer(containerXML); err != nil {
		return fmt.Errorf("failed to parse container: %w", err)
	}

	packageXML, err := archive.ReadEntry(e.container.PackagePath)
	if err != nil {
		return err
	}
	if e.pkg, err = ParsePackage(e.container.PackagePath, packageXML, e.container.BasePath); err != nil {
		return fmt.Errorf("failed to parse package: %w", err)
	}
	return nil
}

// Close releases the archive.
func (e *Epub) Close() error {
	return e.archive.Close()
}

// Path returns the filesystem path of the publication.
func (e *Epub) Path() string {
	return e.archive.Path()
}

// Len returns the number of chapters in reading order.
func (e *Epub) Len() int {
	return len(e.pkg.Spine)
}

// Metadata returns the publication metadata.
func (e *Epub) Metadata() Metadata {
	return e.pkg.Metadata
}

// Package returns the resolved package document.
func (e *Epub) Package() *Package {
	return e.pkg
}

// Container returns the resolved container.
func (e *Epub) Container() Container {
	return e.container
}

// ChapterPath returns the archive path of the chapter at index.
func (e *Epub) ChapterPath(index int) (string, error) {
	if index < 0 || index >= len(e.pkg.Spine) {
		return "", outOfRange("chapter", index, len(e.pkg.Spine))
	}
	id := e.pkg.Spine[index]
	item, ok := e.pkg.Manifest[id]
	if !ok {
		return "", &LookupError{What: "spine item", Key: id, Err: ErrDanglingRef}
	}
	return item.Href, nil
}

// Render reads and renders the chapter at index. Nothing is cached: every
// call parses the chapter again.
func (e *Epub) Render(index int) (*Chapter, error) {
	path, err := e.ChapterPath(index)
	if err != nil {
		return nil, err
	}

	content, err := e.archive.ReadEntry(path)
	if err != nil {
		return nil, err
	}

	ch, err := RenderChapter(path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to render chapter %d: %w", index, err)
	}

	e.log.Debug("Chapter rendered",
		zap.Int("index", index),
		zap.String("path", path),
		zap.Int("lines", len(ch.Lines)),
		zap.Int("images", len(ch.Images)))
	return ch, nil
}

// ChapterIndex returns the spine position of the chapter stored at path,
// or -1.
func (e *Epub) ChapterIndex(path string) int {
	for i, id := range e.pkg.Spine {
		if item, ok := e.pkg.Manifest[id]; ok && item.Href == path {
			return i
		}
	}
	return -1
}
