package epub

import (
	"bytes"
	"image"
	"os"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ExtractOptions controls how an image is written out for a viewer.
type ExtractOptions struct {
	// MaxWidth downscales raster images wider than this. Zero keeps the
	// original bytes.
	MaxWidth int
}

// ImagePath resolves image ref of the chapter at index to its archive path.
func (e *Epub) ImagePath(index, ref int) (string, error) {
	ch, err := e.Render(index)
	if err != nil {
		return "", err
	}
	if ref < 0 || ref >= len(ch.Images) {
		return "", outOfRange("image", ref, len(ch.Images))
	}

	chapterPath, err := e.ChapterPath(index)
	if err != nil {
		return "", err
	}
	p, _ := resolveHref(path.Dir(chapterPath), ch.Images[ref])
	return p, nil
}

// ExtractImage writes image ref of the chapter at index into dir (the system
// temporary directory if empty) and returns the file path. The caller owns
// the file.
func (e *Epub) ExtractImage(index, ref int, dir string, opts ExtractOptions) (string, error) {
	p, err := e.ImagePath(index, ref)
	if err != nil {
		return "", err
	}
	return e.extract(p, dir, opts)
}

// ExtractCover writes the cover image into dir and returns the file path.
func (e *Epub) ExtractCover(dir string, opts ExtractOptions) (string, error) {
	cover := e.pkg.DetectCover()
	if cover == nil {
		return "", &LookupError{What: "cover", Key: e.Path(), Err: ErrEntryNotFound}
	}
	return e.extract(cover.Href, dir, opts)
}

func (e *Epub) extract(name, dir string, opts ExtractOptions) (_ string, err error) {
	data, err := e.archive.ReadBytes(name)
	if err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		ext = kind.Extension
	}

	if opts.MaxWidth > 0 {
		data = e.downscale(name, ext, data, opts.MaxWidth)
	}

	base := slug.Make(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	pattern := "epsaku-" + base + "-*"
	if ext != "" {
		pattern += "." + ext
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", &IOError{Path: dir, Err: err}
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", &IOError{Path: f.Name(), Err: err}
	}

	e.log.Debug("Image extracted", zap.String("entry", name), zap.String("file", f.Name()))
	return f.Name(), nil
}

// downscale resizes images wider than maxWidth. Data that cannot be decoded,
// animated formats and images already small enough are returned unchanged.
func (e *Epub) downscale(name, ext string, data []byte, maxWidth int) []byte {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil || format == imaging.GIF {
		return data
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= maxWidth {
		return data
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		e.log.Debug("Image decode failed", zap.String("entry", name), zap.Error(err))
		return data
	}

	var buf bytes.Buffer
	resized := imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, format); err != nil {
		e.log.Debug("Image encode failed", zap.String("entry", name), zap.Error(err))
		return data
	}
	return buf.Bytes()
}
