package epub

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
)

// TOC is the table of contents from the EPUB 3.0 navigation document or,
// failing that, the EPUB 2.0 NCX.
type TOC struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry is a single navigation point.
type TOCEntry struct {
	Label       string
	ContentPath string // fragment-free, absolute path within EPUB
	Fragment    string // fragment identifier (without #)
	Chapter     int    // spine index of ContentPath, -1 if not in the spine
	Children    []TOCEntry
}

// TOC resolves the table of contents. A publication with neither a
// navigation document nor an NCX has an empty TOC.
func (e *Epub) TOC() (*TOC, error) {
	var (
		toc *TOC
		err error
	)

	if navPath, ok := findNAVPath(e.pkg); ok {
		var content []byte
		if content, err = e.archive.ReadBytes(navPath); err != nil {
			return nil, err
		}
		if toc, err = parseNAV(content, path.Dir(navPath)); err != nil {
			return nil, &FormatError{Doc: navPath, Err: err}
		}
	} else if ncx, ok := e.pkg.Manifest[e.pkg.TOCID]; ok {
		var content string
		if content, err = e.archive.ReadEntry(ncx.Href); err != nil {
			return nil, err
		}
		if toc, err = parseNCX(ncx.Href, content, path.Dir(ncx.Href)); err != nil {
			return nil, err
		}
	} else {
		return &TOC{}, nil
	}

	e.assignChapters(toc.Entries)
	return toc, nil
}

func (e *Epub) assignChapters(entries []TOCEntry) {
	for i := range entries {
		entries[i].Chapter = e.ChapterIndex(entries[i].ContentPath)
		e.assignChapters(entries[i].Children)
	}
}

// findNAVPath returns the manifest path of the EPUB 3.0 navigation document.
func findNAVPath(pkg *Package) (string, bool) {
	for _, id := range pkg.ManifestOrder {
		if item := pkg.Manifest[id]; item.HasProperty("nav") {
			return item.Href, true
		}
	}
	return "", false
}

// parseNCX parses an NCX document. dir is the directory of the NCX file.
func parseNCX(docName, content, dir string) (*TOC, error) {
	doc, err := parseXML(docName, content)
	if err != nil {
		return nil, err
	}

	ncx, err := findElement(docName, &doc.Element, "ncx")
	if err != nil {
		return nil, err
	}

	toc := &TOC{}
	if text, err := findElement(docName, ncx, "docTitle/text"); err == nil {
		toc.Title = strings.TrimSpace(text.Text())
	}
	if navMap := ncx.SelectElement("navMap"); navMap != nil {
		toc.Entries = parseNavPoints(navMap, dir)
	}
	return toc, nil
}

func parseNavPoints(parent *etree.Element, dir string) []TOCEntry {
	var entries []TOCEntry
	for _, np := range parent.SelectElements("navPoint") {
		entry := TOCEntry{Chapter: -1}
		if label := np.FindElement("navLabel/text"); label != nil {
			entry.Label = strings.TrimSpace(label.Text())
		}
		if content := np.SelectElement("content"); content != nil {
			entry.ContentPath, entry.Fragment = resolveHref(dir, content.SelectAttrValue("src", ""))
		}
		entry.Children = parseNavPoints(np, dir)
		entries = append(entries, entry)
	}
	return entries
}

// parseNAV parses an EPUB 3.0 navigation document. It is read as HTML, so
// navigation documents that are not well-formed XML still yield a TOC.
func parseNAV(content []byte, dir string) (*TOC, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation document: %w", err)
	}

	toc := &TOC{}
	nav := doc.Find("nav").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, t := range strings.Fields(s.AttrOr("epub:type", "")) {
			if t == "toc" {
				return true
			}
		}
		return false
	}).First()
	if nav.Length() == 0 {
		// Some publications omit epub:type on their only nav element
		nav = doc.Find("nav").First()
	}

	toc.Title = strings.TrimSpace(nav.ChildrenFiltered("h1, h2, h3, h4, h5, h6").First().Text())
	toc.Entries = parseNavList(nav.ChildrenFiltered("ol").First(), dir)
	return toc, nil
}

func parseNavList(ol *goquery.Selection, dir string) []TOCEntry {
	var entries []TOCEntry
	ol.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		entry := TOCEntry{Chapter: -1}
		link := li.ChildrenFiltered("a").First()
		if link.Length() == 0 {
			link = li.ChildrenFiltered("span").First()
			if a := link.Find("a").First(); a.Length() > 0 {
				link = a
			}
		}
		if link.Length() > 0 {
			entry.Label = collapseSpace(link.Text())
		} else {
			// heading written as bare text before a nested list
			entry.Label = collapseSpace(li.Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
				return goquery.NodeName(s) == "#text"
			}).Text())
		}
		if href, ok := link.Attr("href"); ok {
			entry.ContentPath, entry.Fragment = resolveHref(dir, href)
		}
		entry.Children = parseNavList(li.ChildrenFiltered("ol").First(), dir)
		entries = append(entries, entry)
	})
	return entries
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveHref resolves a document-relative reference to an archive path
// and fragment.
func resolveHref(dir, href string) (string, string) {
	p, fragment := splitFragment(href)
	if p == "" {
		return "", fragment
	}
	return resolvePath(dir, p), fragment
}

// splitFragment splits a source path into the path and fragment identifier.
func splitFragment(src string) (path, fragment string) {
	if src == "" {
		return "", ""
	}
	parts := strings.SplitN(src, "#", 2)
	path = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return path, fragment
}

// resolvePath resolves a relative path against a base directory
// baseDir: base directory (e.g., "text" for "text/chapter1.xhtml")
// relPath: relative path (e.g., "../images/photo.jpg")
// returns: resolved path (e.g., "images/photo.jpg")
func resolvePath(baseDir, relPath string) string {
	if unescaped, err := url.PathUnescape(relPath); err == nil {
		relPath = unescaped
	}
	if strings.HasPrefix(relPath, "/") {
		return strings.TrimPrefix(path.Clean(relPath), "/")
	}
	return strings.TrimPrefix(path.Join(baseDir, relPath), "./")
}
