package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

const containerEntry = "META-INF/container.xml"

// Container holds the location of the package document.
type Container struct {
	PackagePath string
	// BasePath is PackagePath without its final segment, "" at archive root.
	BasePath string
}

// ParseContainer locates the package document named by container.xml.
// Only the first rootfile is considered.
func ParseContainer(content string) (Container, error) {
	doc, err := parseXML(containerEntry, content)
	if err != nil {
		return Container{}, err
	}

	rootfile, err := findElement(containerEntry, &doc.Element, "container/rootfiles/rootfile")
	if err != nil {
		return Container{}, err
	}

	fullPath := rootfile.SelectAttr("full-path")
	if fullPath == nil {
		return Container{}, missingAttribute(containerEntry, "rootfile", "full-path")
	}

	packagePath := normalizePath(fullPath.Value)
	return Container{
		PackagePath: packagePath,
		BasePath:    basePath(packagePath),
	}, nil
}

func basePath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return path.Clean(p[:i])
}

// parseXML reads content into an etree document. XHTML named entities are
// accepted so chapters relying on the XHTML DTD still parse. The document
// must hold exactly one root element and no text outside it; whitespace and
// comments after the root are allowed.
func parseXML(docName, content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Entity: xml.HTMLEntity,
	}
	if err := doc.ReadFromString(content); err != nil {
		return nil, &FormatError{Doc: docName, Err: err}
	}

	if n := len(doc.ChildElements()); n != 1 {
		return nil, &FormatError{Doc: docName, Err: fmt.Errorf("%w: %d root elements", ErrMalformedXML, n)}
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return nil, &FormatError{Doc: docName, Err: fmt.Errorf("%w: text outside the root element", ErrMalformedXML)}
		}
	}
	return doc, nil
}

// findElement descends a slash separated path of local tag names from root,
// taking the first matching child at every step.
func findElement(docName string, root *etree.Element, tagPath string) (*etree.Element, error) {
	el := root
	for _, tag := range strings.Split(tagPath, "/") {
		next := el.SelectElement(tag)
		if next == nil {
			return nil, missingElement(docName, tag)
		}
		el = next
	}
	return el, nil
}
