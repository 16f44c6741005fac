package epub

import (
	"strings"

	"github.com/beevik/etree"
)

// ParsePackage parses a package document. basePath is the directory holding
// the package document inside the archive (e.g., "OEBPS"); manifest hrefs are
// prefixed with it.
//
// Spine idrefs are not checked against the manifest here; a dangling idref
// fails when its chapter is rendered.
func ParsePackage(docName, content, basePath string) (*Package, error) {
	doc, err := parseXML(docName, content)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Manifest: make(map[string]ManifestItem),
	}

	manifest, err := findElement(docName, &doc.Element, "package/manifest")
	if err != nil {
		return nil, err
	}
	for _, item := range manifest.SelectElements("item") {
		id := item.SelectAttr("id")
		if id == nil {
			return nil, missingAttribute(docName, "item", "id")
		}
		href := item.SelectAttr("href")
		if href == nil {
			return nil, missingAttribute(docName, "item", "href")
		}

		mi := ManifestItem{
			ID:        id.Value,
			Href:      joinPath(basePath, href.Value),
			MediaType: item.SelectAttrValue("media-type", ""),
		}
		if props := item.SelectAttrValue("properties", ""); props != "" {
			mi.Properties = strings.Fields(props)
		}

		if _, dup := pkg.Manifest[mi.ID]; !dup {
			pkg.ManifestOrder = append(pkg.ManifestOrder, mi.ID)
		}
		pkg.Manifest[mi.ID] = mi
	}

	spine, err := findElement(docName, &doc.Element, "package/spine")
	if err != nil {
		return nil, err
	}
	pkg.TOCID = spine.SelectAttrValue("toc", "")
	for _, itemRef := range spine.SelectElements("itemref") {
		idref := itemRef.SelectAttr("idref")
		if idref == nil {
			return nil, missingAttribute(docName, "itemref", "idref")
		}
		if linear := itemRef.SelectAttr("linear"); linear != nil && linear.Value != "yes" {
			continue
		}
		pkg.Spine = append(pkg.Spine, idref.Value)
	}

	if metadata, err := findElement(docName, &doc.Element, "package/metadata"); err == nil {
		pkg.Metadata = parseMetadata(metadata)
	}

	return pkg, nil
}

// parseMetadata reads the Dublin Core fields a reader displays. Absent fields
// stay empty.
func parseMetadata(el *etree.Element) Metadata {
	var md Metadata

	if title := el.SelectElement("title"); title != nil {
		md.Title = strings.TrimSpace(title.Text())
	}
	if lang := el.SelectElement("language"); lang != nil {
		md.Language = strings.TrimSpace(lang.Text())
	}

	ids := make(map[string]int)
	for _, c := range el.SelectElements("creator") {
		creator := Creator{
			Name: strings.TrimSpace(c.Text()),
			Role: localAttr(c, "role"),
		}
		if id := c.SelectAttrValue("id", ""); id != "" {
			ids["#"+id] = len(md.Creators)
		}
		md.Creators = append(md.Creators, creator)
	}

	for _, m := range el.SelectElements("meta") {
		// EPUB 2.0 cover image id
		if m.SelectAttrValue("name", "") == "cover" && md.CoverID == "" {
			md.CoverID = m.SelectAttrValue("content", "")
		}
		// EPUB 3.0 creator role refinement
		if m.SelectAttrValue("property", "") == "role" {
			if idx, ok := ids[m.SelectAttrValue("refines", "")]; ok {
				md.Creators[idx].Role = strings.TrimSpace(m.Text())
			}
		}
	}

	return md
}

// localAttr returns the value of the first attribute with the given local
// name, whatever its namespace prefix.
func localAttr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// joinPath joins the package directory with a manifest href
func joinPath(base, rel string) string {
	if base == "" {
		return rel
	}
	return base + "/" + rel
}
