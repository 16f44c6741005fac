package epub

// Package represents the parsed package document
type Package struct {
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []string                // linear idrefs in reading order
	TOCID         string                  // spine toc attribute (EPUB 2.0 NCX id)
}

// Metadata represents the metadata section of the package document
type Metadata struct {
	Title    string
	Creators []Creator
	Language string
	CoverID  string // EPUB 2.0 cover image manifest item ID (from meta name="cover")
}

// Creator represents a creator (author, editor, etc.) of the book
type Creator struct {
	Name string
	Role string // e.g., "aut" for author, "edt" for editor
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID         string
	Href       string // archive path, prefixed with the package directory
	MediaType  string
	Properties []string
}

// HasProperty reports whether the item lists prop in its properties attribute.
func (m ManifestItem) HasProperty(prop string) bool {
	for _, p := range m.Properties {
		if p == prop {
			return true
		}
	}
	return false
}
