package epub

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitFragment(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantPath     string
		wantFragment string
	}{
		{name: "path with fragment", src: "chapter1.xhtml#sec1", wantPath: "chapter1.xhtml", wantFragment: "sec1"},
		{name: "path without fragment", src: "chapter1.xhtml", wantPath: "chapter1.xhtml"},
		{name: "fragment only", src: "#sec1", wantFragment: "sec1"},
		{name: "empty string"},
		{name: "multiple hash signs", src: "chapter1.xhtml#sec1#subsec2", wantPath: "chapter1.xhtml", wantFragment: "sec1#subsec2"},
		{name: "path with directory", src: "text/chapter1.xhtml#anchor", wantPath: "text/chapter1.xhtml", wantFragment: "anchor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPath, gotFragment := splitFragment(tt.src)
			if gotPath != tt.wantPath {
				t.Errorf("splitFragment(%q) path = %q, want %q", tt.src, gotPath, tt.wantPath)
			}
			if gotFragment != tt.wantFragment {
				t.Errorf("splitFragment(%q) fragment = %q, want %q", tt.src, gotFragment, tt.wantFragment)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		baseDir string
		relPath string
		want    string
	}{
		{"OEBPS/text", "../images/photo.jpg", "OEBPS/images/photo.jpg"},
		{"OEBPS", "chapter1.xhtml", "OEBPS/chapter1.xhtml"},
		{".", "chapter1.xhtml", "chapter1.xhtml"},
		{"OEBPS/text", "/OEBPS/images/a.png", "OEBPS/images/a.png"},
		{"OEBPS", "my%20image.png", "OEBPS/my image.png"},
	}
	for _, tt := range tests {
		if got := resolvePath(tt.baseDir, tt.relPath); got != tt.want {
			t.Errorf("resolvePath(%q, %q) = %q, want %q", tt.baseDir, tt.relPath, got, tt.want)
		}
	}
}

func TestParseNCX(t *testing.T) {
	ncxXML := `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="test-uid-123"/>
  </head>
  <docTitle><text>Test Book</text></docTitle>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Part 1</text></navLabel>
      <content src="text/part1.xhtml"/>
      <navPoint id="np2" playOrder="2">
        <navLabel><text> Chapter 1 </text></navLabel>
        <content src="text/ch1.xhtml#start"/>
      </navPoint>
    </navPoint>
    <navPoint id="np3" playOrder="3">
      <navLabel><text>Chapter 2</text></navLabel>
      <content src="../OEBPS/text/ch2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

	toc, err := parseNCX("OEBPS/toc.ncx", ncxXML, "OEBPS")
	if err != nil {
		t.Fatalf("parseNCX() error = %v", err)
	}

	want := &TOC{
		Title: "Test Book",
		Entries: []TOCEntry{
			{
				Label:       "Part 1",
				ContentPath: "OEBPS/text/part1.xhtml",
				Chapter:     -1,
				Children: []TOCEntry{
					{Label: "Chapter 1", ContentPath: "OEBPS/text/ch1.xhtml", Fragment: "start", Chapter: -1},
				},
			},
			{Label: "Chapter 2", ContentPath: "OEBPS/text/ch2.xhtml", Chapter: -1},
		},
	}
	if diff := cmp.Diff(want, toc); diff != "" {
		t.Errorf("parseNCX() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNCX_Empty(t *testing.T) {
	toc, err := parseNCX("toc.ncx", `<ncx><docTitle><text>Empty Book</text></docTitle><navMap/></ncx>`, ".")
	if err != nil {
		t.Fatalf("parseNCX() error = %v", err)
	}
	if toc.Title != "Empty Book" {
		t.Errorf("Title = %q, want %q", toc.Title, "Empty Book")
	}
	if len(toc.Entries) != 0 {
		t.Errorf("Entries = %v, want empty", toc.Entries)
	}
}

func TestParseNCX_NotNCX(t *testing.T) {
	if _, err := parseNCX("toc.ncx", `<html/>`, "."); err == nil {
		t.Fatal("parseNCX() should fail without an ncx root")
	}
}

func TestFindNAVPath(t *testing.T) {
	tests := []struct {
		name     string
		pkg      *Package
		wantPath string
		wantOK   bool
	}{
		{
			name: "nav item exists",
			pkg: &Package{
				Manifest: map[string]ManifestItem{
					"nav": {ID: "nav", Href: "OEBPS/nav.xhtml", Properties: []string{"nav"}},
					"ch1": {ID: "ch1", Href: "OEBPS/ch1.xhtml"},
				},
				ManifestOrder: []string{"ch1", "nav"},
			},
			wantPath: "OEBPS/nav.xhtml",
			wantOK:   true,
		},
		{
			name: "nav among multiple properties",
			pkg: &Package{
				Manifest:      map[string]ManifestItem{"nav": {ID: "nav", Href: "nav.xhtml", Properties: []string{"scripted", "nav"}}},
				ManifestOrder: []string{"nav"},
			},
			wantPath: "nav.xhtml",
			wantOK:   true,
		},
		{
			name: "no nav item",
			pkg: &Package{
				Manifest:      map[string]ManifestItem{"ch1": {ID: "ch1", Href: "ch1.xhtml"}},
				ManifestOrder: []string{"ch1"},
			},
		},
		{
			name: "empty manifest",
			pkg:  &Package{Manifest: map[string]ManifestItem{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPath, gotOK := findNAVPath(tt.pkg)
			if gotPath != tt.wantPath || gotOK != tt.wantOK {
				t.Errorf("findNAVPath() = (%q, %v), want (%q, %v)", gotPath, gotOK, tt.wantPath, tt.wantOK)
			}
		})
	}
}

func TestParseNAV(t *testing.T) {
	tests := []struct {
		name string
		nav  string
		dir  string
		want *TOC
	}{
		{
			name: "nested",
			dir:  "OEBPS",
			nav: `<nav epub:type="toc">
  <h1>Contents</h1>
  <ol>
    <li>
      <a href="part1.xhtml">Part
        1</a>
      <ol>
        <li><a href="ch1.xhtml#s1">Chapter 1</a></li>
      </ol>
    </li>
    <li><a href="part2.xhtml">Part 2</a></li>
  </ol>
</nav>`,
			want: &TOC{
				Title: "Contents",
				Entries: []TOCEntry{
					{
						Label: "Part 1", ContentPath: "OEBPS/part1.xhtml", Chapter: -1,
						Children: []TOCEntry{{Label: "Chapter 1", ContentPath: "OEBPS/ch1.xhtml", Fragment: "s1", Chapter: -1}},
					},
					{Label: "Part 2", ContentPath: "OEBPS/part2.xhtml", Chapter: -1},
				},
			},
		},
		{
			name: "toc nav chosen over landmarks",
			dir:  "OEBPS",
			nav: `<nav epub:type="landmarks"><ol><li><a href="cover.xhtml">Cover</a></li></ol></nav>
<nav epub:type="toc"><ol><li><a href="ch1.xhtml">Ch1</a></li></ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{Label: "Ch1", ContentPath: "OEBPS/ch1.xhtml", Chapter: -1}}},
		},
		{
			name: "epub type with multiple tokens",
			dir:  "OEBPS",
			nav:  `<nav epub:type="toc landmarks"><ol><li><a href="ch1.xhtml">Ch1</a></li></ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{Label: "Ch1", ContentPath: "OEBPS/ch1.xhtml", Chapter: -1}}},
		},
		{
			name: "nav without epub type",
			dir:  ".",
			nav:  `<nav><ol><li><a href="ch1.xhtml">Ch1</a></li></ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{Label: "Ch1", ContentPath: "ch1.xhtml", Chapter: -1}}},
		},
		{
			name: "relative path",
			dir:  "OEBPS/nav",
			nav:  `<nav epub:type="toc"><ol><li><a href="../text/chapter1.xhtml#sec1">Chapter 1</a></li></ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{Label: "Chapter 1", ContentPath: "OEBPS/text/chapter1.xhtml", Fragment: "sec1", Chapter: -1}}},
		},
		{
			name: "link wrapped in span",
			dir:  "OEBPS",
			nav:  `<nav epub:type="toc"><ol><li><span><a href="ch1.xhtml">Ch1</a></span></li></ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{Label: "Ch1", ContentPath: "OEBPS/ch1.xhtml", Chapter: -1}}},
		},
		{
			name: "heading without link",
			dir:  "OEBPS",
			nav: `<nav epub:type="toc"><ol>
  <li>Part 1
    <ol><li><a href="ch1.xhtml">Ch1</a></li></ol>
  </li>
</ol></nav>`,
			want: &TOC{Entries: []TOCEntry{{
				Label: "Part 1", Chapter: -1,
				Children: []TOCEntry{{Label: "Ch1", ContentPath: "OEBPS/ch1.xhtml", Chapter: -1}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Navigation</title></head>
<body>` + tt.nav + `</body>
</html>`
			toc, err := parseNAV([]byte(doc), tt.dir)
			if err != nil {
				t.Fatalf("parseNAV() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, toc); diff != "" {
				t.Errorf("parseNAV() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEpub_TOC(t *testing.T) {
	t.Run("navigation document", func(t *testing.T) {
		files := testFiles()
		files["OEBPS/content.opf"] = `<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="chapter1" href="text/chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="chapter2" href="text/chapter2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="nav" linear="no"/>
    <itemref idref="chapter1"/>
    <itemref idref="chapter2"/>
  </spine>
</package>`
		files["OEBPS/nav.xhtml"] = `<html xmlns:epub="http://www.idpf.org/2007/ops"><body>
<nav epub:type="toc"><ol>
  <li><a href="text/chapter2.xhtml">Second</a></li>
  <li><a href="text/missing.xhtml">Gone</a></li>
</ol></nav></body></html>`

		book := openTestEPUB(t, files)
		toc, err := book.TOC()
		if err != nil {
			t.Fatalf("TOC() error = %v", err)
		}
		want := []TOCEntry{
			{Label: "Second", ContentPath: "OEBPS/text/chapter2.xhtml", Chapter: 1},
			{Label: "Gone", ContentPath: "OEBPS/text/missing.xhtml", Chapter: -1},
		}
		if diff := cmp.Diff(want, toc.Entries); diff != "" {
			t.Errorf("TOC() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ncx", func(t *testing.T) {
		files := testFiles()
		files["OEBPS/content.opf"] = `<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="chapter1" href="text/chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx"><itemref idref="chapter1"/></spine>
</package>`
		files["OEBPS/toc.ncx"] = `<ncx><docTitle><text>Book</text></docTitle><navMap>
<navPoint><navLabel><text>One</text></navLabel><content src="text/chapter1.xhtml#top"/></navPoint>
</navMap></ncx>`

		book := openTestEPUB(t, files)
		toc, err := book.TOC()
		if err != nil {
			t.Fatalf("TOC() error = %v", err)
		}
		want := &TOC{
			Title:   "Book",
			Entries: []TOCEntry{{Label: "One", ContentPath: "OEBPS/text/chapter1.xhtml", Fragment: "top", Chapter: 0}},
		}
		if diff := cmp.Diff(want, toc); diff != "" {
			t.Errorf("TOC() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("neither", func(t *testing.T) {
		book := openTestEPUB(t, testFiles())
		toc, err := book.TOC()
		if err != nil {
			t.Fatalf("TOC() error = %v", err)
		}
		if len(toc.Entries) != 0 {
			t.Errorf("Entries = %v, want empty", toc.Entries)
		}
	})
}
