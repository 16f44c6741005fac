package epub

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testPackage = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="chapter1" href="text/chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="chapter2" href="text/chapter2.xhtml" media-type="application/xhtml+xml"/>
    <item id="photo" href="images/photo.png" media-type="image/png"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
    <itemref idref="chapter2"/>
  </spine>
</package>`

const testChapter1 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter 1</title></head>
<body><h1>Chapter 1</h1><p>Hello, World!</p></body>
</html>`

const testChapter2 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter 2</title></head>
<body><p>Look: <img src="../images/photo.png" alt="photo"/></p></body>
</html>`

// testFiles returns the entries of a small valid two chapter publication.
func testFiles() map[string]string {
	return map[string]string{
		"mimetype":                  "application/epub+zip",
		"META-INF/container.xml":    testContainer,
		"OEBPS/content.opf":         testPackage,
		"OEBPS/text/chapter1.xhtml": testChapter1,
		"OEBPS/text/chapter2.xhtml": testChapter2,
	}
}

// writeEPUB writes files into a zip archive named name under dir. The
// mimetype entry, if present, is written first and stored uncompressed.
func writeEPUB(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	epubPath := filepath.Join(dir, name)
	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	if content, ok := files["mimetype"]; ok {
		mw, err := w.CreateHeader(&zip.FileHeader{
			Name:   "mimetype",
			Method: zip.Store,
		})
		if err != nil {
			t.Fatalf("failed to create mimetype: %v", err)
		}
		mw.Write([]byte(content))
	}

	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		fw.Write([]byte(files[name]))
	}

	return epubPath
}

// writeBinaryEPUB is writeEPUB for fixtures carrying binary entries.
func writeBinaryEPUB(t *testing.T, dir string, files map[string]string, binary map[string][]byte) string {
	t.Helper()
	for name, data := range binary {
		files[name] = string(data)
	}
	return writeEPUB(t, dir, "binary.epub", files)
}

// openTestEPUB opens files as a publication and closes it with the test.
func openTestEPUB(t *testing.T, files map[string]string) *Epub {
	t.Helper()
	book, err := Open(writeEPUB(t, t.TempDir(), "test.epub", files))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { book.Close() })
	return book
}
