// Test program for the EPUB reading layer.
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file-path> [chapter ...]
//
// It opens the publication, prints the resolved container and package
// information, lists the reading order and renders the given chapters as
// plain text.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/yuanying/epsaku/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> [chapter ...]")
		os.Exit(1)
	}

	epubPath := os.Args[1]
	chapters := os.Args[2:]

	fmt.Printf("Opening EPUB file: %s\n", epubPath)
	book, err := epub.Open(epubPath)
	if err != nil {
		log.Fatalf("Failed to open EPUB: %v", err)
	}
	defer book.Close()

	fmt.Printf("✓ EPUB opened successfully\n")
	fmt.Printf("Package path: %s\n", book.Container().PackagePath)
	fmt.Printf("Base path:    %q\n", book.Container().BasePath)
	fmt.Printf("Title:        %s\n\n", book.Metadata().Title)

	pkg := book.Package()
	fmt.Printf("Manifest items: %d\n", len(pkg.Manifest))
	for _, id := range pkg.ManifestOrder {
		item := pkg.Manifest[id]
		fmt.Printf("  - %s: %s (%s)\n", id, item.Href, item.MediaType)
	}

	fmt.Printf("\nReading order: %d chapters\n", book.Len())
	for i := 0; i < book.Len(); i++ {
		p, err := book.ChapterPath(i)
		if err != nil {
			fmt.Printf("  %3d: %v\n", i, err)
			continue
		}
		fmt.Printf("  %3d: %s\n", i, p)
	}

	for _, arg := range chapters {
		i, err := strconv.Atoi(arg)
		if err != nil {
			log.Fatalf("Invalid chapter %q: %v", arg, err)
		}
		fmt.Printf("\nRendering chapter %d\n", i)
		ch, err := book.Render(i)
		if err != nil {
			log.Fatalf("Failed to render chapter %d: %v", i, err)
		}
		fmt.Printf("✓ %d lines, %d images\n", len(ch.Lines), len(ch.Images))
		fmt.Println(ch.Text())
	}

	fmt.Println("\n✓ All tests passed!")
}
