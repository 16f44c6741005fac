package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/yuanying/epsaku/internal/epub"
)

func (a *app) newTOCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toc <file.epub>",
		Short: "Print the table of contents with chapter numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			book, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, book.Close()) }()

			toc, err := book.TOC()
			if err != nil {
				return err
			}
			if len(toc.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no table of contents")
				return nil
			}
			printTOC(cmd.OutOrStdout(), toc.Entries, 0)
			return nil
		},
	}
}

func printTOC(w io.Writer, entries []epub.TOCEntry, depth int) {
	for _, e := range entries {
		chapter := "-"
		if e.Chapter >= 0 {
			chapter = fmt.Sprint(e.Chapter)
		}
		fmt.Fprintf(w, "%4s  %s%s\n", chapter, strings.Repeat("  ", depth), e.Label)
		printTOC(w, e.Children, depth+1)
	}
}
