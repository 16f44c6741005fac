package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.epub>",
		Short: "Print book metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			book, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, book.Close()) }()

			w := cmd.OutOrStdout()
			md := book.Metadata()
			fmt.Fprintf(w, "Title:    %s\n", md.Title)
			for _, c := range md.Creators {
				if c.Role != "" {
					fmt.Fprintf(w, "Creator:  %s (%s)\n", c.Name, c.Role)
				} else {
					fmt.Fprintf(w, "Creator:  %s\n", c.Name)
				}
			}
			fmt.Fprintf(w, "Language: %s\n", md.Language)
			fmt.Fprintf(w, "Package:  %s\n", book.Container().PackagePath)
			fmt.Fprintf(w, "Chapters: %d\n", book.Len())
			if cover := book.Package().DetectCover(); cover != nil {
				fmt.Fprintf(w, "Cover:    %s (%s)\n", cover.Href, cover.DetectionMethod)
			}
			return nil
		},
	}
}
