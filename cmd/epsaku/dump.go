package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const chapterSeparator = "\n---\n"

func (a *app) newDumpCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "dump <file.epub>",
		Short: "Print every chapter, separated by ---",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDump(cmd, args[0], plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print text without terminal styling")
	return cmd
}

func (a *app) runDump(cmd *cobra.Command, path string, plain bool) (err error) {
	book, err := a.open(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, book.Close()) }()

	w := bufio.NewWriter(cmd.OutOrStdout())
	for i := 0; i < book.Len(); i++ {
		ch, err := book.Render(i)
		if err != nil {
			return err
		}
		text := ch.ANSI()
		if plain {
			text = ch.Text()
		}
		fmt.Fprint(w, text, chapterSeparator)
	}
	return w.Flush()
}
