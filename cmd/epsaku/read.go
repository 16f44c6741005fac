package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/yuanying/epsaku/internal/epub"
	"github.com/yuanying/epsaku/internal/history"
	"github.com/yuanying/epsaku/internal/pager"
	"github.com/yuanying/epsaku/internal/viewer"
)

func (a *app) newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "read <file.epub>",
		Short:       "Page through a book (the default command)",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRead(cmd, args[0])
		},
	}
}

func (a *app) runRead(cmd *cobra.Command, path string) (err error) {
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if !stdoutTTY || !term.IsTerminal(int(os.Stdin.Fd())) {
		return a.runDump(cmd, path, !stdoutTTY)
	}

	book, err := a.open(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, book.Close()) }()

	hist, err := history.Load(a.cfg.HistoryFile)
	if err != nil {
		// reading works without history
		a.log.Warn("Unable to load reading history", zap.Error(err))
		hist = nil
	}

	var start history.Position
	if hist != nil {
		start, _ = hist.Get(path)
	}

	launcher := viewer.New(a.cfg.Viewer, a.log)
	defer launcher.Close()

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}

	m, err := pager.New(book, cols, rows, pager.Options{
		TextWidth: a.cfg.TextWidth,
		Start:     start,
		OpenImage: func(chapter, ref int) error {
			file, err := book.ExtractImage(chapter, ref, "", epub.ExtractOptions{MaxWidth: a.cfg.MaxImageWidth})
			if err != nil {
				return err
			}
			launcher.Open(file)
			return nil
		},
	})
	if err != nil {
		return err
	}

	t := &pager.Terminal{Log: a.log}
	runErr := t.Run(cmd.Context(), m)

	if hist != nil {
		hist.Set(path, m.Position())
		if err := hist.Save(); err != nil {
			a.log.Warn("Unable to save reading history", zap.Error(err))
		}
	}
	return runErr
}
