package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/yuanying/epsaku/internal/epub"
	"github.com/yuanying/epsaku/internal/viewer"
)

type imageFlags struct {
	maxWidth int
	dir      string
	open     bool
}

func (f *imageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxWidth, "max-width", -1, "downscale images wider than this many pixels (default from config, 0 keeps the original)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory to write the image to (default: system temporary directory)")
	cmd.Flags().BoolVar(&f.open, "open", false, "open the image with the configured viewer")
}

func (a *app) newImageCmd() *cobra.Command {
	var flags imageFlags

	cmd := &cobra.Command{
		Use:   "image <file.epub> <chapter> <image>",
		Short: "Extract an image referenced by a chapter",
		Long: `Extract image n of a chapter ([IMG:n] in the text) and print the path of
the written file. Chapters are numbered from 0 in reading order.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			chapter, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid chapter %q: %w", args[1], err)
			}
			ref, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid image %q: %w", args[2], err)
			}

			book, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, book.Close()) }()

			file, err := book.ExtractImage(chapter, ref, flags.dir, a.extractOptions(flags))
			if err != nil {
				return err
			}
			a.finishExtract(cmd, file, flags)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newCoverCmd() *cobra.Command {
	var flags imageFlags

	cmd := &cobra.Command{
		Use:   "cover <file.epub>",
		Short: "Extract the cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			book, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, book.Close()) }()

			file, err := book.ExtractCover(flags.dir, a.extractOptions(flags))
			if err != nil {
				return err
			}
			a.finishExtract(cmd, file, flags)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) extractOptions(flags imageFlags) epub.ExtractOptions {
	opts := epub.ExtractOptions{MaxWidth: a.cfg.MaxImageWidth}
	if flags.maxWidth >= 0 {
		opts.MaxWidth = flags.maxWidth
	}
	return opts
}

// finishExtract prints the file path and, if asked, shows the image. The
// file is left in place: the caller asked for it.
func (a *app) finishExtract(cmd *cobra.Command, file string, flags imageFlags) {
	fmt.Fprintln(cmd.OutOrStdout(), file)
	if flags.open {
		l := viewer.New(a.cfg.Viewer, a.log)
		l.Open(file)
		l.Wait()
	}
}
