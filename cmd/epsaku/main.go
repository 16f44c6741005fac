package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuanying/epsaku/internal/config"
	"github.com/yuanying/epsaku/internal/epub"
)

// ownsTerminal marks commands that draw on the terminal; they never log to
// the console.
const ownsTerminal = "owns-terminal"

// app carries what every command needs once flags are parsed.
type app struct {
	cfgFile  string
	logLevel string

	cfg     *config.Config
	log     *zap.Logger
	closeLg func()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "epsaku <file.epub>",
		Short: "Read EPUB books in the terminal",
		Long: `epsaku renders the chapters of an EPUB book as styled text and pages
through them in the terminal. When standard output is not a terminal the
chapters are printed one after another instead.

Keys: q quit, space/PgDn and PgUp page, j/k line, h/l chapter, g/G start and
end of chapter, [n]v open image n of the chapter.`,
		Args:          cobra.ExactArgs(1),
		Annotations:   map[string]string{ownsTerminal: "true"},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLg != nil {
				a.closeLg()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRead(cmd, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default: ./epsaku.yaml or $XDG_CONFIG_HOME/epsaku/epsaku.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: none, normal or debug (overrides config)")

	rootCmd.AddCommand(
		a.newReadCmd(),
		a.newDumpCmd(),
		a.newTOCCmd(),
		a.newInfoCmd(),
		a.newImageCmd(),
		a.newCoverCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	console := cmd.Annotations[ownsTerminal] == ""
	if a.log, a.closeLg, err = cfg.Log.Prepare(console); err != nil {
		return err
	}
	return nil
}

func (a *app) open(path string) (*epub.Epub, error) {
	book, err := epub.Open(path, epub.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	return book, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "epsaku: %v\n", err)
		stop()
		os.Exit(1)
	}
}
