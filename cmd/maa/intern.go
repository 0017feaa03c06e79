package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/homier/maa"
	"github.com/homier/maa/internal/words"
)

var (
	internFold     bool
	internEncoding string
	internStats    bool
)

func init() {
	cmd := newInternCmd()
	cmd.Flags().BoolVar(&internFold, "fold", false, "Case fold words before interning")
	cmd.Flags().StringVar(&internEncoding, "encoding", "utf-8", "Input encoding (utf-8, latin1, windows-1252, ...)")
	cmd.Flags().BoolVar(&internStats, "stats", false, "Print string pool statistics")
	rootCmd.AddCommand(cmd)
}

func newInternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intern [file...]",
		Short: "Intern the words of text files into one string pool",
		Long: `The intern command splits its input into words and interns every word
in a single string pool. Without file arguments, or with "-", it reads stdin.

Example:
  maa intern book.txt
  maa intern --fold --stats a.txt b.txt
  cat notes.txt | maa intern --encoding latin1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntern(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func runIntern(stdin io.Reader, w io.Writer, args []string) error {
	env := newEnv("intern")
	defer env.Close()

	if len(args) == 0 {
		args = []string{"-"}
	}

	total := 0
	for _, name := range args {
		n, err := internFile(stdin, name, env.Strings())
		if err != nil {
			return err
		}
		total += n
	}

	st := env.Stats()
	fmt.Fprintf(w, "%s words, %s distinct (%s)\n",
		humanize.Comma(int64(total)), humanize.Comma(int64(st.Count)), humanize.Bytes(uint64(st.Bytes)))

	if internStats {
		return env.PrintStats(w)
	}

	return nil
}

func internFile(stdin io.Reader, name string, pool *maa.StringPool) (int, error) {
	var in io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, errors.Wrap(err, "failed to open input")
		}
		defer f.Close()

		in = f
	}

	r, err := words.NewReader(in, internEncoding)
	if err != nil {
		return 0, err
	}

	n, err := words.Count(r, pool, internFold)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", name)
	}

	return n, nil
}
