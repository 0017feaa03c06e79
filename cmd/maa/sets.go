package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/homier/maa"
	"github.com/homier/maa/internal/words"
)

var (
	setsOp       string
	setsFold     bool
	setsEncoding string
	setsStats    bool
)

func init() {
	cmd := newSetsCmd()
	cmd.Flags().StringVar(&setsOp, "op", "union", "Set operation: union, inter, diff or equal")
	cmd.Flags().BoolVar(&setsFold, "fold", false, "Case fold words before comparing")
	cmd.Flags().StringVar(&setsEncoding, "encoding", "utf-8", "Input encoding")
	cmd.Flags().BoolVar(&setsStats, "stats", false, "Print set statistics")
	rootCmd.AddCommand(cmd)
}

func newSetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets <fileA> <fileB>",
		Short: "Compute set algebra over the words of two files",
		Long: `The sets command builds the set of words of each file and prints the
result of the chosen operation, one word per line in sorted order.

Example:
  maa sets a.txt b.txt
  maa sets a.txt b.txt --op inter
  maa sets a.txt b.txt --op equal --fold`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSets(cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func runSets(w io.Writer, args []string) error {
	if err := checkArgs(args, 2, "maa sets <fileA> <fileB>"); err != nil {
		return err
	}

	env := newEnv("sets")
	defer env.Close()

	a, err := loadWordSet(env, args[0])
	if err != nil {
		return err
	}
	defer a.Destroy()

	b, err := loadWordSet(env, args[1])
	if err != nil {
		return err
	}
	defer b.Destroy()

	var result *maa.Set[string]
	switch setsOp {
	case "union":
		result = maa.Union(a, b)
	case "inter":
		result = maa.Inter(a, b)
	case "diff":
		result = maa.Diff(a, b)
	case "equal":
		fmt.Fprintln(w, maa.Equal(a, b))

		return nil
	default:
		return errors.Errorf("unknown set operation %q", setsOp)
	}
	defer result.Destroy()

	elems := make([]string, 0, result.Count())
	for e := range result.All() {
		elems = append(elems, e)
	}
	slices.Sort(elems)

	for _, e := range elems {
		fmt.Fprintln(w, e)
	}
	fmt.Fprintf(w, "%d elements\n", len(elems))

	if setsStats {
		return result.PrintStats(w)
	}

	return nil
}

// loadWordSet builds the set of distinct words of a file. Words are interned
// in env, so equal words of both files share storage.
func loadWordSet(env *maa.Env, name string) (*maa.Set[string], error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	defer f.Close()

	r, err := words.NewReader(f, setsEncoding)
	if err != nil {
		return nil, err
	}

	s := maa.NewSet(maa.StringHash, maa.StringCompare, maa.WithLogger(logger))
	err = words.Scan(r, env.Strings(), setsFold, func(word string) error {
		if err := s.Insert(word); err != nil && !errors.Is(err, maa.ErrDuplicateKey) {
			return err
		}

		return nil
	})
	if err != nil {
		s.Destroy()

		return nil, errors.Wrapf(err, "failed to read %s", name)
	}

	return s, nil
}

// checkArgs validates that the correct number of arguments were provided
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return errors.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
