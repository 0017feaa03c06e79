package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/homier/maa"
)

const replPrompt = "maa> "

var replHistory string

func init() {
	cmd := newReplCmd()
	cmd.Flags().StringVar(&replHistory, "history", "", "History file, loaded on start and saved on exit")
	rootCmd.AddCommand(cmd)
}

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell over a string hash table",
		Long: `The repl command opens an interactive shell over a hash table mapping
strings to strings. Keys and values are interned in a string pool.

Commands:
  insert <key> <value...>   add a pair, fails on duplicate keys
  get <key>                 print the value of key
  delete <key>              remove key
  list                      print every pair in key order
  stats                     print table and pool statistics
  help                      show this list
  quit                      leave the shell`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.OutOrStdout())
		},
	}
	return cmd
}

type session struct {
	table *maa.HashTable[string, string]
	env   *maa.Env
}

func newSession() *session {
	return &session{
		table: maa.NewHashTable[string, string](maa.StringHash, maa.StringCompare, maa.WithLogger(logger)),
		env:   newEnv("repl"),
	}
}

func (s *session) close() {
	s.table.Destroy()
	s.env.Close()
}

func runRepl(w io.Writer) error {
	s := newSession()
	defer s.close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	if replHistory != "" {
		if f, err := os.Open(replHistory); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(w, `maa shell, type "help" for commands`)
	}

	for {
		input, err := line.Prompt(replPrompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read command")
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := s.exec(w, input)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		if quit {
			break
		}
	}

	if replHistory != "" {
		f, err := os.Create(replHistory)
		if err != nil {
			return errors.Wrap(err, "failed to save history")
		}
		defer f.Close()

		if _, err := line.WriteHistory(f); err != nil {
			return errors.Wrap(err, "failed to save history")
		}
	}

	return nil
}

var replCommands = []string{"insert", "get", "delete", "list", "stats", "help", "quit"}

func completeCommand(input string) []string {
	var out []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, input) {
			out = append(out, c)
		}
	}
	return out
}

// exec runs one shell command. It reports whether the shell should exit.
func (s *session) exec(w io.Writer, input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "insert", "set":
		if len(args) < 2 {
			return false, errors.New("usage: insert <key> <value...>")
		}

		key := s.env.Copy(args[0])
		value := s.env.Copy(strings.Join(args[1:], " "))
		if err := s.table.Insert(key, value); err != nil {
			return false, errors.Wrapf(err, "insert %q", key)
		}
		fmt.Fprintln(w, "OK")

	case "get":
		if len(args) != 1 {
			return false, errors.New("usage: get <key>")
		}

		if v, ok := s.table.Retrieve(args[0]); ok {
			fmt.Fprintln(w, v)
		} else {
			fmt.Fprintln(w, "(nil)")
		}

	case "delete", "del":
		if len(args) != 1 {
			return false, errors.New("usage: delete <key>")
		}

		if err := s.table.Delete(args[0]); err != nil {
			return false, errors.Wrapf(err, "delete %q", args[0])
		}
		fmt.Fprintln(w, "OK")

	case "list":
		keys := make([]string, 0, s.table.Len())
		for k := range s.table.All() {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			v, _ := s.table.Retrieve(k)
			fmt.Fprintf(w, "%s = %s\n", k, v)
		}
		fmt.Fprintf(w, "(%d pairs)\n", len(keys))

	case "stats":
		if err := s.table.PrintStats(w); err != nil {
			return false, err
		}
		return false, s.env.PrintStats(w)

	case "help":
		fmt.Fprintln(w, "commands: "+strings.Join(replCommands, ", "))

	case "quit", "exit":
		return true, nil

	default:
		return false, errors.Errorf("unknown command %q", cmd)
	}

	return false, nil
}
