package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/build"
	"go.trai.ch/memo/internal/lang"
)

const historyFile = ".memo_history"

func (c *CLI) newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive evaluation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "memo %s, type q() to quit\n", build.Version)

			ln := liner.NewLiner()
			defer func() { _ = ln.Close() }()
			ln.SetCtrlCAborts(true)

			histPath := historyPath()
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}

			for {
				source, ok := readStatement(ln)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout())
					break
				}
				trimmed := strings.TrimSpace(source)
				if trimmed == "" {
					continue
				}
				if trimmed == "q()" || trimmed == "quit()" {
					break
				}

				records, err := c.app.Evaluate(cmd.Context(), source)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
					continue
				}
				printRecords(cmd.OutOrStdout(), cmd.ErrOrStderr(), records)
				ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
			}

			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
			return nil
		},
	}
}

// readStatement accumulates input lines until the parser no longer reports an
// incomplete statement. Returns ok=false on EOF.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := "> "
		if b.Len() > 0 {
			prompt = "+ "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C aborts the current input; start over.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if looksIncomplete(src) {
			continue
		}
		return src, true
	}
}

// looksIncomplete probes the parser to decide whether more input is needed.
func looksIncomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := lang.Split(src)
	return err != nil && strings.Contains(err.Error(), "unexpected end of input")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
