package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/config"
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/format"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
)

const (
	replPrompt     = "sqlpath> "
	replContPrompt = "    ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session for parsing and path queries",
		Long: `Start an interactive session. Enter a SELECT ending with a semicolon to
parse it; dot-commands then query the last parsed statement.`,
		Example: `  sqlpath repl
  sqlpath> SELECT u.name, p.title FROM users u JOIN posts p ON u.id = p.user_id;
  sqlpath> .path title`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}

	cmd.Flags().String("history-file", "", "History file (default: ~/"+config.DefaultHistoryFile+")")

	return cmd
}

func runREPL(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(cc.Cfg),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sqlpath REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	s := newSession(cc)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if s.handleLine(line) {
			break
		}
		rl.SetPrompt(s.prompt())
	}
	return nil
}

// historyFile resolves the configured history path, defaulting to the
// home directory.
func historyFile(cfg *config.Config) string {
	if cfg.REPL.HistoryFile != "" {
		return cfg.REPL.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, config.DefaultHistoryFile)
}

// session is the REPL state between lines.
type session struct {
	cc   *CommandContext
	buf  strings.Builder
	stmt *core.Statement
}

func newSession(cc *CommandContext) *session {
	return &session{cc: cc}
}

func (s *session) reset() { s.buf.Reset() }

func (s *session) prompt() string {
	if s.buf.Len() > 0 {
		return replContPrompt
	}
	return replPrompt
}

// handleLine consumes one input line and reports whether to quit.
func (s *session) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	// Dot-commands only start a fresh statement
	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	// Accumulate multi-line SQL until semicolon
	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false
	}

	text := strings.TrimSuffix(s.buf.String(), ";")
	s.buf.Reset()

	r := s.cc.Renderer
	stmt, err := s.cc.Parse("input", text)
	if err != nil {
		r.Error(err.Error())
		return false
	}
	s.stmt = stmt
	if err := renderReport(r, NewStatementReport("", stmt, s.cc.LineageOptions())); err != nil {
		r.Error(err.Error())
	}
	return false
}

func (s *session) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.cc.Renderer

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())
		return false

	case ".strategy":
		if len(parts) < 2 {
			r.Println(string(s.cc.Cfg.Lineage.Strategy))
			return false
		}
		strategy, err := lineage.ParseStrategy(parts[1])
		if err != nil {
			r.Error(err.Error())
			return false
		}
		s.cc.Cfg.Lineage.Strategy = strategy
		return false
	}

	if s.stmt == nil {
		r.Error("no statement yet; enter a SELECT ending with ;")
		return false
	}

	switch command {
	case ".path":
		if len(parts) < 2 {
			r.Error("usage: .path <field>")
			return false
		}
		opts := s.cc.LineageOptions()
		res := lineage.GetColumnPathWithOptions(s.stmt, parts[1], "", opts)
		if res == nil {
			r.Error("statement has no FROM table")
			return false
		}
		if err := renderPath(r, &PathReport{PathInfo: newPathInfo(res)}, opts.Strategy); err != nil {
			r.Error(err.Error())
		}

	case ".graph":
		if err := renderGraph(r, NewGraphReport(s.stmt)); err != nil {
			r.Error(err.Error())
		}

	case ".format":
		r.Println(format.Statement(s.stmt))

	default:
		r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .path <field>      Show the table and join path of a field
  .graph             Show the join graph of the last statement
  .format            Print the last statement in canonical layout
  .strategy [dfs|bfs] Show or set the path search strategy
  .quit / .exit      Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".path"),
		readline.PcItem(".graph"),
		readline.PcItem(".format"),
		readline.PcItem(".strategy",
			readline.PcItem(string(lineage.StrategyDFS)),
			readline.PcItem(string(lineage.StrategyBFS)),
		),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
