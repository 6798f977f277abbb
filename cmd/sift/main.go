// sift is an interactive fuzzy filter for the terminal: it ranks streaming
// candidates against the query in real time and prints the accepted
// selection on stdout.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kk-code-lab/sift/internal/app"
	"github.com/kk-code-lab/sift/internal/field"
	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/query"
	"github.com/kk-code-lab/sift/internal/ui/render"
)

const (
	exitOK       = 0
	exitNoMatch  = 1
	exitArgError = 2
	exitAbort    = 130
)

type cliFlags struct {
	query          string
	cmdQuery       string
	cmd            string
	interactive    bool
	caseMode       string
	algo           string
	regex          bool
	exact          bool
	normalize      bool
	splitMatch     string
	tiebreak       string
	multi          bool
	noMulti        bool
	cycle          bool
	tac            bool
	noSort         bool
	reverse        bool
	delimiter      string
	nth            string
	withNth        string
	headerLines    int
	ansi           bool
	showCmdError   bool
	binds          []string
	expect         string
	prompt         string
	cmdPrompt      string
	preview        string
	previewWindow  string
	minQueryLen    int
	printQuery     bool
	printCmd       bool
	print0         bool
	read0          bool
	filter         string
	filterGiven    bool
	history        string
	cmdHistory     string
	historySize    int
}

func main() {
	flags := &cliFlags{}
	var exitCode int

	root := &cobra.Command{
		Use:           "sift",
		Short:         "Interactive fuzzy filter",
		Long:          "sift ranks candidates from stdin or a spawned command against the query, interactively or in batch --filter mode.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.filterGiven = cmd.Flags().Changed("filter")
			code, err := run(flags)
			exitCode = code
			return err
		},
	}

	f := root.Flags()
	f.StringVarP(&flags.query, "query", "q", "", "initial query")
	f.StringVar(&flags.cmdQuery, "cmd-query", "", "initial command query (interactive mode)")
	f.StringVarP(&flags.cmd, "cmd", "c", "", "command to generate candidates; {} expands to the command query")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "start in interactive (command) mode")
	f.StringVar(&flags.caseMode, "case", "smart", "case policy: smart, ignore, respect")
	f.StringVar(&flags.algo, "algo", "skim", "fuzzy algorithm: skim, clangd")
	f.BoolVar(&flags.regex, "regex", false, "treat the query as a regular expression")
	f.BoolVarP(&flags.exact, "exact", "e", false, "exact (substring) matching for bare terms")
	f.BoolVar(&flags.normalize, "normalize", false, "match against latin-normalized text")
	f.StringVar(&flags.splitMatch, "split-match", "", "split query and item at this character")
	f.StringVar(&flags.tiebreak, "tiebreak", "score,begin,end", "comma-separated tiebreak criteria")
	f.BoolVarP(&flags.multi, "multi", "m", false, "enable multi-select")
	f.BoolVar(&flags.noMulti, "no-multi", false, "disable multi-select")
	f.BoolVar(&flags.cycle, "cycle", false, "wrap the cursor at the list edges")
	f.BoolVar(&flags.tac, "tac", false, "newest input first")
	f.BoolVar(&flags.noSort, "no-sort", false, "keep results in arrival order")
	f.BoolVar(&flags.reverse, "reverse", false, "prompt on top, list growing downward")
	f.StringVarP(&flags.delimiter, "delimiter", "d", "", "field delimiter regex (default whitespace)")
	f.StringVarP(&flags.nth, "nth", "n", "", "restrict matching to these fields")
	f.StringVar(&flags.withNth, "with-nth", "", "transform display text to these fields")
	f.IntVar(&flags.headerLines, "header-lines", 0, "reserve the first N lines as header")
	f.BoolVar(&flags.ansi, "ansi", false, "parse ANSI color codes in input")
	f.BoolVar(&flags.showCmdError, "show-cmd-error", false, "let the data command's stderr through")
	f.StringArrayVar(&flags.binds, "bind", nil, "custom key bindings: key:action+action,...")
	f.StringVar(&flags.expect, "expect", "", "comma-separated keys that accept and are reported")
	f.StringVarP(&flags.prompt, "prompt", "p", "> ", "query prompt")
	f.StringVar(&flags.cmdPrompt, "cmd-prompt", "c> ", "command query prompt")
	f.StringVar(&flags.preview, "preview", "", "preview command template")
	f.StringVar(&flags.previewWindow, "preview-window", "right:50%", "preview window layout")
	f.IntVar(&flags.minQueryLen, "min-query-length", 0, "minimum query length before matching")
	f.BoolVar(&flags.printQuery, "print-query", false, "print the query as the first output line")
	f.BoolVar(&flags.printCmd, "print-cmd", false, "print the command query before selections")
	f.BoolVar(&flags.print0, "print0", false, "terminate output records with NUL")
	f.BoolVar(&flags.read0, "read0", false, "read NUL-terminated input records")
	f.StringVarP(&flags.filter, "filter", "f", "", "batch mode: print matches for this pattern and exit")
	f.StringVar(&flags.history, "history", "", "query history file")
	f.StringVar(&flags.cmdHistory, "cmd-history", "", "command query history file")
	f.IntVar(&flags.historySize, "history-size", 1000, "maximum history entries kept")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		if exitCode == 0 {
			exitCode = exitArgError
		}
	}
	os.Exit(exitCode)
}

// buildOptions validates the flag surface into coordinator options.
// Validation failures are argument errors (exit 2).
func buildOptions(flags *cliFlags) (app.Options, error) {
	opts := app.Options{
		Query:       flags.query,
		CmdQuery:    flags.cmdQuery,
		Cmd:         flags.cmd,
		Interactive: flags.interactive,
		Regex:       flags.regex,
		Exact:       flags.exact,
		Normalize:   flags.normalize,
		Multi:       flags.multi && !flags.noMulti,
		Cycle:       flags.cycle,
		Tac:         flags.tac,
		NoSort:      flags.noSort,
		Reverse:     flags.reverse,
		HeaderLines: flags.headerLines,
		Read0:       flags.read0,
		Ansi:        flags.ansi,
		ShowCmdErr:  flags.showCmdError,
		Binds:       flags.binds,
		Prompt:      flags.prompt,
		CmdPrompt:   flags.cmdPrompt,
		Preview:     flags.preview,
		MinQueryLength: flags.minQueryLen,
		Shell:       os.Getenv("SHELL"),
	}

	switch flags.caseMode {
	case "smart":
		opts.Case = fuzzy.CaseSmart
	case "ignore":
		opts.Case = fuzzy.CaseIgnore
	case "respect":
		opts.Case = fuzzy.CaseRespect
	default:
		return opts, fmt.Errorf("invalid --case %q", flags.caseMode)
	}

	switch flags.algo {
	case "skim", "":
		opts.Algo = fuzzy.AlgoSkim
	case "clangd":
		opts.Algo = fuzzy.AlgoClangd
	default:
		return opts, fmt.Errorf("invalid --algo %q", flags.algo)
	}

	if flags.splitMatch != "" {
		runes := []rune(flags.splitMatch)
		if len(runes) != 1 {
			return opts, fmt.Errorf("--split-match wants a single character, got %q", flags.splitMatch)
		}
		opts.SplitDelimiter = runes[0]
	}

	criteria, err := item.ParseCriteria(flags.tiebreak)
	if err != nil {
		return opts, err
	}
	opts.Tiebreak = criteria

	if flags.delimiter != "" {
		re, err := regexp.Compile(flags.delimiter)
		if err != nil {
			return opts, fmt.Errorf("invalid --delimiter: %w", err)
		}
		opts.Delimiter = re
	}
	if opts.Nth, err = field.ParseRanges(flags.nth); err != nil {
		return opts, fmt.Errorf("invalid --nth: %w", err)
	}
	if opts.WithNth, err = field.ParseRanges(flags.withNth); err != nil {
		return opts, fmt.Errorf("invalid --with-nth: %w", err)
	}

	if flags.expect != "" {
		opts.Expect = strings.Split(flags.expect, ",")
	}

	if opts.PreviewWindow, err = render.ParsePreviewWindow(flags.previewWindow); err != nil {
		return opts, err
	}

	if flags.history != "" {
		if opts.History, err = query.NewHistory(flags.history, flags.historySize); err != nil {
			return opts, fmt.Errorf("cannot open history %q: %w", flags.history, err)
		}
	}
	if flags.cmdHistory != "" {
		if opts.CmdHistory, err = query.NewHistory(flags.cmdHistory, flags.historySize); err != nil {
			return opts, fmt.Errorf("cannot open cmd history %q: %w", flags.cmdHistory, err)
		}
	}

	if flags.interactive && flags.cmd == "" {
		return opts, fmt.Errorf("--interactive needs --cmd")
	}

	// Nothing piped in and no command given: fall back to the default
	// candidate command rather than blocking on a TTY read.
	if opts.Cmd == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Cmd = defaultCommand()
	}
	return opts, nil
}

func defaultCommand() string {
	if cmd := os.Getenv("SIFT_DEFAULT_COMMAND"); cmd != "" {
		return cmd
	}
	return "find ."
}

func run(flags *cliFlags) (int, error) {
	opts, err := buildOptions(flags)
	if err != nil {
		return exitArgError, err
	}

	if flags.filterGiven {
		return runFilter(flags, opts)
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)
	screen, err := tcell.NewScreen()
	if err != nil {
		return exitArgError, fmt.Errorf("cannot open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return exitArgError, fmt.Errorf("cannot open terminal: %w", err)
	}

	a, err := app.New(opts, screen)
	if err != nil {
		screen.Fini()
		return exitArgError, err
	}
	result, err := a.Run()
	if err != nil {
		return exitArgError, err
	}

	printResult(flags, result)
	return result.ExitCode(), nil
}

func runFilter(flags *cliFlags, opts app.Options) (int, error) {
	matched, err := app.Filter(opts, flags.filter, os.Stdin)
	if err != nil {
		return exitArgError, err
	}

	terminator := "\n"
	if flags.print0 {
		terminator = "\x00"
	}
	if flags.printQuery {
		fmt.Print(flags.filter, terminator)
	}
	for _, m := range matched {
		fmt.Print(m.Item.Output(), terminator)
	}
	if len(matched) == 0 {
		return exitNoMatch, nil
	}
	return exitOK, nil
}

func printResult(flags *cliFlags, result app.Result) {
	terminator := "\n"
	if flags.print0 {
		terminator = "\x00"
	}
	if flags.printQuery {
		fmt.Print(result.Query, terminator)
	}
	if flags.printCmd {
		fmt.Print(result.CmdQuery, terminator)
	}
	if flags.expect != "" {
		fmt.Print(result.AcceptKey, terminator)
	}
	if result.IsAbort {
		return
	}
	for _, it := range result.Selected {
		fmt.Print(it.Output(), terminator)
	}
}
