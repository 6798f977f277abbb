package app

import (
	"io"
	"regexp"

	"github.com/kk-code-lab/sift/internal/field"
	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/query"
	"github.com/kk-code-lab/sift/internal/ui/render"
)

// Options carry everything the coordinator needs, assembled by the CLI
// layer. Only NoSort changes after startup (the toggle-sort action flips it).
type Options struct {
	// Query seeds.
	Query    string
	CmdQuery string

	// Interactive mode: Cmd is the command template re-run per command
	// query; empty Cmd with Interactive unset reads stdin once.
	Cmd         string
	Interactive bool

	Case           fuzzy.Case
	Algo           fuzzy.Algo
	Regex          bool
	Exact          bool
	Normalize      bool
	SplitDelimiter rune
	Tiebreak       []item.Criterion
	MinQueryLength int

	Multi bool
	Cycle bool
	Tac   bool
	NoSort bool

	Read0       bool
	Delimiter   *regexp.Regexp
	Nth         []field.Range
	WithNth     []field.Range
	HeaderLines int
	Ansi        bool
	ShowCmdErr  bool

	Binds   []string
	Expect  []string
	Prompt  string
	CmdPrompt string
	Reverse bool

	Preview       string
	PreviewWindow render.PreviewWindow

	History    *query.History
	CmdHistory *query.History

	Shell string

	// Source substitutes stdin, for tests and library embedding.
	Source io.Reader
}

// Result is what an interactive session leaves behind for the CLI layer to
// print.
type Result struct {
	Selected  []*item.Item
	Query     string
	CmdQuery  string
	AcceptKey string
	IsAbort   bool
}

// ExitCode follows the fzf/skim convention: 0 with selections, 1 without,
// 130 on abort.
func (r Result) ExitCode() int {
	if r.IsAbort {
		return 130
	}
	if len(r.Selected) == 0 {
		return 1
	}
	return 0
}
