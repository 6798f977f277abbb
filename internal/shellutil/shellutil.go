// Package shellutil expands command templates and quotes arguments for the
// user's shell. Spawning itself stays with the callers; this package only
// builds the command strings they hand to `$SHELL -c`.
package shellutil

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kk-code-lab/sift/internal/field"
	"github.com/kk-code-lab/sift/internal/item"
)

// Shell returns the user's shell, defaulting to sh.
func Shell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "sh"
}

// Quote single-quotes s for the shell, escaping embedded single quotes as
// '\''.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Context supplies the values the placeholders expand to.
type Context struct {
	// Item is the current item; nil expands {} to an empty string.
	Item      *item.Item
	Marked    []*item.Item
	Query     string
	CmdQuery  string
	Delimiter *regexp.Regexp
}

// Expand substitutes the template placeholders: {} is the current item,
// {n} the 1-based n-th field of it, {+} the marked items space-joined,
// {q} the query and {cq} the command query. Every substituted token is
// shell-quoted. Unknown placeholders are left alone.
func Expand(template string, ctx Context) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			b.WriteString(template[i:])
			break
		}
		open += i
		close := strings.IndexByte(template[open:], '}')
		if close < 0 {
			b.WriteString(template[i:])
			break
		}
		close += open

		b.WriteString(template[i:open])
		token := template[open+1 : close]
		if expanded, ok := ctx.expand(token); ok {
			b.WriteString(expanded)
		} else {
			b.WriteString(template[open : close+1])
		}
		i = close + 1
	}
	return b.String()
}

func (ctx Context) expand(token string) (string, bool) {
	switch token {
	case "":
		return Quote(ctx.itemText()), true
	case "+":
		items := ctx.Marked
		if len(items) == 0 && ctx.Item != nil {
			items = []*item.Item{ctx.Item}
		}
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Quote(it.Output())
		}
		return strings.Join(parts, " "), true
	case "q":
		return Quote(ctx.Query), true
	case "cq":
		return Quote(ctx.CmdQuery), true
	}
	if n, err := strconv.Atoi(token); err == nil && n != 0 {
		return Quote(ctx.fieldText(n)), true
	}
	return "", false
}

func (ctx Context) itemText() string {
	if ctx.Item == nil {
		return ""
	}
	return ctx.Item.Output()
}

func (ctx Context) fieldText(n int) string {
	if ctx.Item == nil {
		return ""
	}
	tokens := field.Tokenize(ctx.Item.Output(), ctx.Delimiter)
	if n < 0 {
		n = len(tokens) + 1 + n
	}
	if n < 1 || n > len(tokens) {
		return ""
	}
	return strings.TrimRight(tokens[n-1].Text, "\t\n ")
}

// HasItemPlaceholder reports whether the template references the current
// item or its fields, so callers can skip re-running a preview whose output
// cannot change.
func HasItemPlaceholder(template string) bool {
	re := regexp.MustCompile(`\{(\+|-?\d+)?\}`)
	return re.MatchString(template)
}
