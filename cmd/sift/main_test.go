package main

import (
	"testing"

	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
)

func baseFlags() *cliFlags {
	return &cliFlags{
		caseMode:      "smart",
		algo:          "skim",
		tiebreak:      "score,begin,end",
		prompt:        "> ",
		cmdPrompt:     "c> ",
		previewWindow: "right:50%",
		historySize:   1000,
	}
}

func TestBuildOptionsDefaults(t *testing.T) {
	opts, err := buildOptions(baseFlags())
	if err != nil {
		t.Fatal(err)
	}
	if opts.Case != fuzzy.CaseSmart || opts.Algo != fuzzy.AlgoSkim {
		t.Errorf("case/algo = %v/%v", opts.Case, opts.Algo)
	}
	want := []item.Criterion{item.ByScore, item.ByBegin, item.ByEnd}
	if len(opts.Tiebreak) != len(want) {
		t.Fatalf("tiebreak = %v", opts.Tiebreak)
	}
	for i, c := range want {
		if opts.Tiebreak[i] != c {
			t.Errorf("tiebreak[%d] = %v, want %v", i, opts.Tiebreak[i], c)
		}
	}
}

func TestBuildOptionsRejectsBadValues(t *testing.T) {
	bad := []func(*cliFlags){
		func(f *cliFlags) { f.caseMode = "loud" },
		func(f *cliFlags) { f.algo = "magic" },
		func(f *cliFlags) { f.tiebreak = "score,bogus" },
		func(f *cliFlags) { f.splitMatch = "ab" },
		func(f *cliFlags) { f.delimiter = "(" },
		func(f *cliFlags) { f.nth = "1..x" },
		func(f *cliFlags) { f.previewWindow = "right:banana" },
		func(f *cliFlags) { f.interactive = true },
	}
	for i, mutate := range bad {
		f := baseFlags()
		mutate(f)
		if _, err := buildOptions(f); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestBuildOptionsSplitMatch(t *testing.T) {
	f := baseFlags()
	f.splitMatch = ":"
	opts, err := buildOptions(f)
	if err != nil {
		t.Fatal(err)
	}
	if opts.SplitDelimiter != ':' {
		t.Errorf("split delimiter = %q", opts.SplitDelimiter)
	}
}

func TestBuildOptionsExpect(t *testing.T) {
	f := baseFlags()
	f.expect = "f1,ctrl-o"
	opts, err := buildOptions(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Expect) != 2 || opts.Expect[0] != "f1" || opts.Expect[1] != "ctrl-o" {
		t.Errorf("expect = %v", opts.Expect)
	}
}

func TestMultiOverriddenByNoMulti(t *testing.T) {
	f := baseFlags()
	f.multi = true
	f.noMulti = true
	opts, err := buildOptions(f)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Multi {
		t.Error("--no-multi must win over --multi")
	}
}
