package extract

import (
	"strings"
	"testing"
)

// filler is comfortably above the minimum length gate once normalized.
var filler = strings.Repeat("The wiki article body continues with useful sentences. ", 4)

func TestCleanDropsTablesKeepsParagraphs(t *testing.T) {
	e := New(DefaultOptions())
	html := `<table><tr><td>INFOBOX JUNK</td></tr></table><p>` + filler + `</p>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	if strings.Contains(text, "INFOBOX JUNK") {
		t.Error("table content survived pruning")
	}
	if !strings.Contains(text, "useful sentences") {
		t.Errorf("paragraph content missing from %q", text)
	}
}

func TestCleanDiscardsShortContent(t *testing.T) {
	e := New(DefaultOptions())
	if _, ok := e.Clean("<p>Too short to keep.</p>"); ok {
		t.Error("content below the minimum length should be discarded")
	}
}

func TestCleanRemovesExtendedSelectors(t *testing.T) {
	e := New(DefaultOptions())
	html := `<div class="infobox">STATS BLOCK</div>` +
		`<sup class="reference">[1]</sup>` +
		`<div class="ambox">NOTICE</div>` +
		`<p>` + filler + `</p>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	for _, junk := range []string{"STATS BLOCK", "[1]", "NOTICE"} {
		if strings.Contains(text, junk) {
			t.Errorf("removed-selector content %q survived", junk)
		}
	}
}

func TestCleanPrunesDanglingHeadings(t *testing.T) {
	e := New(DefaultOptions())
	html := `<h2>Empty Section</h2><h2>Real Section</h2><p>` + filler + `</p>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	if strings.Contains(text, "Empty Section") {
		t.Error("heading followed by another heading should be pruned")
	}
	if !strings.Contains(text, "Real Section") {
		t.Error("heading followed by content should be retained")
	}
}

func TestCleanPrunesTrailingHeading(t *testing.T) {
	e := New(DefaultOptions())
	html := `<p>` + filler + `</p><h2>Trailing</h2>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	if strings.Contains(text, "Trailing") {
		t.Error("heading followed by nothing should be pruned")
	}
}

func TestCleanRendersAnchorsAsText(t *testing.T) {
	e := New(DefaultOptions())
	html := `<p>See <a href="/wiki/Other_Page">the other page</a> for details. ` + filler + `</p>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	if !strings.Contains(text, "the other page") {
		t.Error("anchor text should be kept")
	}
	if strings.Contains(text, "/wiki/Other_Page") {
		t.Error("anchor href should be dropped")
	}
}

func TestCleanBaselineKeepsInfobox(t *testing.T) {
	e := New(Options{Removals: BaselineRemovals})
	html := `<div class="infobox">STATS BLOCK</div><p>` + filler + `</p>`

	text, ok := e.Clean(html)
	if !ok {
		t.Fatal("expected page to be kept")
	}
	if !strings.Contains(text, "STATS BLOCK") {
		t.Error("baseline rule set should not remove .infobox")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\t\tc", "a b c"},
		{"before[edit]after", "beforeafter"},
		{"before[EDIT]after", "beforeafter"},
		{"a\n\n\n\n\nb", "a\n\nb"},
		{"  padded  ", "padded"},
		{"line  \ntrail", "line\ntrail"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
