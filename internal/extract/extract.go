// Package extract reduces rendered MediaWiki HTML to clean plain text:
// structural pruning, markup conversion, whitespace normalization, and
// a minimum-length gate for non-content pages.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MinTextLength is the smallest normalized text (in runes) worth
// keeping; anything shorter is treated as a non-content page.
const MinTextLength = 100

// headingSel matches section headings; h1 is the page title and is
// never pruned.
const headingSel = "h2, h3, h4, h5, h6"

// Options configure an Extractor. Removal selectors are passed in
// explicitly so alternate rule sets can be injected per source type.
type Options struct {
	Removals      []string
	MinTextLength int
}

// DefaultOptions returns the canonical extraction options.
func DefaultOptions() Options {
	return Options{
		Removals:      ExtendedRemovals,
		MinTextLength: MinTextLength,
	}
}

// Extractor converts one page of rendered HTML into plain text. It is
// a pure transformation with no shared mutable state, safe for
// concurrent use.
type Extractor struct {
	removals string
	minLen   int
	conv     *converter.Converter
}

// New creates an Extractor with the given options.
func New(opts Options) *Extractor {
	if len(opts.Removals) == 0 {
		opts.Removals = ExtendedRemovals
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = MinTextLength
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	// Anchors render as their text only; images and any tables that
	// survive pruning render as nothing.
	conv.Register.RendererFor("a", converter.TagTypeInline, renderChildrenOnly, converter.PriorityEarly)
	conv.Register.RendererFor("img", converter.TagTypeInline, renderNothing, converter.PriorityEarly)
	conv.Register.RendererFor("table", converter.TagTypeBlock, renderNothing, converter.PriorityEarly)

	return &Extractor{
		removals: strings.Join(opts.Removals, ", "),
		minLen:   opts.MinTextLength,
		conv:     conv,
	}
}

// Clean runs the full reduction pipeline on one page's rendered HTML.
// ok is false when the page should be skipped: unparseable markup or
// normalized text below the minimum length.
func (e *Extractor) Clean(rawHTML string) (text string, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", false
	}

	doc.Find(e.removals).Remove()
	pruneDanglingHeadings(doc)

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", false
	}

	md, err := e.conv.ConvertString(body)
	if err != nil {
		return "", false
	}

	text = Normalize(md)
	if utf8.RuneCountInString(text) < e.minLen {
		return "", false
	}
	return text, true
}

// pruneDanglingHeadings removes section headings that introduce no
// content: a heading immediately followed by nothing, or by another
// heading. These are the empty section titles left behind after
// table and infobox removal.
func pruneDanglingHeadings(doc *goquery.Document) {
	doc.Find(headingSel).Each(func(_ int, h *goquery.Selection) {
		next := h.Next()
		if next.Length() == 0 || next.Is(headingSel) {
			h.Remove()
		}
	})
}

var (
	editTokenRe    = regexp.MustCompile(`(?i)\[edit\]`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	trailingWSRe   = regexp.MustCompile(`[ \t]+\n`)
	blankLineRunRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans converted text: leftover [edit] tokens go away,
// runs of spaces and tabs collapse to one space, runs of blank lines
// collapse to a single blank line, and the result is trimmed.
func Normalize(s string) string {
	s = editTokenRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = trailingWSRe.ReplaceAllString(s, "\n")
	s = blankLineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// renderChildrenOnly renders an element's children and drops the
// element itself (used for anchors: text kept, href dropped).
func renderChildrenOnly(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}

// renderNothing suppresses an element entirely.
func renderNothing(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	return converter.RenderSuccess
}
