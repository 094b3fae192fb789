package types

// ScrapedPage is one cleaned wiki article, ready for downstream
// ingestion. Content is plain text produced by the extract pipeline and
// is never mutated after the page enters the result set.
type ScrapedPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
