package wiki

import (
	"log/slog"
	"regexp"
)

// localeSubpageRe matches trailing locale subpage suffixes such as
// "/fr", "/pt-br", or "/zh-hans": translated duplicates of a primary
// page.
var localeSubpageRe = regexp.MustCompile(`/[a-z]{2,3}(-[a-z]+)?$`)

// FilterTitles applies the post-listing title filter. An explicit
// filter wins; otherwise locale subpages are dropped when
// autoFilterLangs is set. Discovered vs. retained counts are logged,
// never treated as an error.
func FilterTitles(titles []string, filter *regexp.Regexp, autoFilterLangs bool, logger *slog.Logger) []string {
	kept := titles
	switch {
	case filter != nil:
		kept = make([]string, 0, len(titles))
		for _, t := range titles {
			if filter.MatchString(t) {
				kept = append(kept, t)
			}
		}
	case autoFilterLangs:
		kept = make([]string, 0, len(titles))
		for _, t := range titles {
			if !localeSubpageRe.MatchString(t) {
				kept = append(kept, t)
			}
		}
	}

	logger.Info("page listing complete",
		"discovered", len(titles),
		"retained", len(kept),
	)
	return kept
}
