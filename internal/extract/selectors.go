package extract

// BaselineRemovals is the original pruning rule set: boilerplate DOM
// nodes stripped from rendered wiki HTML before text conversion.
var BaselineRemovals = []string{
	".portable-infobox",
	".navbox",
	"#toc",
	".toc",
	".mw-editsection",
	"script",
	"style",
	"#footer",
	".printfooter",
	"#catlinks",
	".catlinks",
	".gallery",
	".wikia-gallery",
	".mbox",
	".messagebox",
	".notice",
	".errorbox",
	"table",
	"figure",
	"video",
	".video",
}

// ExtendedRemovals adds inline references, jump links, the navigation
// landmark, classic infoboxes, and ambox templates. This is the
// default rule set.
var ExtendedRemovals = append([]string{
	".infobox",
	".reference",
	".mw-jump-link",
	"#mw-navigation",
	".ambox",
}, BaselineRemovals...)
