// ABOUTME: Heuristic boilerplate scrubber for auto-extracted article markdown
// ABOUTME: Ordered head-trim probe cascade, tail-strip rule table, and link flattening

package scrub

import (
	"regexp"
	"strings"
)

// The extraction engine is generic and not site-aware, so its output still
// carries site navigation, related-article blocks, and ad markers. The
// tables below encode where real body text starts and which trailing blocks
// to drop, per site layout. Probe order is priority order: most common and
// most specific layouts first. Do not reorder casually.

type probe struct {
	name string
	re   *regexp.Regexp
}

// genericHeading appears twice in the cascade on purpose: the second entry
// is the last-resort re-probe the original pipeline grew, kept until someone
// confirms layouts no longer need the double chance.
var genericHeading = regexp.MustCompile(`[^#]# .*`)

var headProbes = []probe{
	{"continue-reading", regexp.MustCompile(`(?s)\[Tovább.a.rovat[^)]*\)`)},
	{"follow-box", regexp.MustCompile(`(?s)Kövesse az Indexet.*facebook.com/Indexhu\)`)},
	{"category-nav", regexp.MustCompile(`\[(Belföld|Külföld|After|Gazdaság|Sport|Techtud|Gasztro|Észkombájn|Életmód|Zacc|Podcast|KultEnglish)\].*\)`)},
	{"masthead-image", regexp.MustCompile(`(?s)!\[Index.hu[^)]*\)`)},
	{"first-heading", genericHeading},
	{"newsletter-image", regexp.MustCompile(`!\[Véleményhírlevél.*`)},
	{"clipboard-marker", regexp.MustCompile(`Vágólapra másolva.*`)},
	{"first-heading-retry", genericHeading},
}

// Tail rules run in sequence. Rules with (?s) erase from the first match to
// the end of the text; line-scoped rules erase each matching line remainder.
var tailRules = []probe{
	{"gallery-teaser", regexp.MustCompile(`Galéria: .*`)},
	{"promo-blocks", regexp.MustCompile(`(?s)(\[!\[Index könyvek.*|!\[Zöld Index).*|\[Akták.*|!\[Index.hu[^)]*\).*`)},
	{"photo-credit", regexp.MustCompile(`(?s)\*\([^)]+\).*`)},
	{"related-news", regexp.MustCompile(`(?s)## A téma legfrissebb hírei.*`)},
	{"instagram-embed", regexp.MustCompile(`(?s)> \[A bejegyzés megtekintése az Instagramon.*`)},
	{"google-news-badge", regexp.MustCompile(`(?s)\[!\[Google News.*`)},
	{"more-news", regexp.MustCompile(`(?s)#### További [^\n]* híreink.*`)},
	{"related-links", regexp.MustCompile(`(?s)[ ]{0,4}\[Kedvenceink.*|[ ]{0,4}\[Kapcsolódó.*`)},
	{"via-attribution", regexp.MustCompile(`(?s)\*?Via \[.*`)},
	{"tracking-icon", regexp.MustCompile(`(?s)\[!\[\]\(https://www.hwsw.hu/img/icons/facebook.svg\).*`)},
	{"newsletter-teaser", regexp.MustCompile(`!\[Véleményhírlevél.*`)},
}

// linkPattern matches a markdown hyperlink that is not an image reference.
// RE2 has no lookbehind, so the preceding character is captured and
// restored in the replacement.
var linkPattern = regexp.MustCompile(`(^|[^!])\[([^\]]+)\]\([^)]+\)`)

// Clean runs the full scrub: head-trim, tail-strip, then link flattening.
// Text matching no probe and no rule passes through unmodified.
func Clean(text string) string {
	return FlattenLinks(StripTail(TrimHead(text)))
}

// TrimHead probes for the end of leading boilerplate and cuts everything up
// to and including the first probe that matches. The cascade stops at the
// first match; a miss on all probes leaves the text as-is.
func TrimHead(text string) string {
	for _, p := range headProbes {
		if loc := p.re.FindStringIndex(text); loc != nil {
			return strings.TrimLeft(text[loc[1]:], "\n")
		}
	}
	return text
}

// StripTail applies every tail rule in order. Unmatched rules are no-ops;
// content before a rule's first match is preserved.
func StripTail(text string) string {
	for _, r := range tailRules {
		text = r.re.ReplaceAllString(text, "")
	}
	return text
}

// FlattenLinks reduces [text](url) hyperlinks to bare anchor text while
// leaving ![alt](url) image references untouched. Adjacent links need
// another pass because the consumed preceding character hides the next
// match, so replacement loops until stable.
func FlattenLinks(text string) string {
	for {
		flattened := linkPattern.ReplaceAllString(text, "${1}${2}")
		if flattened == text {
			return flattened
		}
		text = flattened
	}
}
