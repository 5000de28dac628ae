package onix

import (
	"sort"
	"strings"
	"sync"

	"onx/onix/codelist"
)

// HasShortTags reports whether the document head uses the ONIX 2.1 short
// tag vocabulary.
func HasShortTags(text string) bool {
	head := text
	if len(head) > detectPrefixLen {
		head = head[:detectPrefixLen]
	}
	return shortTagRe.MatchString(head)
}

// The replacer is built once from the short tag table. Pairs are ordered
// longest key first so a short tag never matches as a prefix of a longer
// one; each key is anchored with the bracket and its follow-up character so
// plain text content is never rewritten.
var shortTagReplacer = sync.OnceValue(func() *strings.Replacer {
	keys := make([]string, 0, len(codelist.ShortTags))
	for k := range codelist.ShortTags {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*8)
	for _, k := range keys {
		ref := codelist.ShortTags[k]
		pairs = append(pairs,
			"<"+k+">", "<"+ref+">",
			"<"+k+" ", "<"+ref+" ",
			"<"+k+"/", "<"+ref+"/",
			"</"+k+">", "</"+ref+">",
		)
	}
	return strings.NewReplacer(pairs...)
})

// ExpandShortTags rewrites ONIX 2.1 short tags to reference names. Pure
// text rewrite executed before XML parsing.
func ExpandShortTags(text string) string {
	return shortTagReplacer().Replace(text)
}
