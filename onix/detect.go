package onix

import (
	"regexp"
	"strings"

	"onx/common"
)

// Only the head of the document carries version markers, scanning more buys
// nothing on multi-megabyte feeds.
const detectPrefixLen = 2000

var (
	releaseAttrRe = regexp.MustCompile(`release\s*=\s*["']([0-9][0-9.]*)["']`)
	shortTagRe    = regexp.MustCompile(`<[a-z][0-9]{3}[\s/>]`)
	doctypeRe     = regexp.MustCompile(`<!DOCTYPE\s+ONIX[Mm]essage`)
)

// DetectVersion classifies raw XML text as one of the three supported ONIX
// releases. Checks run in priority order: explicit 3.x namespace, release
// attribute, 2.1 vocabulary markers, bare ONIXMessage root. "unknown" is
// terminal for the caller, we never guess.
func DetectVersion(text string) common.ONIXVersion {
	head := text
	if len(head) > detectPrefixLen {
		head = head[:detectPrefixLen]
	}

	if strings.Contains(head, "onix/3.1") {
		return common.ONIX31
	}
	if strings.Contains(head, "onix/3.0") {
		return common.ONIX30
	}
	if strings.Contains(head, "onix/2.1") {
		return common.ONIX21
	}

	if m := releaseAttrRe.FindStringSubmatch(head); m != nil {
		switch {
		case strings.HasPrefix(m[1], "3.1"):
			return common.ONIX31
		case strings.HasPrefix(m[1], "3.0"):
			return common.ONIX30
		case strings.HasPrefix(m[1], "3"):
			// future 3.x minor releases parse like 3.1
			return common.ONIX31
		}
	}

	switch {
	case doctypeRe.MatchString(head):
		return common.ONIX21
	case strings.Contains(head, "<ONIXmessage"):
		return common.ONIX21
	case shortTagRe.MatchString(head):
		return common.ONIX21
	case strings.Contains(head, "<product>"):
		return common.ONIX21
	}

	if strings.Contains(head, "<ONIXMessage") && !strings.Contains(head, "xmlns") {
		return common.ONIX21
	}

	return common.ONIXUnknown
}
