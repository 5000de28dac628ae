// The only reason this package exists is because both the core interchange
// engine and the import/export surfaces need the same small enums and I do
// not want them pulling in each other's packages for that.
package common

import (
	"fmt"
	"strings"
)

// ONIXVersion selects the wire format: namespace, release attribute and tag
// vocabulary. Immutable once detected or selected, never changes mid-pipeline.
type ONIXVersion string

const (
	ONIX21      ONIXVersion = "2.1"
	ONIX30      ONIXVersion = "3.0"
	ONIX31      ONIXVersion = "3.1"
	ONIXUnknown ONIXVersion = "unknown"

	DefaultVersion = ONIX31
)

func (v ONIXVersion) Known() bool {
	return v == ONIX21 || v == ONIX30 || v == ONIX31
}

func (v ONIXVersion) String() string {
	return string(v)
}

func ParseONIXVersion(raw string) (ONIXVersion, error) {
	switch ONIXVersion(strings.TrimSpace(raw)) {
	case ONIX21:
		return ONIX21, nil
	case ONIX30:
		return ONIX30, nil
	case ONIX31:
		return ONIX31, nil
	default:
		return ONIXUnknown, fmt.Errorf("unknown ONIX version %q", raw)
	}
}

func ONIXVersionNames() []string {
	return []string{string(ONIX21), string(ONIX30), string(ONIX31)}
}

// PublishingStatus is the internal title lifecycle bucket that EDItEUR list
// 64 codes collapse into.
type PublishingStatus string

const (
	StatusDraft      PublishingStatus = "draft"
	StatusPending    PublishingStatus = "pending"
	StatusPublished  PublishingStatus = "published"
	StatusOutOfPrint PublishingStatus = "out_of_print"
)

func (s PublishingStatus) String() string {
	return string(s)
}

// RoleBucket is the internal contributor role that EDItEUR list 17 codes
// collapse into.
type RoleBucket string

const (
	RoleAuthor     RoleBucket = "author"
	RoleEditor     RoleBucket = "editor"
	RoleTranslator RoleBucket = "translator"
	RoleNarrator   RoleBucket = "narrator"
	RoleOther      RoleBucket = "other"
)

func (r RoleBucket) String() string {
	return string(r)
}
