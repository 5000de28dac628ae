package codelist

import "onx/common"

// DefaultContributorRole is what parsers assume when a Contributor carries
// no ContributorRole element.
const DefaultContributorRole = "A01"

// List 17 - contributor role, collapsed into the five internal buckets.
// The long tail of creative roles lands in "other"; unrecognized codes are
// bucketed as author because in trade feeds an unqualified contributor is
// almost always the author.
var ContributorRoles = map[string]common.RoleBucket{
	// A - authorship
	"A01": common.RoleAuthor, // by (author)
	"A02": common.RoleAuthor, // with
	"A03": common.RoleAuthor, // screenplay by
	"A04": common.RoleAuthor, // libretto by
	"A05": common.RoleAuthor, // lyrics by
	"A06": common.RoleAuthor, // by (composer)
	"A07": common.RoleOther,  // by (artist)
	"A08": common.RoleOther,  // by (photographer)
	"A09": common.RoleAuthor, // created by
	"A10": common.RoleAuthor, // from an idea by
	"A11": common.RoleOther,  // designed by
	"A12": common.RoleOther,  // illustrated by
	"A13": common.RoleOther,  // photographs by
	"A14": common.RoleAuthor, // text by
	"A15": common.RoleOther,  // preface by
	"A16": common.RoleOther,  // prologue by
	"A17": common.RoleOther,  // summary by
	"A18": common.RoleOther,  // supplement by
	"A19": common.RoleOther,  // afterword by
	"A20": common.RoleOther,  // notes by
	"A21": common.RoleOther,  // commentaries by
	"A22": common.RoleOther,  // epilogue by
	"A23": common.RoleOther,  // foreword by
	"A24": common.RoleOther,  // introduction by
	"A25": common.RoleOther,  // footnotes by
	"A26": common.RoleAuthor, // memoir by
	"A27": common.RoleOther,  // experiments by
	"A29": common.RoleOther,  // introduction and notes by
	"A30": common.RoleOther,  // software written by
	"A31": common.RoleAuthor, // book and lyrics by
	"A32": common.RoleOther,  // contributions by
	"A33": common.RoleOther,  // appendix by
	"A34": common.RoleOther,  // index by
	"A35": common.RoleOther,  // drawings by
	"A36": common.RoleOther,  // cover design or artwork by
	"A37": common.RoleOther,  // preliminary work by
	"A38": common.RoleAuthor, // original author
	"A39": common.RoleOther,  // maps by
	"A40": common.RoleOther,  // inked or colored by
	"A41": common.RoleOther,  // paper engineering by
	"A42": common.RoleAuthor, // continued by
	"A43": common.RoleOther,  // interviewer
	"A44": common.RoleOther,  // interviewee
	// B - editorial and adaptation
	"B01": common.RoleEditor,     // edited by
	"B02": common.RoleEditor,     // revised by
	"B03": common.RoleOther,      // retold by
	"B04": common.RoleOther,      // abridged by
	"B05": common.RoleOther,      // adapted by
	"B06": common.RoleTranslator, // translated by
	"B07": common.RoleOther,      // as told by
	"B08": common.RoleTranslator, // translated with commentary by
	"B09": common.RoleEditor,     // series edited by
	"B10": common.RoleTranslator, // edited and translated by
	"B11": common.RoleEditor,     // editor-in-chief
	"B12": common.RoleEditor,     // guest editor
	"B13": common.RoleEditor,     // volume editor
	"B14": common.RoleEditor,     // editorial board member
	"B15": common.RoleEditor,     // editorial coordination by
	"B16": common.RoleEditor,     // managing editor
	"B18": common.RoleOther,      // founded by
	"B19": common.RoleEditor,     // prepared for publication by
	"B20": common.RoleEditor,     // associate editor
	"B21": common.RoleEditor,     // consultant editor
	"B22": common.RoleEditor,     // general editor
	"B23": common.RoleOther,      // dramatized by
	"B25": common.RoleOther,      // arranged by (music)
	// C - compilation
	"C01": common.RoleEditor, // compiled by
	"C02": common.RoleEditor, // selected by
	"C03": common.RoleOther,  // non-text material selected by
	"C04": common.RoleEditor, // curated by
	// D - production
	"D01": common.RoleOther, // producer
	"D02": common.RoleOther, // director
	"D03": common.RoleOther, // conductor
	// E - performance
	"E01": common.RoleOther,    // actor/voice actor
	"E02": common.RoleOther,    // dancer
	"E03": common.RoleNarrator, // narrator
	"E04": common.RoleOther,    // commentator
	"E05": common.RoleOther,    // vocal soloist
	"E06": common.RoleOther,    // instrumental soloist
	"E07": common.RoleNarrator, // read by
	"E08": common.RoleOther,    // performed by (orchestra, band)
	"E09": common.RoleOther,    // speaker
	"E10": common.RoleOther,    // presenter
	// F - filming
	"F01": common.RoleOther, // filmed/photographed by
	"F02": common.RoleOther, // editor (film or video)
	// Z - misc
	"Z01": common.RoleOther, // assisted by
	"Z02": common.RoleOther, // honored/dedicated to
	"Z99": common.RoleOther, // other
}

// MapContributorRole resolves a list 17 code to a bucket, defaulting to
// author for unrecognized codes.
func MapContributorRole(code string) common.RoleBucket {
	if b, ok := ContributorRoles[code]; ok {
		return b
	}
	return common.RoleAuthor
}
