package codelist

// ProductFormFeatureType codes carrying accessibility metadata.
const (
	FeatureTypeAccessibility = "09" // list 196 conformance and feature values
	FeatureTypeHazard        = "12" // list 196 hazard values
)

// List 196, type "09": 00-11 are conformance statements, 10-26 are feature
// flags. Stored as one membership set since they share the element.
var AccessibilityValues = map[string]string{
	"00": "Accessibility summary",
	"01": "LIA compliance scheme",
	"02": "EPUB Accessibility 1.0 WCAG-A",
	"03": "EPUB Accessibility 1.0 WCAG-AA",
	"04": "EPUB Accessibility 1.1 WCAG 2.0 A",
	"05": "EPUB Accessibility 1.1 WCAG 2.0 AA",
	"06": "EPUB Accessibility 1.1 WCAG 2.0 AAA",
	"07": "EPUB Accessibility 1.1 WCAG 2.1 A",
	"08": "EPUB Accessibility 1.1 WCAG 2.1 AA",
	"09": "EPUB Accessibility 1.1 WCAG 2.1 AAA",
	"10": "No reading system accessibility options actively disabled",
	"11": "Table of contents navigation",
	"12": "Index navigation",
	"13": "Single logical reading order",
	"14": "Short alternative textual descriptions",
	"15": "Full alternative textual descriptions",
	"16": "Visualised data also available as non-graphical data",
	"17": "Accessible math content",
	"18": "Accessible chemistry content",
	"19": "Print-equivalent page numbering",
	"20": "Synchronised pre-recorded audio",
	"21": "Text-to-speech hinting provided",
	"22": "Language tagging provided",
	"23": "Default reading mode compatible with assistive technology",
	"24": "Dyslexia readability",
	"25": "Use of color is not sole means of conveying information",
	"26": "Use of high contrast between text and background color",
}

// List 196, type "12": hazards.
var HazardValues = map[string]string{
	"00": "Accessibility hazards unknown",
	"01": "No known hazards",
	"02": "Flashing hazard",
	"03": "Motion simulation hazard",
	"04": "Sound hazard",
	"05": "No flashing hazard",
	"06": "No motion simulation hazard",
	"07": "No sound hazard",
}

// hazardConflicts is the mutual-exclusivity table: a product must not carry
// both members of any pair. "00" (unknown) excludes every other statement;
// each concrete hazard excludes the matching "no hazard" claim and the
// blanket "01".
var hazardConflicts = map[string][]string{
	"00": {"01", "02", "03", "04", "05", "06", "07"},
	"01": {"00", "02", "03", "04"},
	"02": {"00", "01", "05"},
	"03": {"00", "01", "06"},
	"04": {"00", "01", "07"},
	"05": {"00", "02"},
	"06": {"00", "03"},
	"07": {"00", "04"},
}

// FirstHazardConflict returns the first conflicting pair found in the given
// hazard codes, or ok=false when the set is consistent. Only the first
// conflict is reported so one bad product does not drown the error list.
func FirstHazardConflict(codes []string) (a, b string, ok bool) {
	present := make(map[string]bool, len(codes))
	for _, c := range codes {
		present[c] = true
	}
	for _, c := range codes {
		for _, excl := range hazardConflicts[c] {
			if present[excl] {
				return c, excl, true
			}
		}
	}
	return "", "", false
}
