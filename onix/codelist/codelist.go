// Package codelist holds the EDItEUR controlled vocabularies the engine
// needs. Tables are fixed reference data, safe to share between concurrent
// operations.
package codelist

import "onx/common"

// List 5 - product identifier type. Only types we are prepared to meet in
// the wild, not the complete list.
var ProductIDTypes = map[string]string{
	"01": "Proprietary",
	"02": "ISBN-10",
	"03": "GTIN-13",
	"04": "UPC",
	"05": "ISMN-10",
	"06": "DOI",
	"13": "LCCN",
	"14": "GTIN-14",
	"15": "ISBN-13",
	"17": "Legal deposit number",
	"22": "URN",
	"23": "OCLC number",
}

// Identifier types carrying the two ISBN flavours.
const (
	IDTypeISBN10 = "02"
	IDTypeGTIN13 = "03"
	IDTypeISBN13 = "15"
)

// List 150 - product form (subset covering print, audio and digital).
var ProductForms = map[string]string{
	"AA": "Audio",
	"AB": "Audio cassette",
	"AC": "CD-Audio",
	"AJ": "Downloadable audio file",
	"BA": "Book",
	"BB": "Hardback",
	"BC": "Paperback / softback",
	"BD": "Loose-leaf",
	"BE": "Spiral bound",
	"BF": "Pamphlet",
	"BG": "Leather / fine binding",
	"BH": "Board book",
	"BI": "Rag book",
	"BJ": "Bath book",
	"BK": "Novelty book",
	"BL": "Slide bound",
	"BM": "Big book",
	"BN": "Part-work (fascículo)",
	"BO": "Fold-out book or chart",
	"BP": "Foam book",
	"DA": "Digital (on physical carrier)",
	"DB": "CD-ROM",
	"EA": "Digital (delivered electronically)",
	"EB": "Digital download and online",
	"EC": "Digital online",
	"ED": "Digital download",
}

// List 64 - publishing status mapped into the internal lifecycle buckets.
// Unknown or unspecified codes map to draft, the import side treats that as
// "needs review" rather than failing.
var PublishingStatuses = map[string]common.PublishingStatus{
	"00": common.StatusDraft,      // unspecified
	"01": common.StatusDraft,      // cancelled
	"02": common.StatusPending,    // forthcoming
	"03": common.StatusPending,    // postponed indefinitely
	"04": common.StatusPublished,  // active
	"05": common.StatusOutOfPrint, // no longer our product
	"06": common.StatusOutOfPrint, // out of stock indefinitely
	"07": common.StatusOutOfPrint, // out of print
	"08": common.StatusOutOfPrint, // inactive
	"09": common.StatusDraft,      // unknown
	"10": common.StatusOutOfPrint, // remaindered
	"11": common.StatusOutOfPrint, // withdrawn from sale
	"12": common.StatusOutOfPrint, // recalled
	"13": common.StatusPublished,  // active, but not sold separately
}

// MapPublishingStatus resolves a list 64 code to the internal bucket,
// defaulting to draft for anything unrecognized.
func MapPublishingStatus(code string) common.PublishingStatus {
	if s, ok := PublishingStatuses[code]; ok {
		return s
	}
	return common.StatusDraft
}

// Export direction only: internal status to list 65 ProductAvailability.
// This is a one-way mapping, deliberately not the inverse of
// MapPublishingStatus.
var ProductAvailability = map[common.PublishingStatus]string{
	common.StatusDraft:      "10", // not yet available
	common.StatusPending:    "10",
	common.StatusPublished:  "20", // available
	common.StatusOutOfPrint: "40", // not available
}

func MapProductAvailability(status common.PublishingStatus) string {
	if code, ok := ProductAvailability[status]; ok {
		return code
	}
	return "20"
}

// Currencies we accept in Price composites (ISO 4217 subset).
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
	"AUD": true,
	"NZD": true,
	"CHF": true,
	"SEK": true,
	"NOK": true,
	"DKK": true,
	"JPY": true,
}
