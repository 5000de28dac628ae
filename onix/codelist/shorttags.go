package codelist

// ONIX 2.1 ships with two parallel tag vocabularies: reference names
// (RecordReference) and short tags (a001). We normalize uploads to
// reference names before parsing, so only the short-to-reference direction
// is tabled. Composite elements use lowercased words instead of coded short
// tags and are listed here too, the 2.1 parser only ever sees reference
// names.
var ShortTags = map[string]string{
	// message and composite containers
	"ONIXmessage":       "ONIXMessage",
	"header":            "Header",
	"product":           "Product",
	"productidentifier": "ProductIdentifier",
	"title":             "Title",
	"contributor":       "Contributor",
	"language":          "Language",
	"subject":           "Subject",
	"audience":          "Audience",
	"imprint":           "Imprint",
	"publisher":         "Publisher",
	"supplydetail":      "SupplyDetail",
	"price":             "Price",
	"measure":           "Measure",
	"mediafile":         "MediaFile",
	"othertext":         "OtherText",
	"series":            "Series",
	"website":           "Website",
	"extent":            "Extent",
	"salesrights":       "SalesRights",
	"notforsale":        "NotForSale",

	// header
	"m172": "FromEANNumber",
	"m173": "FromSAN",
	"m174": "FromCompany",
	"m175": "FromPerson",
	"m283": "FromEmail",
	"m176": "ToEANNumber",
	"m177": "ToSAN",
	"m178": "ToCompany",
	"m179": "ToPerson",
	"m180": "MessageNumber",
	"m181": "MessageRepeat",
	"m182": "SentDate",
	"m183": "MessageNote",
	"m184": "DefaultLanguageOfText",
	"m185": "DefaultPriceTypeCode",
	"m186": "DefaultCurrencyCode",
	"m193": "DefaultClassOfTrade",

	// product level
	"a001": "RecordReference",
	"a002": "NotificationType",
	"a194": "RecordSourceType",
	"a197": "RecordSourceName",

	// legacy direct identifiers
	"b004": "ISBN",
	"b005": "EAN13",
	"b006": "UPC",
	"b007": "PublisherProductNo",

	// product identifier composite
	"b221": "ProductIDType",
	"b233": "IDTypeName",
	"b244": "IDValue",

	// form
	"b012": "ProductForm",
	"b333": "ProductFormDetail",
	"b014": "ProductFormDescription",
	"b013": "BookFormDetail",

	// titles
	"b028": "DistinctiveTitle",
	"b029": "Subtitle",
	"b030": "TitlePrefix",
	"b031": "TitleWithoutPrefix",
	"b202": "TitleType",
	"b203": "TitleText",

	// series
	"b019": "TitleOfSeries",
	"b020": "NumberWithinSeries",

	// contributors
	"b034": "SequenceNumber",
	"b035": "ContributorRole",
	"b036": "PersonName",
	"b037": "PersonNameInverted",
	"b038": "TitlesBeforeNames",
	"b039": "NamesBeforeKey",
	"b040": "KeyNames",
	"b041": "NamesAfterKey",
	"b043": "LettersAfterNames",
	"b044": "BiographicalNote",
	"b045": "ProfessionalPosition",
	"b046": "ProfessionalAffiliation",
	"b047": "CorporateName",
	"b048": "UnnamedPersons",
	"b049": "ContributorStatement",

	// edition
	"b056": "EditionTypeCode",
	"b057": "EditionNumber",
	"b058": "EditionStatement",

	// language
	"b252": "LanguageCode",
	"b253": "LanguageRole",

	// extents and pagination
	"b061": "NumberOfPages",
	"b218": "ExtentType",
	"b219": "ExtentValue",
	"b220": "ExtentUnit",

	// subjects
	"b064": "BASICMainSubject",
	"b067": "SubjectSchemeIdentifier",
	"b068": "SubjectSchemeName",
	"b069": "SubjectSchemeVersion",
	"b070": "SubjectCode",
	"b071": "SubjectHeadingText",

	// audience
	"b073": "AudienceCode",

	// publishing detail
	"b079": "ImprintName",
	"b081": "PublisherName",
	"b083": "CityOfPublication",
	"b084": "CountryOfPublication",
	"b003": "PublicationDate",
	"b394": "PublishingStatus",
	"b087": "YearFirstPublished",

	// other text
	"d102": "TextTypeCode",
	"d103": "TextFormat",
	"d104": "Text",

	// media files
	"f114": "MediaFileTypeCode",
	"f115": "MediaFileFormatCode",
	"f117": "MediaFileLinkTypeCode",
	"f118": "MediaFileLink",

	// measures
	"c093": "MeasureTypeCode",
	"c094": "Measurement",
	"c095": "MeasureUnitCode",
	"c096": "Height",
	"c097": "Width",
	"c098": "Thickness",
	"c099": "Weight",

	// sales rights
	"b089": "SalesRightsType",
	"b090": "RightsCountry",
	"b388": "RightsTerritory",

	// supply and prices
	"j137": "SupplierName",
	"j292": "SupplierRole",
	"j141": "AvailabilityCode",
	"j396": "ProductAvailability",
	"j148": "PriceTypeCode",
	"j151": "PriceAmount",
	"j152": "CurrencyCode",
	"j161": "PriceEffectiveFrom",
	"j162": "PriceEffectiveUntil",

	// websites
	"b295": "WebsiteLink",
	"b367": "WebsiteRole",
}
