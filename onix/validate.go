package onix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"onx/onix/codelist"
)

// ValidationError is one structural or business rule violation. Errors are
// accumulated, a validation pass never stops at the first problem within a
// layer.
type ValidationError struct {
	Type     string // "structural" or "business"
	Code     string
	Message  string
	Location string
	Expected string
	Actual   string
	Codelist string
}

// ValidationResult is the exported verdict; callers must refuse to persist
// or send XML when Valid is false.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Violation codes.
const (
	ErrMalformedXML        = "MALFORMED_XML"
	ErrMissingRoot         = "MISSING_ROOT"
	ErrMissingHeader       = "MISSING_HEADER"
	ErrNoProducts          = "NO_PRODUCTS"
	ErrMissingRecordRef    = "MISSING_RECORD_REFERENCE"
	ErrMissingIdentifier   = "MISSING_IDENTIFIER"
	ErrInvalidIDType       = "INVALID_ID_TYPE"
	ErrInvalidISBNChecksum = "INVALID_ISBN_CHECKSUM"
	ErrInvalidProductForm  = "INVALID_PRODUCT_FORM"
	ErrInvalidAccessValue  = "INVALID_ACCESSIBILITY_VALUE"
	ErrHazardConflict      = "HAZARD_CONFLICT"
	ErrMissingTitle        = "MISSING_TITLE"
	ErrInvalidCurrency     = "INVALID_CURRENCY"
	ErrInvalidPrice        = "INVALID_PRICE"
)

// Validate runs both layers: structure gates business. When structure
// fails, business rules are skipped entirely and only the structural errors
// come back.
func Validate(xml string) ValidationResult {
	if errs := ValidateStructure(xml); len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	errs := ValidateBusinessRules(xml)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// readAnyXML parses arbitrary input XML, including hand-edited and
// third-party files: short tags are expanded first and non-UTF-8 charsets
// honored through the html charset reader.
func readAnyXML(xml string) (*etree.Document, error) {
	if HasShortTags(xml) {
		xml = ExpandShortTags(xml)
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if err := doc.ReadFromString(xml); err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateStructure checks the document is well-formed and the required
// message skeleton is present. All findings within the layer are collected.
func ValidateStructure(xml string) []ValidationError {
	doc, err := readAnyXML(xml)
	if err != nil {
		return []ValidationError{{
			Type:     "structural",
			Code:     ErrMalformedXML,
			Message:  fmt.Sprintf("document is not well-formed XML: %v", err),
			Location: "/",
		}}
	}

	root := doc.Root()
	if root == nil || root.Tag != "ONIXMessage" {
		actual := ""
		if root != nil {
			actual = root.Tag
		}
		return []ValidationError{{
			Type:     "structural",
			Code:     ErrMissingRoot,
			Message:  "root element must be ONIXMessage",
			Location: "/",
			Expected: "ONIXMessage",
			Actual:   actual,
		}}
	}

	var errs []ValidationError
	if root.SelectElement("Header") == nil {
		errs = append(errs, ValidationError{
			Type:     "structural",
			Code:     ErrMissingHeader,
			Message:  "message has no Header element",
			Location: "ONIXMessage",
		})
	}
	if len(root.SelectElements("Product")) == 0 {
		errs = append(errs, ValidationError{
			Type:     "structural",
			Code:     ErrNoProducts,
			Message:  "message contains no Product elements",
			Location: "ONIXMessage",
		})
	}
	return errs
}

// ValidateBusinessRules walks every Product collecting codelist and
// consistency violations. It parses the XML independently of whatever
// produced it and understands both the 2.1 and 3.x element vocabularies.
func ValidateBusinessRules(xml string) []ValidationError {
	doc, err := readAnyXML(xml)
	if err != nil {
		// structural layer reports this; nothing to check here
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	var errs []ValidationError
	for i, product := range root.SelectElements("Product") {
		loc := fmt.Sprintf("ONIXMessage/Product[%d]", i+1)
		errs = append(errs, validateProduct(product, loc)...)
	}
	return errs
}

func validateProduct(product *etree.Element, loc string) []ValidationError {
	var errs []ValidationError

	if childText(product, "RecordReference") == "" {
		errs = append(errs, ValidationError{
			Type:     "business",
			Code:     ErrMissingRecordRef,
			Message:  "product has no RecordReference",
			Location: loc + "/RecordReference",
		})
	}

	errs = append(errs, validateIdentifiers(product, loc)...)
	errs = append(errs, validateProductForm(product, loc)...)
	errs = append(errs, validateTitle(product, loc)...)
	errs = append(errs, validateAccessibility(product, loc)...)
	errs = append(errs, validatePrices(product, loc)...)

	return errs
}

func validateIdentifiers(product *etree.Element, loc string) []ValidationError {
	var errs []ValidationError

	ids := product.SelectElements("ProductIdentifier")
	hasLegacy := childText(product, "ISBN") != "" || childText(product, "EAN13") != ""
	if len(ids) == 0 && !hasLegacy {
		errs = append(errs, ValidationError{
			Type:     "business",
			Code:     ErrMissingIdentifier,
			Message:  "product carries no product identifier",
			Location: loc + "/ProductIdentifier",
		})
		return errs
	}

	for j, id := range ids {
		idLoc := fmt.Sprintf("%s/ProductIdentifier[%d]", loc, j+1)
		idType := childText(id, "ProductIDType")
		value := childText(id, "IDValue")
		if _, ok := codelist.ProductIDTypes[idType]; !ok {
			errs = append(errs, ValidationError{
				Type:     "business",
				Code:     ErrInvalidIDType,
				Message:  fmt.Sprintf("unknown product identifier type %q", idType),
				Location: idLoc + "/ProductIDType",
				Actual:   idType,
				Codelist: "5",
			})
			continue
		}
		if idType == codelist.IDTypeISBN13 && !ValidateISBN13(value) {
			errs = append(errs, ValidationError{
				Type:     "business",
				Code:     ErrInvalidISBNChecksum,
				Message:  fmt.Sprintf("ISBN-13 %q fails its checksum", value),
				Location: idLoc + "/IDValue",
				Actual:   value,
			})
		}
	}
	return errs
}

func validateProductForm(product *etree.Element, loc string) []ValidationError {
	form := findFirstText(product, "ProductForm")
	if form == "" {
		return nil
	}
	if _, ok := codelist.ProductForms[form]; ok {
		return nil
	}
	return []ValidationError{{
		Type:     "business",
		Code:     ErrInvalidProductForm,
		Message:  fmt.Sprintf("unknown product form %q", form),
		Location: loc + "/ProductForm",
		Actual:   form,
		Codelist: "150",
	}}
}

func validateTitle(product *etree.Element, loc string) []ValidationError {
	for _, tag := range []string{"TitleText", "DistinctiveTitle", "TitleWithoutPrefix"} {
		if findFirstText(product, tag) != "" {
			return nil
		}
	}
	return []ValidationError{{
		Type:     "business",
		Code:     ErrMissingTitle,
		Message:  "product has no title text",
		Location: loc + "/TitleDetail",
	}}
}

func validateAccessibility(product *etree.Element, loc string) []ValidationError {
	var errs []ValidationError
	var hazards []string

	for _, f := range findAll(product, "ProductFormFeature") {
		ftype := childText(f, "ProductFormFeatureType")
		value := childText(f, "ProductFormFeatureValue")
		switch ftype {
		case codelist.FeatureTypeAccessibility:
			if _, ok := codelist.AccessibilityValues[value]; !ok {
				errs = append(errs, ValidationError{
					Type:     "business",
					Code:     ErrInvalidAccessValue,
					Message:  fmt.Sprintf("unknown accessibility value %q for feature type 09", value),
					Location: loc + "/ProductFormFeature",
					Actual:   value,
					Codelist: "196",
				})
			}
		case codelist.FeatureTypeHazard:
			if _, ok := codelist.HazardValues[value]; !ok {
				errs = append(errs, ValidationError{
					Type:     "business",
					Code:     ErrInvalidAccessValue,
					Message:  fmt.Sprintf("unknown hazard value %q for feature type 12", value),
					Location: loc + "/ProductFormFeature",
					Actual:   value,
					Codelist: "196",
				})
				continue
			}
			hazards = append(hazards, value)
		}
	}

	// only the first conflict per product, repeating every pair is noise
	if a, b, ok := codelist.FirstHazardConflict(hazards); ok {
		errs = append(errs, ValidationError{
			Type:     "business",
			Code:     ErrHazardConflict,
			Message:  fmt.Sprintf("accessibility hazards %q and %q are mutually exclusive", a, b),
			Location: loc + "/ProductFormFeature",
			Codelist: "196",
		})
	}
	return errs
}

func validatePrices(product *etree.Element, loc string) []ValidationError {
	var errs []ValidationError
	for j, price := range findAll(product, "Price") {
		priceLoc := fmt.Sprintf("%s/Price[%d]", loc, j+1)
		currency := childText(price, "CurrencyCode")
		if currency != "" && !codelist.SupportedCurrencies[strings.ToUpper(currency)] {
			errs = append(errs, ValidationError{
				Type:     "business",
				Code:     ErrInvalidCurrency,
				Message:  fmt.Sprintf("unsupported currency %q", currency),
				Location: priceLoc + "/CurrencyCode",
				Actual:   currency,
			})
		}
		amount := childText(price, "PriceAmount")
		if amount != "" {
			v, err := strconv.ParseFloat(amount, 64)
			if err != nil || v < 0 {
				errs = append(errs, ValidationError{
					Type:     "business",
					Code:     ErrInvalidPrice,
					Message:  fmt.Sprintf("price amount %q is not a non-negative number", amount),
					Location: priceLoc + "/PriceAmount",
					Actual:   amount,
				})
			}
		}
	}
	return errs
}

// findAll collects descendant elements with the given tag regardless of
// nesting depth, bridging the 2.1 and 3.x block layouts.
func findAll(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
			continue
		}
		out = append(out, findAll(child, tag)...)
	}
	return out
}

func findFirstText(el *etree.Element, tag string) string {
	for _, found := range findAll(el, tag) {
		if text := strings.TrimSpace(found.Text()); text != "" {
			return text
		}
	}
	return ""
}
