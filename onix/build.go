package onix

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"onx/common"
	"onx/onix/codelist"
)

// Sender is the tenant identity stamped into the message header.
type Sender struct {
	Name            string
	ContactName     string
	Email           string
	Subdomain       string
	DefaultCurrency string
}

// TitleRecord is the title read model the export direction consumes. It is
// supplied by the caller, never loaded by this package.
type TitleRecord struct {
	ID              string
	Title           string
	Subtitle        string
	ISBN            string
	Status          common.PublishingStatus
	PublicationDate *time.Time
	Contributors    []TitleContributor
	Accessibility   *Accessibility
}

type TitleContributor struct {
	FirstName string
	LastName  string
	Role      common.RoleBucket
}

// Accessibility carries the four optional accessibility source fields. When
// all are empty no accessibility elements are emitted at all.
type Accessibility struct {
	Summary          string
	ConformanceLevel string   // list 196 conformance code
	Features         []string // list 196 feature codes, type 09
	Hazards          []string // list 196 hazard codes, type 12
}

func (a *Accessibility) empty() bool {
	return a == nil || (a.Summary == "" && a.ConformanceLevel == "" && len(a.Features) == 0 && len(a.Hazards) == 0)
}

const onix21Namespace = "http://www.editeur.org/onix/2.1/reference"

// Internal status to list 64 for export. Not the inverse of the import
// mapping, several source codes collapse into each bucket there.
var exportPublishingStatus = map[common.PublishingStatus]string{
	common.StatusDraft:      "00",
	common.StatusPending:    "02",
	common.StatusPublished:  "04",
	common.StatusOutOfPrint: "07",
}

// RoleBucket back to a representative list 17 code.
var exportContributorRole = map[common.RoleBucket]string{
	common.RoleAuthor:     "A01",
	common.RoleEditor:     "B01",
	common.RoleTranslator: "B06",
	common.RoleNarrator:   "E07",
	common.RoleOther:      "Z99",
}

// Builder accumulates products and serializes a complete version-specific
// ONIX document. Chainable: NewBuilder(...).AddTitle(t).AddTitle(u).ToXML().
type Builder struct {
	version common.ONIXVersion
	sender  Sender
	titles  []TitleRecord
	now     func() time.Time
	log     *zap.Logger
}

func NewBuilder(sender Sender, version common.ONIXVersion, log *zap.Logger) *Builder {
	if !version.Known() {
		version = common.DefaultVersion
	}
	return &Builder{
		version: version,
		sender:  sender,
		now:     time.Now,
		log:     log,
	}
}

func (b *Builder) Version() common.ONIXVersion {
	return b.version
}

// AddTitle appends one product block.
func (b *Builder) AddTitle(t TitleRecord) *Builder {
	b.titles = append(b.titles, t)
	return b
}

// ToXML serializes header plus accumulated products. Output is a complete
// UTF-8 document with XML declaration; all text content is escaped by the
// document writer.
func (b *Builder) ToXML() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ONIXMessage")
	switch b.version {
	case common.ONIX21:
		root.CreateAttr("xmlns", onix21Namespace)
	default:
		root.CreateAttr("xmlns", profileFor(b.version).namespace)
		root.CreateAttr("release", profileFor(b.version).release)
	}

	b.buildHeader(root)
	for _, t := range b.titles {
		if b.version == common.ONIX21 {
			b.buildProduct21(root, t)
		} else {
			b.buildProduct3x(root, t)
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func (b *Builder) buildHeader(root *etree.Element) {
	header := root.CreateElement("Header")
	sent := b.now().UTC()
	if b.version == common.ONIX21 {
		addOptional(header, "FromCompany", b.sender.Name)
		addOptional(header, "FromPerson", b.sender.ContactName)
		addOptional(header, "FromEmail", b.sender.Email)
		addElement(header, "SentDate", formatCompactDate(sent))
		addOptional(header, "DefaultCurrencyCode", b.sender.DefaultCurrency)
		return
	}
	s := header.CreateElement("Sender")
	addOptional(s, "SenderName", b.sender.Name)
	addOptional(s, "ContactName", b.sender.ContactName)
	addOptional(s, "EmailAddress", b.sender.Email)
	addElement(header, "SentDateTime", sent.Format("20060102T150405Z"))
	addOptional(header, "DefaultCurrencyCode", b.sender.DefaultCurrency)
}

func (b *Builder) recordReference(t TitleRecord) string {
	if t.ID != "" {
		ref := t.ID
		if b.sender.Subdomain != "" {
			ref = b.sender.Subdomain + "." + ref
		}
		return ref
	}
	return uuid.NewString()
}

func (b *Builder) buildProduct3x(root *etree.Element, t TitleRecord) {
	product := root.CreateElement("Product")
	addElement(product, "RecordReference", b.recordReference(t))
	addElement(product, "NotificationType", "03")

	if isbn := NormalizeISBN(t.ISBN); isbn != "" {
		id := product.CreateElement("ProductIdentifier")
		addElement(id, "ProductIDType", codelist.IDTypeISBN13)
		addElement(id, "IDValue", isbn)
		id = product.CreateElement("ProductIdentifier")
		addElement(id, "ProductIDType", codelist.IDTypeGTIN13)
		addElement(id, "IDValue", isbn)
	}

	dd := product.CreateElement("DescriptiveDetail")
	addElement(dd, "ProductComposition", "00")
	addElement(dd, "ProductForm", "BC")
	buildAccessibility(dd, t.Accessibility)
	td := dd.CreateElement("TitleDetail")
	addElement(td, "TitleType", "01")
	te := td.CreateElement("TitleElement")
	addElement(te, "TitleElementLevel", "01")
	addElement(te, "TitleText", t.Title)
	addOptional(te, "Subtitle", t.Subtitle)

	for i, c := range t.Contributors {
		el := dd.CreateElement("Contributor")
		addElement(el, "SequenceNumber", strconv.Itoa(i+1))
		addElement(el, "ContributorRole", contributorRoleCode(c.Role))
		addOptional(el, "NamesBeforeKey", c.FirstName)
		addOptional(el, "KeyNames", c.LastName)
	}

	pd := product.CreateElement("PublishingDetail")
	addElement(pd, "PublishingStatus", publishingStatusCode(t.Status))
	if t.PublicationDate != nil {
		date := pd.CreateElement("PublishingDate")
		addElement(date, "PublishingDateRole", "01")
		addElement(date, "Date", formatCompactDate(*t.PublicationDate))
	}

	ps := product.CreateElement("ProductSupply")
	sd := ps.CreateElement("SupplyDetail")
	supplier := sd.CreateElement("Supplier")
	addElement(supplier, "SupplierRole", "01")
	addOptional(supplier, "SupplierName", b.sender.Name)
	addElement(sd, "ProductAvailability", codelist.MapProductAvailability(t.Status))
}

func (b *Builder) buildProduct21(root *etree.Element, t TitleRecord) {
	product := root.CreateElement("Product")
	addElement(product, "RecordReference", b.recordReference(t))
	addElement(product, "NotificationType", "03")

	if isbn := NormalizeISBN(t.ISBN); isbn != "" {
		id := product.CreateElement("ProductIdentifier")
		addElement(id, "ProductIDType", codelist.IDTypeISBN13)
		addElement(id, "IDValue", isbn)
	}

	addElement(product, "ProductForm", "BC")
	title := product.CreateElement("Title")
	addElement(title, "TitleType", "01")
	addElement(title, "TitleText", t.Title)
	addOptional(title, "Subtitle", t.Subtitle)

	for i, c := range t.Contributors {
		el := product.CreateElement("Contributor")
		addElement(el, "SequenceNumber", strconv.Itoa(i+1))
		addElement(el, "ContributorRole", contributorRoleCode(c.Role))
		addOptional(el, "NamesBeforeKey", c.FirstName)
		addOptional(el, "KeyNames", c.LastName)
	}

	addElement(product, "PublishingStatus", publishingStatusCode(t.Status))
	if t.PublicationDate != nil {
		addElement(product, "PublicationDate", formatCompactDate(*t.PublicationDate))
	}

	sd := product.CreateElement("SupplyDetail")
	addOptional(sd, "SupplierName", b.sender.Name)
	addElement(sd, "ProductAvailability", codelist.MapProductAvailability(t.Status))
}

// buildAccessibility serializes accessibility metadata as repeated
// ProductFormFeature composites: type 09 for conformance, summary and
// feature flags, type 12 for hazards. Absent source data emits nothing.
func buildAccessibility(dd *etree.Element, a *Accessibility) {
	if a.empty() {
		return
	}
	if a.Summary != "" {
		f := dd.CreateElement("ProductFormFeature")
		addElement(f, "ProductFormFeatureType", codelist.FeatureTypeAccessibility)
		addElement(f, "ProductFormFeatureValue", "00")
		addElement(f, "ProductFormFeatureDescription", a.Summary)
	}
	if a.ConformanceLevel != "" {
		f := dd.CreateElement("ProductFormFeature")
		addElement(f, "ProductFormFeatureType", codelist.FeatureTypeAccessibility)
		addElement(f, "ProductFormFeatureValue", a.ConformanceLevel)
	}
	for _, code := range a.Features {
		f := dd.CreateElement("ProductFormFeature")
		addElement(f, "ProductFormFeatureType", codelist.FeatureTypeAccessibility)
		addElement(f, "ProductFormFeatureValue", code)
	}
	for _, code := range a.Hazards {
		f := dd.CreateElement("ProductFormFeature")
		addElement(f, "ProductFormFeatureType", codelist.FeatureTypeHazard)
		addElement(f, "ProductFormFeatureValue", code)
	}
}

func contributorRoleCode(r common.RoleBucket) string {
	if code, ok := exportContributorRole[r]; ok {
		return code
	}
	return "A01"
}

func publishingStatusCode(s common.PublishingStatus) string {
	if code, ok := exportPublishingStatus[s]; ok {
		return code
	}
	return "00"
}
