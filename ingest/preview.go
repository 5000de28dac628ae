package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"onx/common"
	"onx/onix"
)

// Previewer runs the read-only half of an import: decode, detect, parse,
// map, validate and detect conflicts, producing everything a caller needs
// to collect per-product resolutions.
type Previewer struct {
	store Store
	log   *zap.Logger
}

func NewPreviewer(store Store, log *zap.Logger) *Previewer {
	return &Previewer{store: store, log: log}
}

// Preview processes one uploaded file. Limit violations, undecodable input,
// unknown version and message-level parse failures are terminal; everything
// else degrades to per-product entries in the preview.
func (p *Previewer) Preview(ctx context.Context, tenantID, filename string, data []byte) (*Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !onix.AllowedUploadName(filename) {
		return nil, fmt.Errorf("unsupported file type %q, expected .xml or .onix", filename)
	}
	if err := onix.CheckSizeLimit(data); err != nil {
		return nil, err
	}

	text, err := onix.DecodeBytes(data, p.log)
	if err != nil {
		return nil, err
	}
	if err := onix.CheckProductLimit(text); err != nil {
		return nil, err
	}

	version := onix.DetectVersion(text)
	if !version.Known() {
		return nil, fmt.Errorf("unable to detect ONIX version, file was rejected")
	}
	if version == common.ONIX21 && onix.HasShortTags(text) {
		text = onix.ExpandShortTags(text)
	}

	parser, err := onix.ParserFor(version, p.log)
	if err != nil {
		return nil, err
	}
	msg, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(msg.Products) > onix.MaxProducts {
		return nil, fmt.Errorf("message contains more than %d products", onix.MaxProducts)
	}

	titles := make([]MappedTitle, 0, len(msg.Products))
	for _, product := range msg.Products {
		titles = append(titles, MapProduct(product))
	}
	flagDuplicateISBNs(titles)
	attachBusinessErrors(titles, onix.ValidateBusinessRules(text))

	conflicts, _, err := DetectConflicts(ctx, p.store, tenantID, titles)
	if err != nil {
		return nil, err
	}
	conflicted := make(map[int]bool, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.SourceIndex] = true
	}

	preview := &Preview{
		Version:       msg.Version,
		TotalProducts: len(msg.Products) + countProductErrors(msg.ParsingErrors),
		Errors:        msg.ParsingErrors,
		Conflicts:     conflicts,
	}
	summarySeen := make(map[string]bool)
	for i := range titles {
		t := &titles[i]
		if t.Importable() {
			preview.ValidProducts++
		}
		for _, u := range t.Unmapped {
			line := u.Name + ": " + u.Reason
			if !summarySeen[line] {
				summarySeen[line] = true
				preview.UnmappedSummary = append(preview.UnmappedSummary, line)
			}
		}
		preview.Products = append(preview.Products, PreviewProduct{
			SourceIndex:     t.SourceIndex,
			RecordReference: t.RecordReference,
			Title:           t.Title,
			Subtitle:        t.Subtitle,
			ISBN:            t.ISBN,
			Status:          t.Status,
			PublicationDate: t.PublicationDate,
			Contributors:    t.Contributors,
			Unmapped:        t.Unmapped,
			Errors:          t.Errors,
			HasConflict:     conflicted[t.SourceIndex],
		})
	}

	p.log.Info("Prepared import preview",
		zap.String("version", msg.Version.String()),
		zap.Int("products", preview.TotalProducts),
		zap.Int("valid", preview.ValidProducts),
		zap.Int("conflicts", len(preview.Conflicts)))
	return preview, nil
}

// MappedTitles re-runs mapping for import execution so the executor works
// from the same staging structures the preview showed.
func (p *Previewer) MappedTitles(ctx context.Context, tenantID, filename string, data []byte) ([]MappedTitle, error) {
	preview, err := p.Preview(ctx, tenantID, filename, data)
	if err != nil {
		return nil, err
	}
	titles := make([]MappedTitle, 0, len(preview.Products))
	for _, pp := range preview.Products {
		titles = append(titles, MappedTitle{
			SourceIndex:     pp.SourceIndex,
			RecordReference: pp.RecordReference,
			Title:           pp.Title,
			Subtitle:        pp.Subtitle,
			ISBN:            pp.ISBN,
			Status:          pp.Status,
			PublicationDate: pp.PublicationDate,
			Contributors:    pp.Contributors,
			Unmapped:        pp.Unmapped,
			Errors:          pp.Errors,
		})
	}
	return titles, nil
}

var productLocationRe = regexp.MustCompile(`Product\[(\d+)\]`)

// attachBusinessErrors folds codelist violations from the business-rule
// validator into the product they belong to, located by position.
func attachBusinessErrors(titles []MappedTitle, errs []onix.ValidationError) {
	bySource := make(map[int]*MappedTitle, len(titles))
	for i := range titles {
		bySource[titles[i].SourceIndex] = &titles[i]
	}
	for _, e := range errs {
		m := productLocationRe.FindStringSubmatch(e.Location)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		t, ok := bySource[idx-1]
		if !ok {
			continue
		}
		// the mapper already reports these with field context
		if e.Code == onix.ErrMissingTitle || e.Code == onix.ErrInvalidISBNChecksum || e.Code == onix.ErrMissingIdentifier {
			continue
		}
		t.Errors = append(t.Errors, FieldError{Field: e.Code, Message: e.Message})
	}
}

func countProductErrors(errs []onix.ParseError) int {
	n := 0
	for _, e := range errs {
		if e.ProductIndex != nil {
			n++
		}
	}
	return n
}
