// Package export drives the outbound direction: title read models in,
// validated version-specific ONIX documents out.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"onx/common"
	"onx/onix"
)

// TitleSource supplies the title read model. Persistence is an external
// collaborator, the exporter never talks to a database directly.
type TitleSource interface {
	LoadTitles(ctx context.Context, tenantID string, ids []string) ([]onix.TitleRecord, error)
}

type Exporter struct {
	sender  onix.Sender
	version common.ONIXVersion
	log     *zap.Logger
}

func NewExporter(sender onix.Sender, version common.ONIXVersion, log *zap.Logger) *Exporter {
	return &Exporter{sender: sender, version: version, log: log}
}

// BuildXML serializes the titles and validates the result. The XML string
// is always returned together with the verdict; callers must not persist or
// send it when the verdict says invalid.
func (e *Exporter) BuildXML(titles []onix.TitleRecord) (string, onix.ValidationResult, error) {
	if len(titles) == 0 {
		return "", onix.ValidationResult{}, fmt.Errorf("nothing to export")
	}

	builder := onix.NewBuilder(e.sender, e.version, e.log)
	for _, t := range titles {
		builder.AddTitle(t)
	}
	xml, err := builder.ToXML()
	if err != nil {
		return "", onix.ValidationResult{}, fmt.Errorf("unable to serialize ONIX message: %w", err)
	}

	result := onix.Validate(xml)
	if !result.Valid {
		e.log.Warn("Generated ONIX failed validation", zap.Int("errors", len(result.Errors)))
	}
	return xml, result, nil
}

// Filename produces the fixed output name pattern embedding version and
// timestamp: onix-<version>-<slug>-<stamp>.xml.
func Filename(version common.ONIXVersion, name string, now time.Time) string {
	s := slug.Make(name)
	if s == "" {
		s = "export"
	}
	return fmt.Sprintf("onix-%s-%s-%s.xml", version, s, now.UTC().Format("20060102T150405Z"))
}
