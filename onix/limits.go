package onix

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Hard caps keeping the synchronous pipeline from becoming a memory or
// latency hazard. Enforced before any parsing happens.
const (
	MaxFileSize    = 10 << 20
	MaxProducts    = 500
	estimateWindow = MaxProducts + 1
)

var productTagRe = regexp.MustCompile(`<[Pp]roduct[\s>]`)

// AllowedUploadName accepts only the upload extensions we process.
func AllowedUploadName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml", ".onix":
		return true
	}
	return false
}

// CheckSizeLimit runs the cheapest pre-check first: raw byte length.
func CheckSizeLimit(data []byte) error {
	if len(data) > MaxFileSize {
		return fmt.Errorf("file size %d exceeds the %d byte limit", len(data), MaxFileSize)
	}
	return nil
}

// CheckProductLimit estimates the product count with a tag scan. The
// estimate over-counts nested lowercase composites at worst, so a match
// count within the cap proves nothing is wrong and a count far above it
// proves the cap is blown without parsing.
func CheckProductLimit(text string) error {
	n := len(productTagRe.FindAllStringIndex(text, estimateWindow))
	if n > MaxProducts {
		return fmt.Errorf("message contains more than %d products", MaxProducts)
	}
	return nil
}
