package onix

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	declaredEncodingRe = regexp.MustCompile(`encoding\s*=\s*["']([A-Za-z0-9._-]+)["']`)
)

// Charset names seen in real feeds normalized to what we can resolve.
var encodingAliases = map[string]string{
	"latin1":      "iso-8859-1",
	"latin-1":     "iso-8859-1",
	"iso8859-1":   "iso-8859-1",
	"iso-8859-1":  "iso-8859-1",
	"iso_8859-1":  "iso-8859-1",
	"cp1252":      "windows-1252",
	"cp-1252":     "windows-1252",
	"win-1252":    "windows-1252",
	"windows1252": "windows-1252",
	"ascii":       "utf-8",
	"us-ascii":    "utf-8",
	"utf8":        "utf-8",
}

// DecodeBytes turns raw upload bytes into text. Detection order: BOM,
// declared encoding attribute within the first 200 bytes, then a fallback
// cascade of strict UTF-8, Windows-1252 and ISO-8859-1 (the last never
// fails, every byte value is defined). The decoded text is then checked for
// signs of a mis-decode before it is handed to the parser.
func DecodeBytes(data []byte, log *zap.Logger) (string, error) {
	text, _, err := DecodeBytesDetail(data, log)
	return text, err
}

// DecodeBytesDetail is DecodeBytes also reporting the name of the encoding
// that was used, for diagnostics.
func DecodeBytesDetail(data []byte, log *zap.Logger) (string, string, error) {
	text, name, err := decode(data, log)
	if err != nil {
		return "", "", err
	}
	log.Debug("Decoded upload", zap.String("encoding", name), zap.Int("bytes", len(data)))
	if err := checkDecodedText(text); err != nil {
		return "", "", err
	}
	return text, name, nil
}

func decode(data []byte, log *zap.Logger) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), "utf-8 (BOM)", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		text, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		if err != nil {
			return "", "", fmt.Errorf("unable to decode UTF-16LE input: %w", err)
		}
		return text, "utf-16le (BOM)", nil
	case bytes.HasPrefix(data, bomUTF16BE):
		text, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		if err != nil {
			return "", "", fmt.Errorf("unable to decode UTF-16BE input: %w", err)
		}
		return text, "utf-16be (BOM)", nil
	}

	if name := declaredEncoding(data); name != "" {
		if enc := resolveEncoding(name); enc != nil {
			text, err := decodeWith(enc, data)
			if err == nil {
				return text, name, nil
			}
			log.Warn("Declared encoding does not decode input, falling back", zap.String("encoding", name), zap.Error(err))
		} else {
			log.Warn("Unresolvable declared encoding, falling back", zap.String("encoding", name))
		}
	}

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	if text, err := decodeWith(charmap.Windows1252, data); err == nil && !strings.ContainsRune(text, utf8.RuneError) {
		return text, "windows-1252", nil
	}
	// total over all byte values, cannot fail
	text, err := decodeWith(charmap.ISO8859_1, data)
	if err != nil {
		return "", "", fmt.Errorf("unable to decode input: %w", err)
	}
	return text, "iso-8859-1", nil
}

// declaredEncoding pulls the encoding pseudo-attribute out of the XML
// declaration, looking only at the first 200 bytes.
func declaredEncoding(data []byte) string {
	head := data
	if len(head) > 200 {
		head = head[:200]
	}
	m := declaredEncodingRe.FindSubmatch(head)
	if m == nil {
		return ""
	}
	name := strings.ToLower(string(m[1]))
	if alias, ok := encodingAliases[name]; ok {
		return alias
	}
	return name
}

func resolveEncoding(name string) encoding.Encoding {
	switch name {
	case "utf-8":
		return unicode.UTF8
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-1":
		return charmap.ISO8859_1
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil
	}
	return enc
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// checkDecodedText rejects text that cannot be an XML document: NUL bytes
// (binary misidentified as text), no markup characters at all, or the
// Unicode replacement character left behind by an earlier mis-decode.
func checkDecodedText(text string) error {
	if strings.ContainsRune(text, 0) {
		return fmt.Errorf("input contains NUL bytes, not a text file")
	}
	if !strings.ContainsRune(text, '<') || !strings.ContainsRune(text, '>') {
		return fmt.Errorf("input contains no XML markup")
	}
	if strings.ContainsRune(text, utf8.RuneError) {
		return fmt.Errorf("input contains replacement characters, text was decoded with a wrong charset")
	}
	return nil
}
