package optimize

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	charsetAt  = []byte(`@charset "`)
)

// decode converts stylesheet to UTF-8 and returns name of the source
// encoding, empty when no conversion was necessary. Forced encoding takes
// precedence over byte order mark which takes precedence over @charset rule.
func decode(data []byte, forced encoding.Encoding) ([]byte, string, error) {
	if forced != nil {
		out, err := forced.NewDecoder().Bytes(data)
		if err != nil {
			return nil, "", err
		}
		name, err := ianaindex.IANA.Name(forced)
		if err != nil {
			name = "forced"
		}
		return bytes.TrimPrefix(out, bomUTF8), name, nil
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return convert(data[len(bomUTF16LE):], "utf-16le")
	case bytes.HasPrefix(data, bomUTF16BE):
		return convert(data[len(bomUTF16BE):], "utf-16be")
	}

	if label := charsetRule(data); label != "" && !strings.EqualFold(label, "utf-8") {
		return convert(data, label)
	}
	return data, "", nil
}

func convert(data []byte, label string) ([]byte, string, error) {
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return out, strings.ToLower(label), nil
}

// charsetRule returns encoding label of leading @charset rule. The rule
// must be the very first thing in the stylesheet and use double quotes.
func charsetRule(data []byte) string {
	if !bytes.HasPrefix(data, charsetAt) {
		return ""
	}
	rest := data[len(charsetAt):]
	end := bytes.IndexByte(rest, '"')
	if end <= 0 || end > 40 {
		return ""
	}
	return string(rest[:end])
}

// LookupCharset resolves IANA charset name, empty name gives nil encoding.
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is not supported", name)
	}
	return enc, nil
}
