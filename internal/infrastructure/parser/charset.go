package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charsetReader decodes the single-byte encodings SalesDrive exports use.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	var cm *charmap.Charmap
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "windows-1251", "cp1251", "win-1251":
		cm = charmap.Windows1251
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	case "koi8-r":
		cm = charmap.KOI8R
	case "koi8-u":
		cm = charmap.KOI8U
	case "iso-8859-5":
		cm = charmap.ISO8859_5
	default:
		return nil, fmt.Errorf("unsupported feed encoding %q", label)
	}
	return transform.NewReader(input, cm.NewDecoder()), nil
}
