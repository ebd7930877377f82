// Package encoding converts OBJ and MTL text from legacy encodings to UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF8 is the default input encoding.
const UTF8 = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extra lists the non-charmap decoders, keyed by normalized name.
var extra = map[string]encoding.Encoding{
	"euc-kr":   korean.EUCKR,
	"utf-16le": unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be": unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

// Decode converts data in the named encoding to a UTF-8 string.
// An empty name means UTF-8. A leading UTF-8 byte order mark is dropped.
func Decode(data []byte, name string) (string, error) {
	key := normalize(name)
	if key == "" || key == UTF8 || key == "utf8" {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}

	enc, err := lookup(key)
	if err != nil {
		return "", err
	}
	result, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(bytes.TrimPrefix(result, utf8BOM)), nil
}

// NewReader returns a reader that decodes r from the named encoding to UTF-8.
// An empty name means UTF-8, which is passed through unchanged.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	key := normalize(name)
	if key == "" || key == UTF8 || key == "utf8" {
		return r, nil
	}
	enc, err := lookup(key)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Valid reports whether name is a supported encoding.
func Valid(name string) bool {
	key := normalize(name)
	if key == "" || key == UTF8 || key == "utf8" {
		return true
	}
	_, err := lookup(key)
	return err == nil
}

// Names returns all supported encoding names, sorted.
func Names() []string {
	names := []string{UTF8}
	for name := range extra {
		names = append(names, name)
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			names = append(names, cm.String())
		}
	}
	sort.Strings(names)
	return names
}

func lookup(key string) (encoding.Encoding, error) {
	if enc, ok := extra[key]; ok {
		return enc, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && normalize(cm.String()) == key {
			return cm, nil
		}
	}
	return nil, fmt.Errorf("unknown encoding %q", key)
}

// normalize lowercases a name and joins its words with '-', so that
// "Windows 1252", "windows-1252" and "WINDOWS_1252" match.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "-")
}
