// Package wikidoc defines the intermediate document schema shared between
// the scrapers and the normalizers. Scrapers of any source must emit this
// shape; normalizers must accept it without requiring source-specific
// fields beyond heading/content inside sections.
package wikidoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidInput reports input that is too malformed to process at all
// (not a document or document collection). Missing optional fields are not
// errors; they default to empty values.
var ErrInvalidInput = errors.New("wikidoc: invalid input document")

// Document is one scraped page or transcript in semi-structured form.
type Document struct {
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Category   string    `json:"category"`
	URL        string    `json:"url,omitempty"`
	PageName   string    `json:"page_name,omitempty"`
	BBGVersion string    `json:"bbg_version,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Sections   []Section `json:"sections"`
}

// Section is a titled block of raw content items. Item boundaries matter:
// they are the unit the classifier and splitters operate on.
type Section struct {
	Heading string   `json:"heading"`
	Content []string `json:"content"`
}

// Field is one page-level key fact, e.g. an infobox row.
type Field struct {
	Key   string
	Value string
}

// Metadata is an insertion-ordered set of key facts. Display order carries
// meaning (infobox rows), so a plain map cannot represent it.
type Metadata []Field

// Get returns the value for key, or "" if absent.
func (m Metadata) Get(key string) string {
	for _, f := range m {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Set appends or replaces the value for key, preserving order.
func (m *Metadata) Set(key, value string) {
	for i, f := range *m {
		if f.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

// MarshalJSON writes the metadata as a JSON object in insertion order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: metadata is not an object", ErrInvalidInput)
	}
	out := Metadata{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: non-string metadata key", ErrInvalidInput)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			// Non-string values (numbers, booleans) keep their raw text.
			value = string(bytes.Trim(raw, `"`))
		}
		out = append(out, Field{Key: key, Value: value})
	}
	*m = out
	return nil
}

// CleanHeading strips scrape artifacts from a heading: the trailing edit
// bracket "[]" left by the wiki markup, and surrounding whitespace.
func CleanHeading(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, "[]", ""))
}

// DecodeGrouped reads a raw-data file: either a mapping of category name to
// a list of documents, or a bare list (treated as one unnamed group).
func DecodeGrouped(r io.Reader) (map[string][]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string][]Document{}, nil
	}
	switch data[0] {
	case '{':
		var grouped map[string][]Document
		if err := json.Unmarshal(data, &grouped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return grouped, nil
	case '[':
		var docs []Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return map[string][]Document{"": docs}, nil
	default:
		return nil, fmt.Errorf("%w: not a JSON object or array", ErrInvalidInput)
	}
}

// DecodeDocuments reads a raw-data file and flattens all groups into a
// single list, preserving insertion order within each group.
func DecodeDocuments(r io.Reader) ([]Document, error) {
	grouped, err := DecodeGrouped(r)
	if err != nil {
		return nil, err
	}
	var out []Document
	for _, docs := range grouped {
		out = append(out, docs...)
	}
	return out, nil
}
