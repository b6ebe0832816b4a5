// package models defines the data model for the progress tracker
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ContentType identifies one of the per-subject collections exposed by the content API.
type ContentType string

const (
	Lectures ContentType = "lectures"
	Notes    ContentType = "notes"
	DPPs     ContentType = "dpps"
)

// ContentTypes returns every [ContentType] in aggregation order.
func ContentTypes() []ContentType {
	return []ContentType{Lectures, Notes, DPPs}
}

// ParseContentType validates s against the known content types.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ContentTypes(), ct) {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return ct, nil
}

// Envelope is the `{ "data": [...] }` wrapper used by the content API and the local HTTP surface.
type Envelope[T any] struct {
	Data []T `json:"data"`
}

// Batch is a top-level course in the catalog.
type Batch struct {
	ID    string
	Name  string
	Extra map[string]json.RawMessage

	raw map[string]json.RawMessage
}

// Subject is a topic within a batch.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContentItem is a single lecture, note or DPP.
//
// SubjectName and Type are synthesized during aggregation and serialized as `_subjectName` and `_type`.
type ContentItem struct {
	ID          string
	Title       string
	Name        string
	URL         string
	OriginalURL string
	SubjectName string
	Type        ContentType
	Extra       map[string]json.RawMessage

	raw map[string]json.RawMessage
}

// DisplayTitle returns the title, falling back to the name.
func (c ContentItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// StreamURL returns the playable URL, falling back to the original URL.
func (c ContentItem) StreamURL() string {
	if c.URL != "" {
		return c.URL
	}
	return c.OriginalURL
}

// IsStream reports whether the item points at an HLS playlist.
func (c ContentItem) IsStream() bool {
	return strings.Contains(c.StreamURL(), ".m3u8")
}

// ShareURL returns the link to hand out for the item.
//
// HLS URLs are wrapped in the web player at playerURL so they open in a browser.
func (c ContentItem) ShareURL(playerURL string) string {
	link := c.StreamURL()
	if c.IsStream() && playerURL != "" {
		link = playerURL + "?" + url.Values{"url": {link}}.Encode()
	}
	return link
}

// ShareText formats the item as "title: url" for the clipboard.
func (c ContentItem) ShareText(playerURL string) string {
	return c.DisplayTitle() + ": " + c.ShareURL(playerURL)
}

// Tagged returns a copy of c carrying the subject name and content type.
func (c ContentItem) Tagged(subject string, ct ContentType) ContentItem {
	c.SubjectName = subject
	c.Type = ct
	return c
}

var contentItemKeys = []string{"id", "title", "name", "url", "originalUrl", "_subjectName", "_type"}

func (c *ContentItem) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	c.ID = scalarString(fields["id"])
	c.Title = scalarString(fields["title"])
	c.Name = scalarString(fields["name"])
	c.URL = scalarString(fields["url"])
	c.OriginalURL = scalarString(fields["originalUrl"])
	c.SubjectName = scalarString(fields["_subjectName"])
	c.Type = ContentType(scalarString(fields["_type"]))
	c.Extra = without(fields, contentItemKeys)
	c.raw = only(fields, contentItemKeys)
	return nil
}

func (c ContentItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+len(contentItemKeys))
	for k, v := range c.Extra {
		out[k] = v
	}
	putField(out, c.raw, "id", c.ID)
	putField(out, c.raw, "title", c.Title)
	putField(out, c.raw, "name", c.Name)
	putField(out, c.raw, "url", c.URL)
	putField(out, c.raw, "originalUrl", c.OriginalURL)
	putField(out, c.raw, "_subjectName", c.SubjectName)
	putField(out, c.raw, "_type", string(c.Type))
	return json.Marshal(out)
}

var batchKeys = []string{"id", "name"}

func (b *Batch) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	b.ID = scalarString(fields["id"])
	b.Name = scalarString(fields["name"])
	b.Extra = without(fields, batchKeys)
	b.raw = only(fields, batchKeys)
	return nil
}

func (b Batch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+len(batchKeys))
	for k, v := range b.Extra {
		out[k] = v
	}
	putField(out, b.raw, "id", b.ID)
	putField(out, b.raw, "name", b.Name)
	return json.Marshal(out)
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	s.ID = scalarString(fields["id"])
	s.Name = scalarString(fields["name"])
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// scalarString renders a JSON string or number as a Go string. IDs arrive as either.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func without(fields map[string]json.RawMessage, keys []string) map[string]json.RawMessage {
	extra := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if !slices.Contains(keys, k) {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

func only(fields map[string]json.RawMessage, keys []string) map[string]json.RawMessage {
	var kept map[string]json.RawMessage
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			if kept == nil {
				kept = make(map[string]json.RawMessage, len(keys))
			}
			kept[k] = v
		}
	}
	return kept
}

// putField writes the upstream encoding of key while value still matches it.
// Otherwise a non-empty value is written as a string.
func putField(m map[string]any, raw map[string]json.RawMessage, key, value string) {
	if r, ok := raw[key]; ok && scalarString(r) == value {
		m[key] = r
		return
	}
	if value != "" {
		m[key] = value
	}
}
