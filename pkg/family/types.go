package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/familytree/pkg/errors"
)

// PlaceholderPhoto is the asset substituted for a blank photo URL.
const PlaceholderPhoto = "/images/default.png"

// =============================================================================
// ID - Person Identifier
// =============================================================================

// ID identifies a person. Backends emit either numeric or string ids; both
// decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("person id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("person id: expected scalar, got kind %d", value.Kind)
	}
	*id = ID(value.Value)
	return nil
}

// String returns the id text.
func (id ID) String() string { return string(id) }

// =============================================================================
// PersonRecord
// =============================================================================

// PersonRecord is one person as served by the backend.
//
// For the tree endpoint Children holds the full nested hierarchy. For the
// detail endpoint Children is flat and only carries ids and names.
type PersonRecord struct {
	ID        ID             `json:"id" yaml:"id" bson:"id"`
	Name      string         `json:"name" yaml:"name" bson:"name"`
	BirthDate string         `json:"birth_date,omitempty" yaml:"birth_date,omitempty" bson:"birth_date,omitempty"`
	Job       string         `json:"job,omitempty" yaml:"job,omitempty" bson:"job,omitempty"`
	Notes     string         `json:"notes,omitempty" yaml:"notes,omitempty" bson:"notes,omitempty"`
	PhotoURL  string         `json:"photo_url,omitempty" yaml:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Spouses   []Spouse       `json:"spouses,omitempty" yaml:"spouses,omitempty" bson:"spouses,omitempty"`
	Children  []PersonRecord `json:"children,omitempty" yaml:"children,omitempty" bson:"children,omitempty"`
}

// Spouse is one entry of a person's ordered spouse list.
type Spouse struct {
	Ord  int    `json:"ord,omitempty" yaml:"ord,omitempty" bson:"ord,omitempty"`
	Name string `json:"spouse_name" yaml:"spouse_name" bson:"spouse_name"`
}

// DisplayName returns the label shown on the person's card. A missing name
// yields "".
func (p *PersonRecord) DisplayName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Name)
}

// Subtitle returns the secondary card line (the birth date, if any).
func (p *PersonRecord) Subtitle() string {
	return strings.TrimSpace(p.BirthDate)
}

// Photo returns the photo URL or [PlaceholderPhoto] when it is blank.
func (p *PersonRecord) Photo() string {
	if u := strings.TrimSpace(p.PhotoURL); u != "" {
		return u
	}
	return PlaceholderPhoto
}

// UsesPlaceholder reports whether the record has no photo of its own.
func (p *PersonRecord) UsesPlaceholder() bool {
	return strings.TrimSpace(p.PhotoURL) == ""
}

// HasName reports whether the record carried a non-blank name.
func (p *PersonRecord) HasName() bool {
	return p.DisplayName() != ""
}

// Warnings lists the non-fatal shape conditions of this record (not its
// children): a missing name and a placeholder photo.
func (p *PersonRecord) Warnings() []errors.Warning {
	var ws []errors.Warning
	if !p.HasName() {
		ws = append(ws, errors.Warning{Code: errors.ErrCodeMissingField, Person: p.ID.String(), Field: "name"})
	}
	if p.UsesPlaceholder() {
		ws = append(ws, errors.Warning{Code: errors.ErrCodeUsePlaceholder, Person: p.ID.String(), Field: "photo_url"})
	}
	return ws
}

// Count returns the number of records in the subtree rooted at p.
func (p *PersonRecord) Count() int {
	if p == nil {
		return 0
	}
	n := 1
	for i := range p.Children {
		n += p.Children[i].Count()
	}
	return n
}

// Walk calls fn for p and every descendant in pre-order, children in their
// given order. Walk stops early when fn returns false.
func (p *PersonRecord) Walk(fn func(rec *PersonRecord, depth int) bool) {
	if p == nil {
		return
	}
	walk(p, 0, fn)
}

func walk(p *PersonRecord, depth int, fn func(*PersonRecord, int) bool) bool {
	if !fn(p, depth) {
		return false
	}
	for i := range p.Children {
		if !walk(&p.Children[i], depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the record with the given id in the subtree rooted at p.
func (p *PersonRecord) Find(id ID) (*PersonRecord, bool) {
	var found *PersonRecord
	p.Walk(func(rec *PersonRecord, _ int) bool {
		if rec.ID == id {
			found = rec
			return false
		}
		return true
	})
	return found, found != nil
}

// Flat returns a copy of p whose children carry only their id and name, the
// shape served by the detail endpoint.
func (p *PersonRecord) Flat() PersonRecord {
	out := *p
	out.Children = nil
	if len(p.Children) > 0 {
		out.Children = make([]PersonRecord, len(p.Children))
		for i, c := range p.Children {
			out.Children[i] = PersonRecord{ID: c.ID, Name: c.Name}
		}
	}
	return out
}
