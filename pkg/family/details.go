package family

import (
	"strconv"
	"strings"
)

// Missing is shown in place of an absent detail value.
const Missing = "-"

// Details is the display projection of a person shown in the detail panel
// after a click. It is built from the flat record of the detail endpoint.
type Details struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	BirthDate     string   `json:"birth_date"`
	Job           string   `json:"job"`
	Spouses       []string `json:"spouses"`
	ChildrenCount int      `json:"children_count"`
	Children      []string `json:"children"`
	Notes         string   `json:"notes,omitempty"`
}

// NewDetails projects a record into its display form. Blank values become
// [Missing]; notes are omitted when blank.
func NewDetails(p *PersonRecord) Details {
	d := Details{
		ID:            p.ID,
		Name:          p.DisplayName(),
		BirthDate:     orMissing(p.BirthDate),
		Job:           orMissing(p.Job),
		ChildrenCount: len(p.Children),
		Notes:         strings.TrimSpace(p.Notes),
	}
	for _, s := range p.Spouses {
		d.Spouses = append(d.Spouses, s.Label())
	}
	for i := range p.Children {
		d.Children = append(d.Children, p.Children[i].DisplayName())
	}
	return d
}

// SpousesText joins the spouse lines, or returns [Missing] when there are none.
func (d Details) SpousesText(sep string) string {
	if len(d.Spouses) == 0 {
		return Missing
	}
	return strings.Join(d.Spouses, sep)
}

// ChildrenText joins the children's names, or returns [Missing] when there
// are none.
func (d Details) ChildrenText(sep string) string {
	if len(d.Children) == 0 {
		return Missing
	}
	return strings.Join(d.Children, sep)
}

// Label formats a spouse as "ord) name", or just the name when the order is
// unknown.
func (s Spouse) Label() string {
	if s.Ord == 0 {
		return s.Name
	}
	return strconv.Itoa(s.Ord) + ") " + s.Name
}

func orMissing(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return Missing
}
