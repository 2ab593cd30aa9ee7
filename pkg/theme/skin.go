package theme

// Skin is the visual chrome of node cards and links. Colours are CSS colour
// strings.
type Skin struct {
	Theme Theme `json:"theme"`

	Background string `json:"background"`

	CardFill    string `json:"card_fill"`
	CardInner   string `json:"card_inner"`
	Frame       string `json:"frame"`
	FrameInner  string `json:"frame_inner"`
	FrameAccent string `json:"frame_accent"`

	BoxBackground string `json:"box_background"`
	BoxBorder     string `json:"box_border"`
	Name          string `json:"name"`
	Subtitle      string `json:"subtitle"`
	PhotoBack     string `json:"photo_background"`
	PhotoBorder   string `json:"photo_border"`

	Link      string  `json:"link"`
	LinkWidth float64 `json:"link_width"`
}

var darkSkin = Skin{
	Theme:         Dark,
	Background:    "#0B0D10",
	CardFill:      "#16191E",
	CardInner:     "#0F1115",
	Frame:         "#c7a24b",
	FrameInner:    "#e5e7eb",
	FrameAccent:   "#e3c46a",
	BoxBackground: "#16191E",
	BoxBorder:     "rgba(212,175,55,.55)",
	Name:          "#FDFBF7",
	Subtitle:      "rgba(253,251,247,.70)",
	PhotoBack:     "#0F1115",
	PhotoBorder:   "#D4AF37",
	Link:          "#8B5E3C",
	LinkWidth:     3,
}

var lightSkin = Skin{
	Theme:         Light,
	Background:    "#FDFBF7",
	CardFill:      "#FFFFFF",
	CardInner:     "#FBF7EC",
	Frame:         "#c7a24b",
	FrameInner:    "#e5e7eb",
	FrameAccent:   "#e3c46a",
	BoxBackground: "#FFFFFF",
	BoxBorder:     "#c7a24b",
	Name:          "#1F2328",
	Subtitle:      "rgba(31,35,40,.60)",
	PhotoBack:     "#FFFFFF",
	PhotoBorder:   "#c7a24b",
	Link:          "#8B5E3C",
	LinkWidth:     3,
}
