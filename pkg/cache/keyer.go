package cache

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs always yield equal keys.
type Keyer interface {
	// TreeKey identifies the hierarchy served by a backend source (a URL,
	// file path or store DSN).
	TreeKey(source string) string

	// PersonKey identifies one person's detail record within a source.
	PersonKey(source, id string) string

	// LayoutKey identifies a layout snapshot for a hierarchy hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that change node positions, card
// geometry or link paths.
type LayoutKeyOpts struct {
	NodeWidth         float64 `json:"node_width"`
	NodeHeight        float64 `json:"node_height"`
	GapX              float64 `json:"gap_x"`
	GapY              float64 `json:"gap_y"`
	SiblingSeparation float64 `json:"sibling_separation"`
	CousinSeparation  float64 `json:"cousin_separation"`
	CardOffsetY       float64 `json:"card_offset_y"`
	LinkSourceOffset  float64 `json:"link_source_offset"`
	LinkTargetOffset  float64 `json:"link_target_offset"`
}

// ArtifactKeyOpts are the render parameters that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Theme    string  `json:"theme"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Policy   string  `json:"policy,omitempty"`
	Focus    string  `json:"focus,omitempty"`
	Query    string  `json:"query,omitempty"`
	Frames   bool    `json:"frames,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`

	// Settings is a digest of the view settings (scale limits, paddings,
	// opacities) that shape drawn output.
	Settings string `json:"settings,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey returns "tree:" followed by the hash of source.
func (DefaultKeyer) TreeKey(source string) string {
	return hashKey("tree", source)
}

// PersonKey returns "person:" followed by the hash of source and id.
func (DefaultKeyer) PersonKey(source, id string) string {
	return hashKey("person", source, id)
}

// LayoutKey hashes the tree hash together with the layout options.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
