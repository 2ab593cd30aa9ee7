package cache

// ScopedKeyer prefixes every key produced by an inner [Keyer]. The serve
// command scopes keys per store so a file-backed and a SQLite-backed server
// can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sqlite:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the prefix prepended to every key.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

func (k *ScopedKeyer) TreeKey(source string) string {
	return k.prefix + k.inner.TreeKey(source)
}

func (k *ScopedKeyer) PersonKey(source, id string) string {
	return k.prefix + k.inner.PersonKey(source, id)
}

func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
