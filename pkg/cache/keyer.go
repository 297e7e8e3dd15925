package cache

// RenderKeyOpts are the render options that change the rendered output.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer builds the keys used by caches and by the Redis document store.
type Keyer interface {
	// DocumentKey is the key of the latest content of a named document.
	DocumentKey(name string) string

	// RevisionsKey is the key of a document's revision list.
	RevisionsKey(name string) string

	// RenderKey is the key of a rendering of the document with hash docHash.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the unprefixed [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unprefixed keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey returns "doc:<name>".
func (DefaultKeyer) DocumentKey(name string) string { return "doc:" + name }

// RevisionsKey returns "rev:<name>".
func (DefaultKeyer) RevisionsKey(name string) string { return "rev:" + name }

// RenderKey hashes the document hash together with the options.
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}
