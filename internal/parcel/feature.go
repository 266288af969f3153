package parcel

// Feature is a single geographic record reduced to what numbering needs:
// its canonical key and the coordinates of its centroid.
type Feature struct {
	Key Key
	X   float64
	Y   float64

	// Numbering is the assigned sequence number.
	// Meaningful only on features returned by Number.
	Numbering int
}

// Collection is an ordered mapping from key to feature.
//
// Order is insertion order for a freshly extracted collection and numbering
// order for the collection returned by Number. Re-adding an existing key
// replaces the feature but keeps its original position, so iteration order
// is deterministic for any input.
type Collection struct {
	keys  []Key
	index map[Key]Feature
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[Key]Feature)}
}

// Add inserts or replaces the feature under its key.
func (c *Collection) Add(f Feature) {
	if _, ok := c.index[f.Key]; !ok {
		c.keys = append(c.keys, f.Key)
	}
	c.index[f.Key] = f
}

// Get returns the feature for key, if present.
func (c *Collection) Get(key Key) (Feature, bool) {
	f, ok := c.index[key]
	return f, ok
}

// Len returns the number of features.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Keys returns the keys in collection order. The slice is a copy.
func (c *Collection) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Features returns the features in collection order.
func (c *Collection) Features() []Feature {
	out := make([]Feature, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.index[k])
	}
	return out
}
