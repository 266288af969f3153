package parcel

import "sort"

// Number orders the collection by the chosen axis and assigns strictly
// consecutive sequence numbers beginning at start.
//
// The input collection is not modified; the result is a new collection whose
// iteration order is the numbering order. Features with equal coordinate
// values keep their relative input order (stable sort), so assignments are
// deterministic for any input. An empty collection yields an empty result.
func Number(c *Collection, axis Axis, ascending bool, start int) *Collection {
	keys := c.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		a, _ := c.Get(keys[i])
		b, _ := c.Get(keys[j])
		if ascending {
			return axis.value(a) < axis.value(b)
		}
		return axis.value(a) > axis.value(b)
	})

	out := NewCollection()
	n := start
	for _, k := range keys {
		f, _ := c.Get(k)
		f.Numbering = n
		out.Add(f)
		n++
	}
	return out
}
