// Package report holds the ordered report document and its tag-per-key serialization.
package report

// Entry is one key of a Document.
type Entry struct {
	Key   string
	Value any
}

// Document is an insertion-ordered mapping. Values are scalars, nil, slices
// of model tuples, or nested *Document values.
type Document struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty Document.
func New() *Document {
	return &Document{index: map[string]int{}}
}

// Set stores value under key, keeping the original position of an existing key.
func (d *Document) Set(key string, value any) {
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}

	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}

	return d.entries[i].Value, true
}

// Child returns the nested document stored under key, or nil.
func (d *Document) Child(key string) *Document {
	value, _ := d.Get(key)
	child, _ := value.(*Document)

	return child
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for _, entry := range d.entries {
		keys = append(keys, entry.Key)
	}

	return keys
}

// Entries returns a copy of the entries in insertion order.
func (d *Document) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.entries)
}
