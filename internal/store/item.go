package store

import (
	"strconv"
	"sync"
)

// Item is one domain record mirrored from the server: a machine, device,
// controller, subnet, or boot image. The store mutates an Item's fields
// in place whenever fresh server data arrives, so any code holding the
// *Item keeps observing current values. The pointer itself is the
// record's identity for as long as the record exists.
//
// Reconciliation swaps the field map wholesale from the channel's read
// goroutine while the UI goroutine reads through the accessors, so both
// sides go through the item's own lock. The maps themselves are never
// mutated after installation.
//
// Fields hold server-shaped data only. Transient UI state (selection,
// pending edits) lives in the store's selection set and in forms, never
// inside the Item.
type Item struct {
	key string

	mu     sync.RWMutex
	fields map[string]any
}

// NewItem builds a standalone item from a key and server-shaped fields.
// Items inside a store are created by reconciliation; this constructor
// exists for code that works on item data outside a mirror, such as
// forms and derived views.
func NewItem(key string, fields map[string]any) *Item {
	return &Item{key: key, fields: fields}
}

// Key returns the item's primary-key value in normalized string form.
func (it *Item) Key() string {
	return it.key
}

// setFields installs a fresh server-shaped field map.
func (it *Item) setFields(fields map[string]any) {
	it.mu.Lock()
	it.fields = fields
	it.mu.Unlock()
}

// Field returns a raw field value.
func (it *Item) Field(name string) (any, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	v, ok := it.fields[name]
	return v, ok
}

// StringField returns a field as a string, or "" when absent or not a
// string.
func (it *Item) StringField(name string) string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	s, _ := it.fields[name].(string)
	return s
}

// IntField returns a numeric field as int64. JSON numbers decode as
// float64; both are accepted.
func (it *Item) IntField(name string) int64 {
	it.mu.RLock()
	defer it.mu.RUnlock()
	switch v := it.fields[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// BoolField returns a boolean field, false when absent.
func (it *Item) BoolField(name string) bool {
	it.mu.RLock()
	defer it.mu.RUnlock()
	b, _ := it.fields[name].(bool)
	return b
}

// Fields returns a shallow copy of the item's fields, suitable as the
// basis for an update call or a form snapshot.
func (it *Item) Fields() map[string]any {
	it.mu.RLock()
	defer it.mu.RUnlock()
	dup := make(map[string]any, len(it.fields))
	for k, v := range it.fields {
		dup[k] = v
	}
	return dup
}

// keyFor normalizes a primary-key value to its string form. Servers use
// string keys (system_id) for nodes and numeric keys (id) for subnets
// and images; JSON delivers the numeric ones as float64.
func keyFor(v any) (string, bool) {
	switch k := v.(type) {
	case string:
		if k == "" {
			return "", false
		}
		return k, true
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), true
	case int:
		return strconv.Itoa(k), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case uint64:
		return strconv.FormatUint(k, 10), true
	default:
		return "", false
	}
}
