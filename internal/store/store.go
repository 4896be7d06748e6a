package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rackline/rackline/internal/channel"
	"github.com/rackline/rackline/internal/wire"
)

// Config describes the server collection a Store mirrors.
type Config struct {
	// ObjectType is the handler name on the wire, e.g. "machine".
	ObjectType string
	// PrimaryKey is the field that identifies items, e.g. "system_id".
	// Defaults to "id".
	PrimaryKey string
	// Caller issues the RPCs.
	Caller channel.Caller
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store keeps a live client-side mirror of one server collection. It is
// the only code allowed to mutate the mirrored items; everything else
// reads. Updates arrive two ways — method-call results and push
// notifications — and both reconcile through the same path: an item that
// already exists is updated in place (pointer identity preserved), a new
// key is inserted, and a delete removes the item together with its
// selection entry.
//
// A Store performs no retries and applies no local change unless the
// server call succeeded.
type Store struct {
	objectType string
	primaryKey string
	caller     channel.Caller
	logger     *slog.Logger

	mu        sync.Mutex
	items     []*Item
	index     map[string]*Item
	selected  map[string]struct{}
	active    *Item
	activeSeq uint64
	loaded    bool
}

// New creates a Store for one object type.
func New(cfg Config) *Store {
	pk := cfg.PrimaryKey
	if pk == "" {
		pk = "id"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		objectType: cfg.ObjectType,
		primaryKey: pk,
		caller:     cfg.Caller,
		logger:     logger.With("store", cfg.ObjectType),
		index:      make(map[string]*Item),
		selected:   make(map[string]struct{}),
	}
}

// ObjectType returns the wire handler name this store mirrors.
func (s *Store) ObjectType() string { return s.objectType }

// PrimaryKey returns the name of the identifying field.
func (s *Store) PrimaryKey() string { return s.primaryKey }

// Items returns the collection in fetch order. The returned slice is a
// copy, but the *Item pointers are live: their fields change as updates
// arrive.
func (s *Store) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := make([]*Item, len(s.items))
	copy(dup, s.items)
	return dup
}

// Get looks an item up by primary key. Returns nil when absent.
func (s *Store) Get(key any) *Item {
	ks, ok := keyFor(key)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[ks]
}

// Len returns the number of mirrored items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Loaded reports whether an authoritative list fetch has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Call issues "<objectType>.<verb>" without touching the local mirror.
// Specialized stores build their mutation methods on this.
func (s *Store) Call(ctx context.Context, verb string, params map[string]any) (json.RawMessage, error) {
	return s.caller.CallMethod(ctx, s.objectType+"."+verb, params)
}

// Load fetches the full collection and reconciles it: existing keys are
// updated in place, new keys inserted, and items the server no longer
// reports are removed (the list call is authoritative). On error the
// mirror is left untouched, so every record is validated before the
// first one is applied.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.Call(ctx, "list", nil)
	if err != nil {
		return err
	}
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("store: decode %s list: %w", s.objectType, err)
	}
	keys := make([]string, len(list))
	for i, fields := range list {
		ks, ok := keyFor(fields[s.primaryKey])
		if !ok {
			return fmt.Errorf("store: %s list record missing primary key %q", s.objectType, s.primaryKey)
		}
		keys[i] = ks
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(list))
	for i, fields := range list {
		s.reconcileKeyLocked(keys[i], fields)
		seen[keys[i]] = struct{}{}
	}
	kept := s.items[:0]
	for _, it := range s.items {
		if _, ok := seen[it.key]; ok {
			kept = append(kept, it)
			continue
		}
		s.dropLocked(it.key)
	}
	s.items = kept
	s.loaded = true
	return nil
}

// Create issues a create call and inserts the server's canonical result.
func (s *Store) Create(ctx context.Context, fields map[string]any) (*Item, error) {
	raw, err := s.Call(ctx, "create", fields)
	if err != nil {
		return nil, err
	}
	return s.reconcileResult(raw)
}

// Update issues an update call with the given field values, which must
// include the primary key. On success the server's canonical item is
// reconciled in place and returned. On rejection the mirrored item is
// left exactly as it was, so the caller can re-render the failed edit
// without losing server state.
func (s *Store) Update(ctx context.Context, fields map[string]any) (*Item, error) {
	if _, ok := keyFor(fields[s.primaryKey]); !ok {
		return nil, fmt.Errorf("store: update %s: params missing primary key %q", s.objectType, s.primaryKey)
	}
	raw, err := s.Call(ctx, "update", fields)
	if err != nil {
		return nil, err
	}
	return s.reconcileResult(raw)
}

// Delete removes the item on the server, then from the mirror and the
// selection set.
func (s *Store) Delete(ctx context.Context, key any) error {
	ks, ok := keyFor(key)
	if !ok {
		return fmt.Errorf("store: delete %s: invalid key %v", s.objectType, key)
	}
	if _, err := s.Call(ctx, "delete", map[string]any{s.primaryKey: key}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ks)
	return nil
}

// PerformAction runs a named server action against one item. Actions
// that imply removal ("delete") also remove the item locally on success;
// everything else waits for the server's update notification.
func (s *Store) PerformAction(ctx context.Context, key any, action string, extra map[string]any) (json.RawMessage, error) {
	ks, ok := keyFor(key)
	if !ok {
		return nil, fmt.Errorf("store: action %s on %s: invalid key %v", action, s.objectType, key)
	}
	if extra == nil {
		extra = map[string]any{}
	}
	raw, err := s.Call(ctx, "action", map[string]any{
		s.primaryKey: key,
		"action":     action,
		"extra":      extra,
	})
	if err != nil {
		return nil, err
	}
	if action == "delete" {
		s.mu.Lock()
		s.removeLocked(ks)
		s.mu.Unlock()
	}
	return raw, nil
}

// SetActive designates the item the detail view is focused on. A locally
// known key resolves immediately; otherwise the item is fetched. When
// calls overlap, the most recent call wins: a stale fetch still
// reconciles its data into the mirror but does not touch the active
// pointer.
func (s *Store) SetActive(ctx context.Context, key any) (*Item, error) {
	ks, ok := keyFor(key)
	if !ok {
		return nil, fmt.Errorf("store: set active %s: invalid key %v", s.objectType, key)
	}

	s.mu.Lock()
	s.activeSeq++
	seq := s.activeSeq
	if it := s.index[ks]; it != nil {
		s.active = it
		s.mu.Unlock()
		return it, nil
	}
	// Cleared while the fetch is in flight so there is never a moment
	// with a wrong active item showing.
	s.active = nil
	s.mu.Unlock()

	raw, err := s.Call(ctx, "get", map[string]any{s.primaryKey: key})
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("store: decode %s get: %w", s.objectType, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.reconcileLocked(fields)
	if err != nil {
		return nil, err
	}
	if seq == s.activeSeq {
		s.active = it
	}
	return it, nil
}

// Active returns the current active item, nil when none.
func (s *Store) Active() *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select marks an item selected. Selecting a key that is not in the
// mirror is a logged no-op: under concurrent list updates the row the
// user clicked may already be gone, and that is not an error.
func (s *Store) Select(key any) {
	ks, ok := keyFor(key)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, present := s.index[ks]; !present {
		s.logger.Debug("select of unknown item", "key", ks)
		return
	}
	s.selected[ks] = struct{}{}
}

// Unselect clears an item's selection.
func (s *Store) Unselect(key any) {
	ks, ok := keyFor(key)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, ks)
}

// IsSelected reports whether the key is in the selection set.
func (s *Store) IsSelected(key any) bool {
	ks, ok := keyFor(key)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, selected := s.selected[ks]
	return selected
}

// SelectedItems returns the selected items in collection order.
func (s *Store) SelectedItems() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Item, 0, len(s.selected))
	for _, it := range s.items {
		if _, ok := s.selected[it.key]; ok {
			out = append(out, it)
		}
	}
	return out
}

// HandleNotify applies one push notification. Register it on the channel
// for this store's object type; the channel guarantees arrival-order
// delivery, and this method applies each notification synchronously, so
// the mirror follows the server's event log exactly.
func (s *Store) HandleNotify(action string, data json.RawMessage) {
	switch action {
	case wire.ActionCreate, wire.ActionUpdate:
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			s.logger.Warn("undecodable notify payload", "action", action, "error", err)
			return
		}
		s.mu.Lock()
		_, err := s.reconcileLocked(fields)
		s.mu.Unlock()
		if err != nil {
			s.logger.Warn("notify payload missing primary key", "action", action)
		}
	case wire.ActionDelete:
		ks, ok := s.deleteKey(data)
		if !ok {
			s.logger.Warn("undecodable delete notify payload")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, present := s.index[ks]; !present {
			// Already gone; deletes for unknown keys are ignored.
			return
		}
		s.removeLocked(ks)
	default:
		s.logger.Warn("unknown notify action", "action", action)
	}
}

// deleteKey extracts the primary key from a delete notification, which
// carries either the full object or the bare key value.
func (s *Store) deleteKey(data json.RawMessage) (string, bool) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err == nil {
		return keyFor(fields[s.primaryKey])
	}
	var scalar any
	if err := json.Unmarshal(data, &scalar); err == nil {
		return keyFor(scalar)
	}
	return "", false
}

func (s *Store) reconcileResult(raw json.RawMessage) (*Item, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("store: decode %s result: %w", s.objectType, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLocked(fields)
}

// reconcileLocked merges one server-shaped record into the mirror.
// Existing key: the item's field map is replaced wholesale, preserving
// the *Item identity. New key: appended in arrival order.
func (s *Store) reconcileLocked(fields map[string]any) (*Item, error) {
	ks, ok := keyFor(fields[s.primaryKey])
	if !ok {
		return nil, fmt.Errorf("store: %s record missing primary key %q", s.objectType, s.primaryKey)
	}
	return s.reconcileKeyLocked(ks, fields), nil
}

func (s *Store) reconcileKeyLocked(ks string, fields map[string]any) *Item {
	if it := s.index[ks]; it != nil {
		it.setFields(fields)
		return it
	}
	it := &Item{key: ks, fields: fields}
	s.items = append(s.items, it)
	s.index[ks] = it
	return it
}

// removeLocked removes an item from the collection slice and all
// bookkeeping.
func (s *Store) removeLocked(ks string) {
	for i, it := range s.items {
		if it.key == ks {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.dropLocked(ks)
}

// dropLocked clears index, selection, and active bookkeeping for a key
// that is being removed from the collection.
func (s *Store) dropLocked(ks string) {
	delete(s.index, ks)
	delete(s.selected, ks)
	if s.active != nil && s.active.key == ks {
		s.active = nil
	}
}
