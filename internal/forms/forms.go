package forms

import (
	"fmt"
	"sort"

	"github.com/rackline/rackline/internal/store"
	"github.com/rackline/rackline/internal/wire"
)

// Validator checks one field value and returns a message when the value
// is unacceptable, or "" when it passes.
type Validator func(value string) string

// Form is an edit buffer over a mirrored item. It snapshots the item's
// fields at construction, collects the operator's edits, and produces
// the minimal changed-field set for the update call. Server pushes that
// rewrite the underlying item never touch an open form; the snapshot is
// what the operator saw when they started editing.
type Form struct {
	key        string
	original   map[string]any
	edits      map[string]string
	validators map[string][]Validator
	fieldErrs  map[string][]string
	formErrs   []string
}

// New builds a form over the item's current fields.
func New(it *store.Item) *Form {
	return &Form{
		key:        it.Key(),
		original:   it.Fields(),
		edits:      make(map[string]string),
		validators: make(map[string][]Validator),
		fieldErrs:  make(map[string][]string),
	}
}

// Blank builds a form with no backing item, for create flows.
func Blank() *Form {
	return &Form{
		original:   make(map[string]any),
		edits:      make(map[string]string),
		validators: make(map[string][]Validator),
		fieldErrs:  make(map[string][]string),
	}
}

// Key returns the backing item's key, "" for a blank form.
func (f *Form) Key() string {
	return f.key
}

// Validate registers validators for a field. They run in order on every
// Set; the first failure wins.
func (f *Form) Validate(field string, vs ...Validator) {
	f.validators[field] = append(f.validators[field], vs...)
}

// Set records an edit and runs the field's validators. Server-side
// errors for the field are cleared, since they described a value the
// operator has since changed.
func (f *Form) Set(field, value string) {
	f.edits[field] = value
	delete(f.fieldErrs, field)
	for _, v := range f.validators[field] {
		if msg := v(value); msg != "" {
			f.fieldErrs[field] = append(f.fieldErrs[field], msg)
			break
		}
	}
}

// Value returns the field's current value: the edit if one exists,
// otherwise the snapshot value rendered as a string.
func (f *Form) Value(field string) string {
	if v, ok := f.edits[field]; ok {
		return v
	}
	return originalString(f.original[field])
}

// Changed returns only the fields whose edited value differs from the
// snapshot. An edit typed back to the original value drops out.
func (f *Form) Changed() map[string]any {
	changed := make(map[string]any)
	for field, v := range f.edits {
		if v != originalString(f.original[field]) {
			changed[field] = v
		}
	}
	return changed
}

// Dirty reports whether any field currently differs from the snapshot.
func (f *Form) Dirty() bool {
	return len(f.Changed()) > 0
}

// Reset discards all edits and errors, returning to the snapshot.
func (f *Form) Reset() {
	f.edits = make(map[string]string)
	f.fieldErrs = make(map[string][]string)
	f.formErrs = nil
}

// Valid reports whether no field or form-level errors are present.
func (f *Form) Valid() bool {
	return len(f.fieldErrs) == 0 && len(f.formErrs) == 0
}

// FieldErrors returns the current errors for a field, client-side and
// server-side combined.
func (f *Form) FieldErrors(field string) []string {
	return f.fieldErrs[field]
}

// FormErrors returns errors that apply to the form as a whole.
func (f *Form) FormErrors() []string {
	return f.formErrs
}

// ErrorFields returns the names of fields carrying errors, sorted.
func (f *Form) ErrorFields() []string {
	fields := make([]string, 0, len(f.fieldErrs))
	for field := range f.fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// ApplyError maps a failed call's error onto the form. Field-keyed
// messages land on their fields, whole-object messages and plain errors
// land on the form itself.
func (f *Form) ApplyError(err error) {
	if err == nil {
		return
	}
	ce, ok := wire.AsCallError(err)
	if !ok {
		f.formErrs = append(f.formErrs, err.Error())
		return
	}
	if len(ce.Fields) == 0 {
		f.formErrs = append(f.formErrs, ce.Message)
		return
	}
	for field, msgs := range ce.Fields {
		if field == wire.AllObjectKey {
			f.formErrs = append(f.formErrs, msgs...)
			continue
		}
		f.fieldErrs[field] = append(f.fieldErrs[field], msgs...)
	}
}

func originalString(v any) string {
	switch o := v.(type) {
	case nil:
		return ""
	case string:
		return o
	case bool:
		if o {
			return "true"
		}
		return "false"
	case float64:
		if o == float64(int64(o)) {
			return fmt.Sprintf("%d", int64(o))
		}
		return fmt.Sprintf("%g", o)
	default:
		return fmt.Sprintf("%v", o)
	}
}
