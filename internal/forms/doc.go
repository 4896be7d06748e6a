// Package forms provides edit buffers over mirrored items.
//
// A Form snapshots an item's fields when editing starts, so server
// pushes rewriting the item mid-edit never disturb what the operator is
// typing. On save the form yields only the fields that actually changed,
// and a rejected call's field-keyed errors map straight back onto the
// form for display next to the offending inputs.
package forms
