// Package store implements the generic client-side mirror of one server
// collection.
//
// # Overview
//
// Every object type the control panel shows — machines, devices,
// controllers, subnets, boot images — is mirrored by one Store. The
// mirror stays consistent with the server through two inputs that share
// a single reconciliation path: results of method calls the client
// issued, and push notifications the server emits for every change.
//
// # Identity
//
// The central invariant is identity preservation: there is at most one
// *Item per primary-key value, and once created the pointer never changes
// for the life of the record. Updates replace the item's fields in place.
// Views and derived projections can therefore hold *Item references
// across refreshes and always observe current data.
//
// # Selection and the active item
//
// The selection set is keyed by primary key and lives beside the
// collection: removing an item always removes its selection entry, and
// selecting a key the mirror does not know is a logged no-op rather than
// an error, because the row may have been deleted concurrently.
//
// The active item is the single record a detail view is focused on.
// Switching it may require a fetch, and overlapping switches are resolved
// by a monotonically increasing sequence number: the latest call wins,
// and a stale fetch that resolves afterwards contributes its data to the
// mirror but never claws back the active pointer.
//
// # Failure model
//
// Every server-facing method returns an error instead of mutating
// anything locally when the call fails. Validation rejections surface as
// *wire.CallError with the server's payload intact.
package store
