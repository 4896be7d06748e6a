// Package wire defines the frame format spoken on the Foundry control
// channel.
//
// The channel is a duplex stream of newline-delimited JSON frames. The
// client sends request frames ("machine.list", "device.action", ...) and
// the server answers each with a response frame carrying the same
// request_id. Independently of requests, the server pushes notify frames
// whenever an object changes, keyed by object type ("machine", "subnet")
// with an action of create, update, or delete.
//
// Error responses carry either a plain message or a mapping of field name
// to error strings; ParseCallError normalizes both shapes into a
// *CallError so callers can surface field-level validation failures
// without caring how the server encoded them.
package wire
