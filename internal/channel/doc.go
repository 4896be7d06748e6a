// Package channel maintains the duplex control connection to a Foundry
// server.
//
// # Overview
//
// A Conn multiplexes two flows over one TCP stream of JSON frames:
//
//   - request/response: CallMethod sends a frame with a fresh request id
//     and blocks until the matching response arrives or the context ends.
//   - push notifications: the server emits notify frames whenever an
//     object changes; RegisterNotifier routes them by object type.
//
// # Ordering
//
// All inbound frames are decoded by a single read goroutine. Responses
// are handed to their waiting callers; notifications are dispatched
// inline, which guarantees observers see changes in exactly the order the
// server sent them. Notifier callbacks must therefore be quick — anything
// slow belongs on the callback's own goroutine.
//
// # Failure model
//
// The Conn never retries. A decode or transport error rejects every
// in-flight call, closes Done, and leaves Err set. Callers that cancel
// their context abandon the call; the late response is logged at debug
// level and dropped.
package channel
