// Package events carries session lifecycle events inside the client.
//
// [Bus] delivers events synchronously to in-process subscribers (the forced
// logout path depends on that ordering). [Dispatcher] forwards events
// asynchronously to a [Sink] such as a JSON activity log and may drop under
// pressure.
package events
