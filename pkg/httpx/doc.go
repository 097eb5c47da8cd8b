// Package httpx connects routekit chains to concrete HTTP servers.
//
// Two transports are supported: net/http (Handler, NewServer) and fasthttp
// (FastHandler, NewFastServer). Both convert the inbound message into a
// *routekit.Request, call the handler, and write the *routekit.Response back:
//
//   - headers are copied as is and a zero status is sent as 200
//   - the first frame is produced before the status line is written, so a
//     response that fails immediately is replaced by the error response
//   - later frames are flushed as they arrive
//   - a stream that fails after the status line is logged and cut short
//
// Dispatch failures are turned into responses by an ErrorHandler; the
// default maps the error with routekit.StatusCode and answers in plain text.
//
// Both server types satisfy routekit.Server and run under routekit.Run.
package httpx
