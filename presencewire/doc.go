// Package presencewire relays application presence updates to a consumer
// over one of two interchangeable transports: a local inter-process
// presence channel or a remote websocket agent.
//
// The entry point is TransportManager, which owns at most one live
// transport at a time. Callers hand it a Config describing the desired
// transport mode and then feed it Activity payloads through Dispatch.
// Reconfiguration fully replaces the active transport; a pending connect
// that is superseded by a newer Configure call is abandoned and its late
// events are ignored.
//
// Transport failures never escape the manager boundary: connect errors
// and dropped connections surface as logged state changes and as error
// values returned from Dispatch, not as panics. The package performs no
// automatic retry or reconnection; recovery is an explicit Configure
// call by the host application.
package presencewire
