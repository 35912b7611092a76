// Package transport delivers submission envelopes to the external collector.
// HTTPSender mirrors the browser form post the collector was built for: a
// single urlencoded "payload" parameter holding the JSON envelope.
package transport
