// Package tourcodes serves the tour code catalogue behind the "Tour code"
// select: search helpers and a small net/http handler that returns JSON
// options for the input.
//
// The handler responds to GET and HEAD requests and supports query and limit
// parameters. Catalogues come from configuration or a plain text file with
// one "CODE Description" entry per line.
package tourcodes
