// Package source loads auxiliary documents (tour code catalogues, collector
// contracts) from files, an fs.FS or HTTP endpoints.
package source
