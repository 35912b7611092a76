// Package report renders a printable HTML summary of a survey session with
// pongo2. Long-text answers are treated as Markdown and sanitised before
// they reach the template; every other value is escaped by the template.
package report
