// Package completion derives progress from an answer store against a
// generated questionnaire. A field is required unless it is optional by
// policy (see IsOptional) and counts as answered when it holds a non-empty
// scalar or a non-empty option set.
package completion
