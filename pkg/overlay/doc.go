// Package overlay loads presentation overrides for the generated
// questionnaire from JSON or YAML files. Overrides address sections and
// fields by id; ids of repeatable sections may use the "{n}" placeholder
// ("hotel_{n}_rating") to target every instance, and "{n}" inside titles and
// labels expands to the section index. Overlays never change ids or the
// shape of the questionnaire, so stored answers stay attached.
package overlay
