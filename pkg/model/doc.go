// Package model defines the typed questionnaire descriptors consumed by the
// engine and every adapter. A Questionnaire is an ordered list of Sections,
// each holding ordered Fields. Descriptors carry no behaviour beyond simple
// lookups: the schema package builds them, the completion and payload
// packages read them, and renderers walk them.
//
// Field ids are the join key between descriptors and stored answers, so a
// field describing the same real-world entity (for example "hotel 2") keeps
// the same id across rebuilds. Optional marks fields that never count toward
// completion; UIHints carries renderer-facing directives such as numeric
// bounds (HintMin, HintMax, HintStep).
package model
