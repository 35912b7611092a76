// Package engine owns a survey session. It loads the answer store through a
// persistence gateway, keeps the questionnaire generated from it current,
// persists after every mutation and submits the flattened answers through
// a transport sender.
//
// Writes to tour_nights or transport_count, the add-transport action and
// Clear rebuild the questionnaire synchronously. Answers are never pruned by
// a rebuild, so shrinking a count and growing it again brings earlier
// answers back.
package engine
