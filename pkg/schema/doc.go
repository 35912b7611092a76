// Package schema generates the questionnaire from the stored answers. Build
// is a pure function of two counts: tour_nights bounds the hotel sections
// (clamped to [1,30]) and transport_count bounds the transport sections
// (clamped to [1,10]). Repeatable section and field ids are derived from the
// 1-based position (hotel_2_rating, transport_3_type), so rebuilding after a
// count change leaves every existing answer attached to the same id.
//
// The schema is rebuilt from scratch whenever a count changes; callers never
// patch a previously built questionnaire.
package schema
