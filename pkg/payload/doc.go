// Package payload turns the answer store into the record a collector
// receives. Flatten produces a total, string-only column set for the
// current questionnaire; NewEnvelope wraps it with the submission id,
// timestamp, finality flag and routing recipient resolved by Router.
package payload
