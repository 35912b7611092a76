package payload

import (
	"encoding/json"
	"time"
)

// TimestampLayout matches ISO-8601 with millisecond precision in UTC
// ("2024-05-01T09:30:00.000Z").
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the submission sent to the collector.
type Envelope struct {
	SubmissionID string `json:"submission_id"`
	SubmittedAt  string `json:"submitted_at"`
	Data         Record `json:"data"`
	IsFinal      bool   `json:"is_final"`
	PMEmail      string `json:"pm_email"`
}

// NewEnvelope assembles the submission. The data record is copied and
// extended with the raw recipient selection and the resolved address.
func NewEnvelope(submissionID string, at time.Time, record Record, choice, resolved string, final bool) Envelope {
	data := make(Record, len(record)+2)
	for key, value := range record {
		data[key] = value
	}
	data[ChoiceField] = choice
	data[EmailField] = resolved

	return Envelope{
		SubmissionID: submissionID,
		SubmittedAt:  FormatTimestamp(at),
		Data:         data,
		IsFinal:      final,
		PMEmail:      resolved,
	}
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Encode returns the JSON form of the envelope.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}
