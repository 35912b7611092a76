package payload

import (
	"strings"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/model"
)

// MultiValueDelimiter joins selected options into one column value.
const MultiValueDelimiter = "; "

// Record is the flattened answer set keyed by field id.
type Record map[string]string

// Flatten emits one entry per non-action field of the questionnaire.
// Unanswered fields map to "" so the collector always receives the same
// column set for a given shape. Answers for ids outside the questionnaire
// (hotel sections beyond the current count, for example) are not emitted.
func Flatten(questionnaire model.Questionnaire, reader answers.Reader) Record {
	record := make(Record)
	for _, section := range questionnaire.Sections {
		for _, field := range section.Fields {
			if field.IsAction() {
				continue
			}
			record[field.ID] = flattenValue(reader, field.ID)
		}
	}
	return record
}

// Columns returns the flattened keys in questionnaire order.
func Columns(questionnaire model.Questionnaire) []string {
	var columns []string
	for _, field := range questionnaire.Fields() {
		if field.IsAction() {
			continue
		}
		columns = append(columns, field.ID)
	}
	return columns
}

func flattenValue(reader answers.Reader, id string) string {
	if reader == nil {
		return ""
	}
	value, ok := reader.Get(id)
	if !ok {
		return ""
	}
	if value.IsMulti() {
		return strings.Join(value.Selected(), MultiValueDelimiter)
	}
	return value.Scalar()
}
