package completion

import (
	"strings"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/model"
)

// CommentsSuffix marks companion comment fields as optional.
const CommentsSuffix = "_comments"

// SectionStatus captures the completion of a single section.
type SectionStatus struct {
	ID       string `json:"id"`
	Required int    `json:"required"`
	Answered int    `json:"answered"`
	Complete bool   `json:"complete"`
}

// Report is the completion snapshot of a questionnaire against an answer
// store.
type Report struct {
	Sections         []SectionStatus `json:"sections"`
	Required         int             `json:"required"`
	Answered         int             `json:"answered"`
	Percent          int             `json:"percent"`
	RequiredComplete bool            `json:"requiredComplete"`
}

// Section returns the status for the section id.
func (r Report) Section(id string) (SectionStatus, bool) {
	for _, status := range r.Sections {
		if status.ID == id {
			return status, true
		}
	}
	return SectionStatus{}, false
}

// IsOptional reports whether a field is excluded from completion. Action
// fields and explicitly optional fields are excluded, as are fields whose id
// ends in "_comments" and fields labelled "Comments..." (legacy templates
// that predate the explicit flag).
func IsOptional(field model.Field) bool {
	if field.IsAction() || field.Optional {
		return true
	}
	if strings.HasSuffix(field.ID, CommentsSuffix) {
		return true
	}
	return IsCommentLabel(field.Label)
}

// IsCommentLabel reports whether label reads as a free comment prompt.
func IsCommentLabel(label string) bool {
	normalized := strings.ToLower(strings.TrimSpace(label))
	return normalized != "" && strings.HasPrefix(normalized, "comments")
}

// IsAnswered reports whether a stored value counts as an answer.
func IsAnswered(value answers.Value, ok bool) bool {
	return ok && !value.Empty()
}

// Evaluate computes per-section and global completion. Optional fields never
// count toward the denominator; a section with no required fields is
// complete. Percent is 0 when nothing is required.
func Evaluate(questionnaire model.Questionnaire, reader answers.Reader) Report {
	report := Report{Sections: make([]SectionStatus, 0, len(questionnaire.Sections))}

	for _, section := range questionnaire.Sections {
		status := SectionStatus{ID: section.ID}
		for _, field := range section.Fields {
			if IsOptional(field) {
				continue
			}
			status.Required++
			if reader != nil && IsAnswered(reader.Get(field.ID)) {
				status.Answered++
			}
		}
		status.Complete = status.Answered >= status.Required
		report.Required += status.Required
		report.Answered += status.Answered
		report.Sections = append(report.Sections, status)
	}

	report.Percent = Percent(report.Answered, report.Required)
	report.RequiredComplete = report.Required > 0 && report.Answered >= report.Required
	return report
}

// Percent returns answered/required as a whole percentage rounded half up.
// 100 is reserved for a fully answered questionnaire, so large schemas with
// one field missing report 99.
func Percent(answered, required int) int {
	if required <= 0 {
		return 0
	}
	if answered >= required {
		return 100
	}
	percent := (answered*200 + required) / (required * 2)
	if percent >= 100 {
		return 99
	}
	return percent
}
