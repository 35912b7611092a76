package schema

import (
	"strconv"

	"github.com/goliatone/go-tripsurvey/pkg/model"
)

// CommentsSuffix marks companion comment fields.
const CommentsSuffix = "_comments"

var (
	RatingOptions = []string{"Excellent", "Good", "Satisfactory", "Poor", "Very Poor"}
	YesNo         = []string{"Yes", "No"}
	YesNoNA       = []string{"Yes", "No", "N/A"}
	Acknowledge   = []string{"Yes"}
)

func text(id, label string) model.Field {
	return model.Field{ID: id, Label: label, Kind: model.FieldKindShortText}
}

func longText(id, label string) model.Field {
	return model.Field{ID: id, Label: label, Kind: model.FieldKindLongText}
}

func choice(id, label string, options []string) model.Field {
	return model.Field{ID: id, Label: label, Kind: model.FieldKindSingleChoice, Options: cloneStrings(options)}
}

func multiChoice(id, label string, options []string) model.Field {
	return model.Field{ID: id, Label: label, Kind: model.FieldKindMultiChoice, Options: cloneStrings(options)}
}

func selectOne(id, label string, options []string) model.Field {
	return model.Field{ID: id, Label: label, Kind: model.FieldKindSelectOne, Options: cloneStrings(options)}
}

func rating(id, label string) model.Field {
	return choice(id, label, RatingOptions)
}

func yesNo(id, label string) model.Field {
	return choice(id, label, YesNo)
}

func yesNoNA(id, label string) model.Field {
	return choice(id, label, YesNoNA)
}

// comments declares an explicitly optional free-text field.
func comments(id, label string) model.Field {
	field := longText(id, label)
	field.Optional = true
	return field
}

// yesNoWithComments returns a yes/no question followed by its optional
// "<id>_comments" companion. The companion label defaults to "Comments".
func yesNoWithComments(id, label string, commentLabel ...string) []model.Field {
	companion := "Comments"
	if len(commentLabel) > 0 && commentLabel[0] != "" {
		companion = commentLabel[0]
	}
	return []model.Field{
		yesNo(id, label),
		comments(id+CommentsSuffix, companion),
	}
}

func numberedOptions(from, to int) []string {
	if to < from {
		return nil
	}
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// fields flattens single fields and field groups into one ordered slice.
func fields(parts ...any) []model.Field {
	var out []model.Field
	for _, part := range parts {
		switch typed := part.(type) {
		case model.Field:
			out = append(out, typed)
		case []model.Field:
			out = append(out, typed...)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
