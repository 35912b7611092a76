package completion_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/completion"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
)

func TestIsOptional(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		want  bool
	}{
		{name: "action", field: model.Field{ID: "transport_add", Kind: model.FieldKindAction}, want: true},
		{name: "explicit", field: model.Field{ID: "notes", Label: "Notes", Optional: true}, want: true},
		{name: "suffix", field: model.Field{ID: "fire_exits_comments", Label: "Details"}, want: true},
		{name: "label", field: model.Field{ID: "overall", Label: "  Comments "}, want: true},
		{name: "label prefix", field: model.Field{ID: "extra", Label: "comments (optional)"}, want: true},
		{name: "required", field: model.Field{ID: "your_name", Label: "Your name"}, want: false},
		{name: "comment inside label", field: model.Field{ID: "q", Label: "Any comments?"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := completion.IsOptional(tc.field); got != tc.want {
				t.Fatalf("IsOptional = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	cases := []struct{ answered, required, want int }{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{199, 200, 99},
		{3, 3, 100},
	}
	for _, tc := range cases {
		if got := completion.Percent(tc.answered, tc.required); got != tc.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tc.answered, tc.required, got, tc.want)
		}
	}
}

func smallQuestionnaire() model.Questionnaire {
	return model.Questionnaire{Sections: []model.Section{
		{
			ID: "one",
			Fields: []model.Field{
				{ID: "name", Label: "Name", Kind: model.FieldKindShortText},
				{ID: "name_comments", Label: "Comments", Kind: model.FieldKindLongText, Optional: true},
				{ID: "actions", Label: "Actions", Kind: model.FieldKindMultiChoice, Options: []string{"a", "b"}},
			},
		},
		{
			ID: "only_optional",
			Fields: []model.Field{
				{ID: "free", Label: "Comments", Kind: model.FieldKindLongText},
			},
		},
		{
			ID: "two",
			Fields: []model.Field{
				{ID: "rating", Label: "Rating", Kind: model.FieldKindSingleChoice, Options: []string{"Good"}},
				{ID: "add", Label: "Add", Kind: model.FieldKindAction, Action: model.ActionAddTransport},
			},
		},
	}}
}

func TestEvaluate(t *testing.T) {
	q := smallQuestionnaire()
	store := answers.New()

	report := completion.Evaluate(q, store)
	want := completion.Report{
		Sections: []completion.SectionStatus{
			{ID: "one", Required: 2, Answered: 0, Complete: false},
			{ID: "only_optional", Required: 0, Answered: 0, Complete: true},
			{ID: "two", Required: 1, Answered: 0, Complete: false},
		},
		Required: 3,
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("empty report mismatch (-want +got):\n%s", diff)
	}

	store.Set("name", "Alex")
	store.Set("name_comments", "ignored")
	store.Toggle("actions", "a", true)
	report = completion.Evaluate(q, store)
	if report.Answered != 2 || report.Percent != 67 || report.RequiredComplete {
		t.Fatalf("unexpected partial report: %+v", report)
	}
	if status, _ := report.Section("one"); !status.Complete {
		t.Fatalf("section one should be complete: %+v", status)
	}

	store.Set("rating", "Good")
	report = completion.Evaluate(q, store)
	if report.Percent != 100 || !report.RequiredComplete {
		t.Fatalf("expected full completion: %+v", report)
	}

	store.Toggle("actions", "a", false)
	report = completion.Evaluate(q, store)
	if report.RequiredComplete {
		t.Fatalf("emptying a multi-choice must drop completion: %+v", report)
	}
}

func TestEvaluate_NoRequiredFieldsNeverComplete(t *testing.T) {
	q := model.Questionnaire{Sections: []model.Section{{
		ID:     "comments_only",
		Fields: []model.Field{{ID: "x_comments", Label: "Comments"}},
	}}}
	report := completion.Evaluate(q, answers.New())
	if report.Percent != 0 || report.RequiredComplete {
		t.Fatalf("empty denominator must report 0%% and incomplete: %+v", report)
	}
}

func TestEvaluate_ProgressIsMonotonicOverGeneratedSchema(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 1, Transports: 1})
	store := answers.New()

	previous := completion.Evaluate(q, store).Percent
	for _, field := range q.Fields() {
		if completion.IsOptional(field) {
			continue
		}
		if field.IsMulti() {
			store.Toggle(field.ID, field.Options[0], true)
		} else {
			store.Set(field.ID, "x")
		}
		report := completion.Evaluate(q, store)
		if report.Percent < previous {
			t.Fatalf("progress dropped from %d to %d after answering %s", previous, report.Percent, field.ID)
		}
		previous = report.Percent
		if report.Percent == 100 && !report.RequiredComplete {
			t.Fatalf("100%% reported before every required field is answered")
		}
	}

	final := completion.Evaluate(q, store)
	if final.Percent != 100 || !final.RequiredComplete {
		t.Fatalf("expected completion after answering every required field: %+v", final)
	}
}
