package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripsurvey/pkg/model"
)

func sample() model.Questionnaire {
	return model.Questionnaire{Sections: []model.Section{
		{ID: "about", Title: "About you", Fields: []model.Field{
			{ID: "your_name", Kind: model.FieldKindShortText},
		}},
		{ID: "hotel_1", Title: "Hotel 1", Group: model.GroupHotel, Index: 1, NameField: "hotel_1_name", Fields: []model.Field{
			{ID: "hotel_1_name", Kind: model.FieldKindShortText},
		}},
		{ID: "transport_1", Title: "Transport 1", Group: model.GroupTransport, Index: 1, Fields: []model.Field{
			{ID: "transport_1_rating", Kind: model.FieldKindSingleChoice, Options: []string{"Good", "Poor"}},
			{ID: "transport_add", Kind: model.FieldKindAction, Action: model.ActionAddTransport},
		}},
	}}
}

func TestQuestionnaireLookups(t *testing.T) {
	q := sample()

	section, ok := q.Section(" hotel_1 ")
	if !ok || !section.Repeatable() {
		t.Fatalf("expected repeatable hotel_1, got %+v ok=%v", section, ok)
	}
	if _, ok := q.Section("hotel_2"); ok {
		t.Fatalf("hotel_2 should not exist")
	}

	field, owner, ok := q.Field("transport_1_rating")
	if !ok || owner.ID != "transport_1" || !field.HasOptions() || field.IsMulti() {
		t.Fatalf("unexpected lookup: field=%+v owner=%s ok=%v", field, owner.ID, ok)
	}

	var ids []string
	for _, f := range q.Fields() {
		ids = append(ids, f.ID)
	}
	want := []string{"your_name", "hotel_1_name", "transport_1_rating", "transport_add"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if got := len(q.SectionsInGroup(model.GroupHotel)); got != 1 {
		t.Fatalf("expected one hotel section, got %d", got)
	}

	action, ok := q.FindAction(model.ActionAddTransport)
	if !ok || action.ID != "transport_add" || !action.IsAction() {
		t.Fatalf("add_transport action not found: %+v", action)
	}
	if _, ok := q.FindAction("launch"); ok {
		t.Fatalf("unknown action should not resolve")
	}
}
