package schema_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/overlay"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
)

var (
	prologueIDs = []string{
		"introduction",
		"your_details",
		"overall_experience",
		"overall_experience_comments",
		"tour_itinerary",
		"tour_specifics_accommodation_intro",
	}
	epilogueIDs = []string{
		"equipment_optional_activities",
		"tour_staff",
		"trip_literature",
		"sustainability",
		"your_group",
		"general",
	}
)

func sectionIDs(q model.Questionnaire) []string {
	ids := make([]string, 0, len(q.Sections))
	for _, section := range q.Sections {
		ids = append(ids, section.ID)
	}
	return ids
}

func expectedIDs(hotels, transports int) []string {
	ids := append([]string(nil), prologueIDs...)
	for n := 1; n <= hotels; n++ {
		ids = append(ids, fmt.Sprintf("hotel_%d", n))
	}
	for n := 1; n <= transports; n++ {
		ids = append(ids, fmt.Sprintf("transport_%d", n))
	}
	return append(ids, epilogueIDs...)
}

func TestBuild_SectionOrderForEveryCount(t *testing.T) {
	for hotels := 1; hotels <= schema.MaxHotels; hotels++ {
		for _, transports := range []int{1, 4, schema.MaxTransports} {
			q := schema.Build(schema.Counts{Hotels: hotels, Transports: transports})
			if diff := cmp.Diff(expectedIDs(hotels, transports), sectionIDs(q)); diff != "" {
				t.Fatalf("hotels=%d transports=%d mismatch (-want +got):\n%s", hotels, transports, diff)
			}
		}
	}
}

func TestBuildFrom_TourNightsDrivesHotelSections(t *testing.T) {
	store := answers.New()
	store.Set(schema.NightsField, "3")

	q := schema.BuildFrom(store)
	hotels := q.SectionsInGroup(model.GroupHotel)
	if len(hotels) != 3 {
		t.Fatalf("expected 3 hotel sections, got %d", len(hotels))
	}
	for i, section := range hotels {
		wantID := fmt.Sprintf("hotel_%d", i+1)
		if section.ID != wantID || section.Index != i+1 {
			t.Fatalf("hotel section %d: got id=%s index=%d", i, section.ID, section.Index)
		}
		if section.NameField != wantID+"_name" {
			t.Fatalf("unexpected name field %q", section.NameField)
		}
	}
}

func TestResolveCount(t *testing.T) {
	cases := []struct {
		raw  string
		max  int
		want int
	}{
		{raw: "", max: 30, want: 1},
		{raw: "abc", max: 30, want: 1},
		{raw: "0", max: 30, want: 1},
		{raw: "-2", max: 30, want: 1},
		{raw: "5", max: 30, want: 5},
		{raw: " 7 nights", max: 30, want: 7},
		{raw: "3.9", max: 30, want: 3},
		{raw: "+4", max: 10, want: 4},
		{raw: "99", max: 30, want: 30},
		{raw: "11", max: 10, want: 10},
		{raw: "99999999999999999999999", max: 10, want: 10},
	}
	for _, tc := range cases {
		if got := schema.ResolveCount(tc.raw, tc.max); got != tc.want {
			t.Errorf("ResolveCount(%q, %d) = %d, want %d", tc.raw, tc.max, got, tc.want)
		}
	}
}

func TestCountsFromDoesNotRewriteStoredValues(t *testing.T) {
	store := answers.New()
	store.Set(schema.NightsField, "99")
	store.Set(schema.TransportCountField, "abc")

	counts := schema.CountsFrom(store)
	if diff := cmp.Diff(schema.Counts{Hotels: 30, Transports: 1}, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if got := store.Text(schema.NightsField); got != "99" {
		t.Fatalf("stored nights rewritten to %q", got)
	}
	if got := store.Text(schema.TransportCountField); got != "abc" {
		t.Fatalf("stored transport count rewritten to %q", got)
	}
}

func TestBuild_AddTransportActionOnlyOnLastTransport(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 1, Transports: 3})
	transports := q.SectionsInGroup(model.GroupTransport)
	if len(transports) != 3 {
		t.Fatalf("expected 3 transport sections, got %d", len(transports))
	}

	actions := 0
	for _, field := range q.Fields() {
		if field.IsAction() {
			actions++
		}
	}
	if actions != 1 {
		t.Fatalf("expected exactly one action field, got %d", actions)
	}

	last := transports[len(transports)-1]
	tail := last.Fields[len(last.Fields)-1]
	if tail.ID != schema.AddTransportFieldID || tail.Action != model.ActionAddTransport {
		t.Fatalf("last transport section should end with the add action, got %#v", tail)
	}

	field, ok := q.FindAction(model.ActionAddTransport)
	if !ok || field.ID != schema.AddTransportFieldID {
		t.Fatalf("FindAction did not locate the add-transport field")
	}
}

func TestBuild_IsDeterministicAndFresh(t *testing.T) {
	counts := schema.Counts{Hotels: 4, Transports: 2}
	first := schema.Build(counts)
	second := schema.Build(counts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("builds differ (-first +second):\n%s", diff)
	}

	first.Sections[0].Fields[0].Label = "mutated"
	third := schema.Build(counts)
	if third.Sections[0].Fields[0].Label == "mutated" {
		t.Fatalf("build shares descriptors between calls")
	}
}

func TestBuild_FieldIDsAreUnique(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: schema.MaxHotels, Transports: schema.MaxTransports})
	seen := make(map[string]bool)
	for _, field := range q.Fields() {
		if seen[field.ID] {
			t.Fatalf("duplicate field id %q", field.ID)
		}
		seen[field.ID] = true
	}
}

func TestBuild_GrowingTransportsKeepsEarlierIDs(t *testing.T) {
	before := schema.Build(schema.Counts{Hotels: 2, Transports: 2})
	after := schema.Build(schema.Counts{Hotels: 2, Transports: 3})

	for _, field := range before.Fields() {
		if field.IsAction() {
			continue
		}
		if _, _, ok := after.Field(field.ID); !ok {
			t.Fatalf("field %q disappeared after growing transports", field.ID)
		}
	}
}

func TestBuild_CommentCompanionsAreOptional(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 1, Transports: 1})
	field, _, ok := q.Field("hotel_1_fire_exits_comments")
	if !ok {
		t.Fatalf("comment companion missing")
	}
	if !field.Optional {
		t.Fatalf("comment companion should be declared optional")
	}

	notes, _, ok := q.Field("intro_notes")
	if !ok || notes.Optional {
		t.Fatalf("intro_notes should stay required, got %#v", notes)
	}
}

func TestBuild_TourCodesAndNightsHints(t *testing.T) {
	q := schema.Build(schema.Counts{}, schema.WithTourCodes([]string{" EGT ", "", "PRU"}))

	code, _, ok := q.Field("tour_code")
	if !ok {
		t.Fatalf("tour_code missing")
	}
	if diff := cmp.Diff([]string{"EGT", "PRU"}, code.Options); diff != "" {
		t.Fatalf("tour codes mismatch (-want +got):\n%s", diff)
	}

	nights, _, _ := q.Field(schema.NightsField)
	want := map[string]string{model.HintMin: "1", model.HintMax: "30", model.HintStep: "1"}
	if diff := cmp.Diff(want, nights.UIHints); diff != "" {
		t.Fatalf("nights hints mismatch (-want +got):\n%s", diff)
	}

	defaults := schema.Build(schema.Counts{}, schema.WithTourCodes(nil))
	code, _, _ = defaults.Field("tour_code")
	if diff := cmp.Diff(schema.DefaultTourCodes, code.Options); diff != "" {
		t.Fatalf("default tour codes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_AppliesOverlay(t *testing.T) {
	store, err := overlay.Parse([]byte(`
sections:
  "hotel_{n}":
    title: "Stay {n}"
fields:
  "hotel_{n}_rating":
    label: "Rate stay {n}"
  intro_notes:
    optional: true
  transport_add:
    optional: true
`), "test.yaml")
	if err != nil {
		t.Fatalf("parse overlay: %v", err)
	}

	q := schema.Build(schema.Counts{Hotels: 2, Transports: 1}, schema.WithOverlay(store))

	section, _ := q.Section("hotel_2")
	if section.Title != "Stay 2" {
		t.Fatalf("expected expanded title, got %q", section.Title)
	}
	rating, _, _ := q.Field("hotel_2_rating")
	if rating.Label != "Rate stay 2" {
		t.Fatalf("expected expanded label, got %q", rating.Label)
	}
	notes, _, _ := q.Field("intro_notes")
	if !notes.Optional {
		t.Fatalf("overlay should mark intro_notes optional")
	}
	action, _, _ := q.Field(schema.AddTransportFieldID)
	if action.Optional {
		t.Fatalf("overlay must not touch action fields")
	}
	if diff := cmp.Diff(expectedIDs(2, 1), sectionIDs(q)); diff != "" {
		t.Fatalf("overlay changed the section ids (-want +got):\n%s", diff)
	}
}

func TestDisplayTitle(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 2, Transports: 1})
	hotel, _ := q.Section("hotel_1")

	store := answers.New()
	if got := schema.DisplayTitle(hotel, store); got != "Hotel 1" {
		t.Fatalf("expected static title, got %q", got)
	}

	store.Set("hotel_1_name", "  Grand Palace ")
	if got := schema.DisplayTitle(hotel, store); got != "Grand Palace" {
		t.Fatalf("expected entered name, got %q", got)
	}

	store.Set("hotel_1_name", "")
	if got := schema.DisplayTitle(hotel, store); got != "Hotel 1" {
		t.Fatalf("expected title to revert, got %q", got)
	}
}

func TestSectionForNameField(t *testing.T) {
	id, ok := schema.SectionForNameField("hotel_4_name")
	if !ok || id != "hotel_4" {
		t.Fatalf("got %q ok=%v", id, ok)
	}
	if _, ok := schema.SectionForNameField("hotel_4_rating"); ok {
		t.Fatalf("non-name field should not resolve")
	}
}

func TestNextTransportCount(t *testing.T) {
	store := answers.New()
	store.Set(schema.TransportCountField, "1")

	next, ok := schema.NextTransportCount(store)
	if !ok || next != 2 {
		t.Fatalf("expected 2, got %d ok=%v", next, ok)
	}

	store.Set(schema.TransportCountField, "10")
	next, ok = schema.NextTransportCount(store)
	if ok || next != 10 {
		t.Fatalf("expected capped 10, got %d ok=%v", next, ok)
	}
}
