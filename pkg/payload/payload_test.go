package payload_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/schema"
	"github.com/goliatone/go-tripsurvey/pkg/testsupport"
)

func TestFlattenIsTotal(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 2, Transports: 2})
	record := payload.Flatten(q, answers.New())

	columns := payload.Columns(q)
	if len(record) != len(columns) {
		t.Fatalf("record has %d keys, questionnaire has %d non-action fields", len(record), len(columns))
	}
	for _, id := range columns {
		value, ok := record[id]
		if !ok {
			t.Fatalf("missing column %q", id)
		}
		if value != "" {
			t.Fatalf("unanswered column %q should be empty, got %q", id, value)
		}
	}
	if _, ok := record[schema.AddTransportFieldID]; ok {
		t.Fatalf("action field must not be flattened")
	}
}

func TestFlattenValues(t *testing.T) {
	q := schema.Build(schema.Counts{Hotels: 1, Transports: 1})
	store := answers.New()
	store.Set("your_name", "Sam")
	store.Toggle("plastic_bottles_actions", "Used refill app", true)
	store.Toggle("plastic_bottles_actions", "Large refill bottle on bus", true)
	store.Set("hotel_5_name", "Out of range")

	record := payload.Flatten(q, store)
	if got := record["your_name"]; got != "Sam" {
		t.Fatalf("scalar mismatch: %q", got)
	}
	if got := record["plastic_bottles_actions"]; got != "Used refill app; Large refill bottle on bus" {
		t.Fatalf("multi-value mismatch: %q", got)
	}
	if _, ok := record["hotel_5_name"]; ok {
		t.Fatalf("answers outside the questionnaire must not be emitted")
	}
}

func TestRouterResolve(t *testing.T) {
	router := payload.NewRouter("", nil)
	cases := []struct {
		name    string
		choice  string
		other   string
		want    string
		wantErr error
	}{
		{name: "none", wantErr: payload.ErrRecipientMissing},
		{name: "listed", choice: "pm@explore.co.uk", want: "pm@explore.co.uk"},
		{name: "other blank", choice: "other", other: "  ", wantErr: payload.ErrRecipientMissing},
		{name: "other valid", choice: "other", other: " Jo.Bloggs@Explore.CO.UK ", want: "Jo.Bloggs@Explore.CO.UK"},
		{name: "other invalid", choice: "other", other: "jo@example.com", wantErr: payload.ErrRecipientInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := router.Resolve(tc.choice, tc.other)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("resolved = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRouterCustomSuffix(t *testing.T) {
	router := payload.NewRouter("@example.org", []payload.Recipient{{Name: "Ops", Email: "ops@example.org"}})
	if _, err := router.Resolve("other", "x@explore.co.uk"); !errors.Is(err, payload.ErrRecipientInvalid) {
		t.Fatalf("expected invalid for default domain, got %v", err)
	}
	if !router.Known("OPS@example.org") {
		t.Fatalf("configured recipient should be known")
	}
	if got := router.Recipients[0].Label(); got != "Ops <ops@example.org>" {
		t.Fatalf("label mismatch: %q", got)
	}
}

func TestNewEnvelope(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.FixedZone("BST", 3600))
	record := payload.Record{"your_name": "Sam"}

	envelope := payload.NewEnvelope("id-1", at, record, "other", "sam@explore.co.uk", true)

	raw, err := envelope.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := map[string]any{
		"submission_id": "id-1",
		"submitted_at":  "2024-05-01T09:30:00.123Z",
		"data": map[string]any{
			"your_name": "Sam",
			"pm_choice": "other",
			"pm_email":  "sam@explore.co.uk",
		},
		"is_final": true,
		"pm_email": "sam@explore.co.uk",
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}
	if _, ok := record["pm_choice"]; ok {
		t.Fatalf("NewEnvelope must not mutate the input record")
	}
}

func TestFlattenFixture(t *testing.T) {
	store := testsupport.LoadAnswers(t, "testdata/partial_trip.json")
	q := schema.BuildFrom(store)
	record := payload.Flatten(q, store)

	want := map[string]string{
		"your_name":               "Sam Okafor",
		"hotel_1_name":            "Riad Dar Anika",
		"hotel_2_name":            "Kasbah Tamadot",
		"plastic_bottles_actions": "Used refill app; Large refill bottle on bus",
	}
	got := make(map[string]string, len(want))
	for id := range want {
		got[id] = record[id]
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fixture record mismatch (-want +got):\n%s", diff)
	}
	if _, ok := record["hotel_4_name"]; ok {
		t.Fatalf("hotel_4_name is outside a two-hotel questionnaire")
	}
	if len(q.SectionsInGroup("transport")) != 2 {
		t.Fatalf("transport_count fixture should yield two transport sections")
	}
}
