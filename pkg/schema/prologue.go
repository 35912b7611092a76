package schema

import (
	"strconv"

	"github.com/goliatone/go-tripsurvey/pkg/model"
)

func prologue(cfg config) []model.Section {
	return []model.Section{
		{
			ID:          "introduction",
			Title:       "Introduction",
			Description: "Welcome to your BTY Report!",
			Fields: []model.Field{
				choice("intro_ack", "I have read the introduction and understand the guidance", Acknowledge),
				{
					ID:          "intro_notes",
					Label:       "Notes",
					Kind:        model.FieldKindLongText,
					Placeholder: "Optional notes about the introduction",
				},
			},
		},
		{
			ID:          "your_details",
			Title:       "Your details",
			Description: "Tell us about you and your tour.",
			Fields: []model.Field{
				text("your_name", "Your name"),
				selectOne("tour_code", "Tour code", cfg.tourCodes),
				{ID: "tour_start_date", Label: "Tour start date", Kind: model.FieldKindDate},
				{
					ID:          NightsField,
					Label:       "Tour length (nights)",
					Kind:        model.FieldKindNumber,
					Placeholder: "e.g. 7",
					UIHints: map[string]string{
						model.HintMin:  "1",
						model.HintMax:  strconv.Itoa(MaxHotels),
						model.HintStep: "1",
					},
				},
			},
		},
		{
			ID:          "overall_experience",
			Title:       "Overall tour experience",
			Description: "How was the trip overall?",
			Fields:      []model.Field{rating("overall_rating", "Overall experience")},
		},
		{
			ID:          "overall_experience_comments",
			Title:       "Overall experience comments",
			Description: "Tell us what you thought of the experience overall.",
			Fields:      []model.Field{comments("overall_comments", "Comments")},
		},
		{
			ID:          "tour_itinerary",
			Title:       "Tour itinerary",
			Description: "Itinerary feedback and accuracy.",
			Fields: []model.Field{
				rating("itinerary_rating", "Itinerary overall"),
				longText("itinerary_as_per_notes", "Did the itinerary run as per the trip notes? If not, tell us on which day(s) it differed and how it actually ran"),
				longText("itinerary_improvements", "What worked? What could be improved? Should we spend more or less time in any locations? Do we need to review the inclusions?"),
				longText("travel_hours", "Approximation of the number of hours spent travelling each day"),
				longText("trip_highlights", "Trip highlights and once-in-a-lifetime moments"),
				longText("below_expectations", "Elements that fell below expectations"),
				longText("leader_itinerary_changes", "Did your tour leader mention any changes to improve the tour?"),
				longText("pace_grading", "Was the trip pace grading accurate? If walking/cycling, was the grade accurate? If not, tell us why"),
			},
		},
		{
			ID:          "tour_specifics_accommodation_intro",
			Title:       "Tour specifics: accommodation overview",
			Description: "Hotel sections below are based on the tour length (nights).",
			Fields: []model.Field{
				longText("accommodation_impression", "Overall impression of the accommodation. Was it in line with expectations based on trip notes?"),
			},
		},
	}
}
