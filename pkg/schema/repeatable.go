package schema

import (
	"fmt"

	"github.com/goliatone/go-tripsurvey/pkg/model"
)

// AddTransportFieldID is the action field appended to the last transport
// section.
const AddTransportFieldID = "transport_add"

// HotelSectionID returns the id of the n-th hotel section (1-based).
func HotelSectionID(n int) string {
	return fmt.Sprintf("%s_%d", model.GroupHotel, n)
}

// TransportSectionID returns the id of the n-th transport section (1-based).
func TransportSectionID(n int) string {
	return fmt.Sprintf("%s_%d", model.GroupTransport, n)
}

// NameFieldID returns the id of the field naming a repeatable section.
func NameFieldID(sectionID string) string {
	return sectionID + "_name"
}

func hotelSection(n int) model.Section {
	prefix := HotelSectionID(n)
	id := func(suffix string) string { return prefix + "_" + suffix }

	return model.Section{
		ID:          prefix,
		Title:       fmt.Sprintf("Hotel %d", n),
		Description: "Please provide detailed feedback for this hotel.",
		Group:       model.GroupHotel,
		Index:       n,
		NameField:   NameFieldID(prefix),
		Fields: fields(
			text(NameFieldID(prefix), "Hotel name"),
			text(id("location"), "Hotel location"),
			rating(id("rating"), "How would you rate this hotel?"),
			longText(id("comfort_grading"), "Was the comfort grading accurate based on your experience?"),
			longText(id("details"), "Tell us as much information as possible – facilities, food provision, room comfort, room facilities, air con/fans, pool, laundry service etc."),
			yesNoWithComments(id("safety_briefing"), "Did your tour leader brief you on safety and what to do in the event of an emergency?"),
			yesNo(id("evac_plan"), "Was there an emergency evacuation plan in your room?"),
			yesNo(id("smoke_detector"), "Was there a working smoke detector in your room or hallway?"),
			yesNoWithComments(id("fire_exits"), "Were fire exits clearly marked and free from obstruction?"),
			yesNoWithComments(id("fire_extinguishers"), "Were there fire extinguishers - where?"),
			yesNoWithComments(id("alarm_points"), "Were there alarm activation points - where?"),
			yesNo(id("emergency_lighting"), "Was there emergency lighting in corridors?"),
			yesNoWithComments(id("safety_equipment"), "Did you see any fire safety equipment such as extinguishers, alarm points or signage?"),
			longText(id("stories_staircases"), "How many stories were there including ground floor, and how many staircases?"),
			yesNoWithComments(id("second_staircase"), "If more than 3 stories, was there a second staircase as well as the main staircase?"),
			yesNoWithComments(id("gas_appliances"), "Were there any gas appliances or gas water heaters in your room?"),
			yesNoNA(id("pool_depth_markings"), "If there was a swimming pool, did it have depth markings?"),
			yesNoWithComments(id("pool_rules"), "Were pool rules clearly displayed?"),
			yesNoWithComments(id("pool_rules_and_markings"), "If there was a swimming pool, did it have depth markings and were the pool rules clearly displayed?"),
		),
	}
}

func transportSection(n int, last bool) model.Section {
	prefix := TransportSectionID(n)
	id := func(suffix string) string { return prefix + "_" + suffix }

	section := model.Section{
		ID:          prefix,
		Title:       fmt.Sprintf("Transport %d", n),
		Description: "Please repeat for each transport type used.",
		Group:       model.GroupTransport,
		Index:       n,
		Fields: fields(
			text(id("type"), "Transport type (e.g. 12-seater minibus, 50-seater coach, speedboat, large ferry)"),
			longText(id("days_used"), "Which day(s) was it used?"),
			longText(id("primary_vehicle"), "Describe the primary vehicle used for your tour"),
			yesNoWithComments(id("clean_comfortable"), "Was it clean, comfortable and was there sufficient space?"),
			yesNoWithComments(id("condition_safe"), "Did it seem to be in good condition and feel safe?"),
			longText(id("luggage_storage"), "Where was luggage stored (main luggage and day packs)?"),
			yesNoWithComments(id("seatbelts"), "For vehicles - were there working seatbelts on all seats?"),
			yesNoWithComments(id("seatbelt_reminder"), "Did your tour leader remind you to use the seatbelts?"),
			yesNoWithComments(id("driver_safety"), "Did you have any concerns about the safety of the driver (speeding or phone use)?"),
			longText(id("additional_vehicles"), "List any additional vehicles used for included or optional activities, days used, and safety concerns"),
			longText(id("vessels"), "List all vessels used for included or optional activities and indicate day(s) used"),
			yesNoWithComments(id("vessel_emergency_brief"), "For vessels - did the tour leader brief you on what to do in an emergency?"),
			yesNoWithComments(id("lifejackets"), "Was the location of lifejackets highlighted and were they accessible?"),
			yesNoWithComments(id("lifejacket_recommend"), "Did your tour leader recommend that you wear a lifejacket?"),
		),
	}

	if last {
		section.Fields = append(section.Fields, model.Field{
			ID:     AddTransportFieldID,
			Label:  "Add another transport",
			Kind:   model.FieldKindAction,
			Action: model.ActionAddTransport,
		})
	}
	return section
}
