package schema

import "github.com/goliatone/go-tripsurvey/pkg/model"

func epilogue() []model.Section {
	return []model.Section{
		{
			ID:          "equipment_optional_activities",
			Title:       "Equipment and optional activities",
			Description: "Feedback on equipment and optional activities.",
			Fields: fields(
				longText("equipment_feedback", "Tell us about equipment used (bikes, tents, camping equipment). Was it in good condition, clean, safe?"),
				longText("optional_activities_offered", "Did your tour leader offer all optional activities listed in the trip notes? If not, which ones didn’t they offer?"),
				longText("optional_activity_prices", "Were the guideline prices for optional activities accurate? If not, what needs amending?"),
				longText("optional_activities_not_listed", "Did your tour leader offer optional activities not listed in the trip notes? If yes, details"),
				yesNoWithComments("optional_activities_taken", "Did you go on any optional activities? Did you pay the tour leader or local supplier?"),
				yesNoWithComments("waiver_forms", "Did you have to sign any waiver forms? If yes, for which activities"),
				yesNoWithComments("safety_briefings", "Did you receive safety briefings for all activities including swimming, snorkelling, walking/trekking and cycling?"),
				longText("safety_concerns", "Did you observe any safety concerns on the tour or did group members mention any? Please give details"),
				longText("meals_included", "What were the included meals like on your trip?"),
				longText("meals_suggested", "Where meals weren’t included, did your tour leader suggest and organise group meals?"),
				longText("restaurants", "What types of restaurants did your tour leader take you to? Authentic or touristy? Local food/drink specialities?"),
			),
		},
		{
			ID:          "tour_staff",
			Title:       "Tour staff",
			Description: "Feedback on tour leader and local staff.",
			Fields: []model.Field{
				text("tour_leader", "Who was your tour leader?"),
				rating("leader_communication", "Tour leader communication"),
				rating("leader_local_knowledge", "Tour leader local knowledge"),
				rating("leader_organisation", "Tour leader organisation"),
				rating("leader_friendliness", "Tour leader friendliness and approachability"),
				longText("leader_impression", "Overall impression of your tour leader"),
				longText("leader_group_feedback", "What did your group members think of your tour leader?"),
				longText("local_staff", "If there were any other local staff (drivers, trekking staff, bike mechanic etc.), what did you think?"),
				longText("branded_items", "Did your tour leader wear or carry any branded items?"),
			},
		},
		{
			ID:          "trip_literature",
			Title:       "Trip literature",
			Description: "Trip notes accuracy and content.",
			Fields: []model.Field{
				rating("trip_notes_accuracy", "Accuracy of the trip notes"),
				longText("trip_notes_updates", "Anything we need to update, add or remove from any section of the trip notes"),
				longText("trip_notes_emphasise", "Elements to emphasise more in trip literature (positive or negative)"),
				longText("trip_notes_play_down", "Elements to play down in trip literature"),
				longText("trip_images", "Do we have the best images on the website? Should any be removed or added?"),
				text("cost_lunch", "Cost of lunch (GBP, USD or AUD)"),
				text("cost_dinner", "Cost of dinner (GBP, USD or AUD)"),
				longText("money_advice", "Advice about money (ATMs, credit cards, currency to take cash in)"),
				longText("tipping_kitty", "Did the tour leader organise a tipping kitty? Was the amount as per trip notes? Was it well managed?"),
				longText("packing_list", "Was the packing list accurate or could it be improved?"),
			},
		},
		{
			ID:          "sustainability",
			Title:       "Sustainability",
			Description: "Impact on destinations and sustainability practices.",
			Fields: fields(
				rating("sustain_protecting_environment", "Protecting the environment"),
				rating("sustain_minimising_waste", "Minimising waste"),
				rating("sustain_local_communities", "Connecting with local communities"),
				rating("sustain_local_economy", "Contributing to the local economy"),
				longText("sustain_what_worked", "What did we do well (local interactions, waste-free picnics, local stores, off-peak visits, avoid single-use items)?"),
				longText("sustain_improvements", "Ideas about what we can do better or suggestions from the tour leader"),
				yesNoNA("animal_policy_explained", "Did your tour leader explain Explore’s Animal Protection Policy?"),
				yesNo("animal_policy_compliance", "Did wildlife experiences comply with the animal protection policy?"),
				longText("animal_policy_details", "If no, please provide details"),
				multiChoice("plastic_bottles_actions", "How did your tour leader help minimise single-use plastic water bottles during the trip?", []string{
					"Large refill bottle on bus",
					"Pointed out refill points during the day",
					"Used refill app",
					"Didn’t mention it",
				}),
				yesNo("plastic_bottles_provided", "Did they provide single-use plastic bottles?"),
				longText("carbon_reduction", "Ways to reduce carbon emissions (e.g. switch minibus transfers for trains)"),
				yesNoWithComments("foundation_initiatives",
					"Did you see any initiatives the Explore Foundation may want to support?",
					"If yes, provide the name, contact details and a short description"),
			),
		},
		{
			ID:          "your_group",
			Title:       "Your group",
			Description: "Feedback on the group composition and dynamics.",
			Fields: []model.Field{
				selectOne("group_size", "How many customers were in your group?", numberedOptions(1, 40)),
				longText("group_makeup", "Makeup of the group – ages, nationalities, sex, solos/couples/larger parties? Did the group gel well?"),
				longText("repeat_travelers", "How many times had people travelled with Explore previously and why did they choose Explore for this tour?"),
				longText("competitor_mentions", "Did anyone mention why they haven’t travelled with Explore or chose a competitor?"),
				longText("likely_complaints", "Are we likely to receive complaints? What is the issue and is it valid?"),
				longText("customer_relations", "Anything Customer Relations should be aware of regarding group members?"),
				longText("mobility_unsuitable", "Would this tour be unsuitable for customers with mobility issues or certain conditions (vertigo, claustrophobia)?"),
				longText("dietary_unsuitable", "Would this tour be unsuitable for customers who are vegetarian, vegan, gluten-free or lactose-free?"),
			},
		},
		{
			ID:          "general",
			Title:       "General",
			Description: "Any final feedback or observations.",
			Fields: []model.Field{
				longText("competitors_seen", "Did you come across any competitors? Details on group size, branding, transport, local staff, hotels, activities"),
				longText("bty_process_improvements", "Suggestions to improve the BTY trip process"),
				longText("other_feedback", "Any other feedback or observations to add"),
				choice("closing_ack", "Acknowledgement: I understand a copy will be sent to the listed recipients and I should forward it to the Product Manager and line manager", Acknowledge),
			},
		},
	}
}
