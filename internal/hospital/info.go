// Package hospital holds the static hospital information served by the
// API and the default knowledge base behind the reasoning pipeline.
package hospital

import (
	"github.com/carebridge-ai/hospital-chatbot/internal/reasoning"
)

// Info is the static hospital profile returned by GET /hospital-info.
var Info = map[string]string{
	"name":    "CareBridge General Hospital",
	"address": "12 Corniche Road, Health District",
	"phone":   "+1-555-0142",
	"email":   "info@carebridge-hospital.example",
	"hours":   "Open 24 hours for emergencies; outpatient clinics 8am-8pm",
}

// Services lists the departments patients most often ask about.
var Services = []string{
	"Emergency Care",
	"Cardiology",
	"Pediatrics",
	"Obstetrics & Gynecology",
	"Orthopedics",
	"Radiology & Imaging",
	"Laboratory Services",
	"Outpatient Clinics",
	"Pharmacy",
}

// PopularQuestions seeds the quick-reply suggestions in the chat UI.
var PopularQuestions = []string{
	"What are visiting hours?",
	"How do I book an appointment?",
	"Where is the emergency department?",
	"Do you accept my insurance?",
}

// KnowledgeBase returns the documents retrieved by the reasoning pipeline
// when FAQ tiers miss.
func KnowledgeBase() []reasoning.Document {
	return []reasoning.Document{
		{
			Source: "visiting-policy",
			Content: "Visiting hours are 9am to 5pm daily. Intensive care units allow two " +
				"visitors at a time and children under 12 must be accompanied by an adult.",
		},
		{
			Source: "appointments",
			Content: "Outpatient appointments can be booked by phone or at the reception desk. " +
				"Bring a referral letter if your insurance requires one. Cancellations need 24 hours notice.",
		},
		{
			Source: "emergency-department",
			Content: "The emergency department is on the ground floor, east wing, open 24 hours. " +
				"Triage prioritizes by severity, not arrival order.",
		},
		{
			Source: "insurance-billing",
			Content: "Most major insurance plans are accepted. Billing inquiries are handled at the " +
				"finance office next to the main lobby, weekdays 8am to 4pm.",
		},
		{
			Source: "pharmacy-services",
			Content: "The hospital pharmacy is beside the outpatient clinics and dispenses " +
				"prescriptions daily from 8am to 10pm. Emergency prescriptions are available around the clock.",
		},
		{
			Source: "laboratory-tests",
			Content: "Laboratory samples are collected from 7am. Routine results are ready the same " +
				"day; specialized tests may take up to one week.",
		},
	}
}
