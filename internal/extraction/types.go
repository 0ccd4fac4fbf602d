// Package extraction defines the anonymized extracted-CV data object, its
// validation rules, and the AI collaborator client that produces it.
package extraction

import (
	"fmt"
	"strings"
)

// CurrentMissionMarker is the literal end-date of an ongoing mission.
const CurrentMissionMarker = "Actuellement"

// HeaderBlock is the anonymized header of a CV.
type HeaderBlock struct {
	Trigram           string `json:"trigram" validate:"omitempty,trigram"`
	Title             string `json:"title"`
	CommercialContact bool   `json:"commercial_contact"`
}

// FooterBlock is the footer content of a CV.
type FooterBlock struct {
	Text string `json:"text"`
}

// SkillGroup is one skills subcategory. Items is a single comma-joined
// string, not a list of separate entries.
type SkillGroup struct {
	Subcategory string `json:"subcategory"`
	Items       string `json:"items"`
}

// ItemList splits the comma-joined items into trimmed entries.
func (g SkillGroup) ItemList() []string {
	var out []string
	for _, item := range strings.Split(g.Items, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// EducationEntry is one education record.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Location    string `json:"location"`
}

// Mission is one professional experience entry. Dates are MM/YYYY, or the
// literal "Actuellement" for an ongoing mission's end date.
type Mission struct {
	Client       string   `json:"client"`
	StartDate    string   `json:"start_date" validate:"omitempty,missiondate"`
	EndDate      string   `json:"end_date" validate:"omitempty,missiondate"`
	Role         string   `json:"role"`
	Location     string   `json:"location"`
	Context      string   `json:"context"`
	Achievements []string `json:"achievements"`
	Environment  []string `json:"environment"`
}

// Period renders the mission's date range.
func (m Mission) Period() string {
	switch {
	case m.StartDate == "" && m.EndDate == "":
		return ""
	case m.EndDate == "":
		return m.StartDate
	default:
		return fmt.Sprintf("%s - %s", m.StartDate, m.EndDate)
	}
}

// ExtractedCV is the anonymized data object produced by the AI extraction
// collaborator. It never contains the candidate's name, email, phone,
// address or personal links; anonymization is a required transform applied
// before the object is considered valid. Once a document is marked
// processed the object is immutable.
type ExtractedCV struct {
	Header          HeaderBlock      `json:"header"`
	Footer          FooterBlock      `json:"footer"`
	YearsExperience int              `json:"years_experience"`
	Skills          []SkillGroup     `json:"skills"`
	Languages       []string         `json:"languages"`
	Certifications  []string         `json:"certifications"`
	Education       []EducationEntry `json:"education" validate:"dive"`
	Missions        []Mission        `json:"missions" validate:"dive"`
}
