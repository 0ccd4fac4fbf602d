package analyzer

import (
	"regexp"
	"strings"

	"github.com/mathieu/cvforge/internal/docx"
	"github.com/mathieu/cvforge/internal/structure"
)

// sectionState is the sticky classification context. Transitions happen only
// on section-title paragraphs.
type sectionState int

const (
	stateNone sectionState = iota
	stateSkills
	stateExperience
	stateEducation
)

func (s sectionState) String() string {
	switch s {
	case stateSkills:
		return "skills"
	case stateExperience:
		return "experience"
	case stateEducation:
		return "education"
	default:
		return "no-section"
	}
}

// SectionKind identifies which data list a section maps to.
type SectionKind int

const (
	// KindOtherSection is a section with no list semantics (e.g. profile).
	KindOtherSection SectionKind = iota
	// KindSkills is a skills section.
	KindSkills
	// KindExperience is an experience/missions section.
	KindExperience
	// KindEducation is an education section.
	KindEducation
)

// Section name keywords, matched against the uppercased paragraph text.
// French first, English synonyms after.
var sectionKeywords = []struct {
	Kind     SectionKind
	Keywords []string
}{
	{KindSkills, []string{"COMPÉTENCE", "COMPETENCE", "SKILLS", "SAVOIR"}},
	{KindExperience, []string{"EXPÉRIENCE", "EXPERIENCE", "MISSIONS", "PARCOURS"}},
	{KindEducation, []string{"FORMATION", "ÉDUCATION", "EDUCATION", "DIPLÔME", "DIPLOME", "ÉTUDES", "ETUDES"}},
	{KindOtherSection, []string{"PROFIL", "PROFILE", "SUMMARY", "RÉSUMÉ"}},
}

// MatchSectionKind reports whether text names a section, and which kind.
func MatchSectionKind(text string) (SectionKind, bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return KindOtherSection, false
	}
	for _, group := range sectionKeywords {
		for _, kw := range group.Keywords {
			if strings.Contains(upper, kw) {
				return group.Kind, true
			}
		}
	}
	return KindOtherSection, false
}

var trigramPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsTrigram reports whether text is exactly three uppercase letters.
func IsTrigram(text string) bool {
	return trigramPattern.MatchString(strings.TrimSpace(text))
}

// paragraphContext is everything a classification rule may inspect for one
// body paragraph.
type paragraphContext struct {
	Para  *docx.Paragraph
	Text  string
	Run   *docx.Run
	Token structure.StyleToken
	Desc  structure.ParagraphDescriptor
}

// rule is one entry of the ordered first-match-wins cascade. Matches must be
// side-effect free; Apply mutates the walk state and the model under
// construction.
type rule struct {
	Name    string
	Matches func(w *walk, pc *paragraphContext) bool
	Apply   func(w *walk, pc *paragraphContext)
}

var skillsLabelKeywords = []string{"technique", "outils", "langues"}

// environmentKeywords trigger capture of the following paragraph's style.
var environmentKeywords = []string{"environnement", "technologie"}

func containsAnyFold(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// classificationRules is the ordered rule list applied to each body
// paragraph. Order matters: the first matching rule wins and no later rule
// is considered for that paragraph.
var classificationRules = []rule{
	{
		Name: "trigram",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return IsTrigram(pc.Text)
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleTrigram, pc, "")
		},
	},
	{
		Name: "section-title",
		Matches: func(w *walk, pc *paragraphContext) bool {
			_, ok := MatchSectionKind(pc.Text)
			return ok
		},
		Apply: func(w *walk, pc *paragraphContext) {
			kind, _ := MatchSectionKind(pc.Text)
			w.enterSection(kind, pc)
		},
	},
	{
		Name: "mission-title",
		Matches: func(w *walk, pc *paragraphContext) bool {
			n := len([]rune(pc.Text))
			return w.state == stateExperience && pc.Token.Bold && n >= 4 && n <= 99
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleMissionTitle, pc, "")
		},
	},
	{
		// Any italic or hyphenated paragraph is context, in any section.
		// Downstream consumers depend on the breadth; do not scope it to
		// experience sections.
		Name: "mission-context",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return pc.Token.Italic || strings.Contains(pc.Text, "-")
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleMissionContext, pc, "")
		},
	},
	{
		Name: "environment-label",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return containsAnyFold(pc.Text, environmentKeywords)
		},
		Apply: func(w *walk, pc *paragraphContext) {
			// The label line itself keeps its role; the NEXT paragraph's
			// style becomes the environment style.
			w.pendingEnvironment = true
		},
	},
	{
		Name: "skills-label",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return w.state == stateSkills &&
				(pc.Token.Bold || containsAnyFold(pc.Text, skillsLabelKeywords))
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleSkillsLabel, pc, "")
		},
	},
	{
		Name: "skills-item",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return w.state == stateSkills &&
				(leadingBullet(pc.Text) != "" || pc.Desc.Numbering != nil)
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleSkillsItem, pc, "")
		},
	},
	{
		Name: "education-degree",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return w.state == stateEducation && pc.Token.Bold && !strings.Contains(pc.Text, "-")
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleEducationDegree, pc, "")
		},
	},
	{
		Name: "education-info",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return w.state == stateEducation && (pc.Token.Italic || strings.Contains(pc.Text, "-"))
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setElement(structure.RoleEducationInfo, pc, "")
		},
	},
	{
		Name: "bullet",
		Matches: func(w *walk, pc *paragraphContext) bool {
			return leadingBullet(pc.Text) != ""
		},
		Apply: func(w *walk, pc *paragraphContext) {
			w.setBullet(leadingBullet(pc.Text), pc)
		},
	},
}
