package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathieu/cvforge/internal/structure"
)

func TestMatchSectionKind(t *testing.T) {
	tests := []struct {
		text  string
		kind  SectionKind
		match bool
	}{
		{"COMPÉTENCES TECHNIQUES", KindSkills, true},
		{"Skills", KindSkills, true},
		{"EXPÉRIENCES PROFESSIONNELLES", KindExperience, true},
		{"Parcours professionnel", KindExperience, true},
		{"FORMATION", KindEducation, true},
		{"Diplômes et études", KindEducation, true},
		{"PROFIL", KindOtherSection, true},
		{"Summary", KindOtherSection, true},
		{"Mes centres d'intérêt", KindOtherSection, false},
		{"", KindOtherSection, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			kind, ok := MatchSectionKind(tt.text)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestIsTrigram(t *testing.T) {
	assert.True(t, IsTrigram("MDU"))
	assert.True(t, IsTrigram("  ABC  "))
	assert.False(t, IsTrigram("AB"))
	assert.False(t, IsTrigram("ABCD"))
	assert.False(t, IsTrigram("abc"))
	assert.False(t, IsTrigram("A1C"))
	assert.False(t, IsTrigram(""))
}

func TestLeadingBullet(t *testing.T) {
	assert.Equal(t, "•", leadingBullet("• premier point"))
	assert.Equal(t, "-", leadingBullet("- tiret"))
	assert.Equal(t, "◦", leadingBullet("  ◦ imbriqué"))
	assert.Equal(t, "", leadingBullet("texte simple"))
	assert.Equal(t, "", leadingBullet(""))
}

func TestClassifyCase(t *testing.T) {
	assert.Equal(t, structure.CaseUpper, classifyCase("FORMATION"))
	assert.Equal(t, structure.CaseLower, classifyCase("profil"))
	assert.Equal(t, structure.CaseMixed, classifyCase("Profil"))
	assert.Equal(t, structure.CaseMixed, classifyCase("1234"))
}

func TestIsNeutralColor(t *testing.T) {
	assert.True(t, isNeutralColor(""))
	assert.True(t, isNeutralColor("#000000"))
	assert.True(t, isNeutralColor("#ffffff"))
	assert.False(t, isNeutralColor("#2563eb"))
}
