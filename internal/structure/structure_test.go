package structure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultElementsCoverAllRoles(t *testing.T) {
	elements := DefaultElements()
	for _, role := range Roles {
		_, ok := elements[role]
		assert.True(t, ok, "missing role %q", role)
	}
}

func TestDefaultStructure(t *testing.T) {
	model := DefaultStructure()

	assert.Equal(t, DefaultPrimaryColor, model.Colors.Primary)
	assert.Equal(t, DefaultTitleFont, model.Fonts.TitleFont)
	assert.Equal(t, DefaultTitleSizePt, model.Fonts.TitleSizePt)
	assert.Equal(t, DefaultBodyFont, model.Fonts.BodyFont)
	assert.Equal(t, DefaultBodySizePt, model.Fonts.BodySizePt)
	assert.Equal(t, DefaultPageSize, model.Layout.PageSize)
	assert.Equal(t, "portrait", model.Layout.Orientation)
	assert.Equal(t, Margins{TopMM: 20, RightMM: 15, BottomMM: 20, LeftMM: 15}, model.Layout.Margins)
	assert.Equal(t, DefaultBulletChar, model.Visual.Bullet.Char)
	assert.Equal(t, 12.0, model.Visual.Bullet.IndentMM)

	require.Len(t, model.Sections, 1)
	assert.Equal(t, DefaultSectionName, model.Sections[0].Name)

	// Every role key plus the synthesized section's title key is present.
	for _, role := range Roles {
		assert.Contains(t, model.Elements, role)
	}
	assert.Contains(t, model.Elements, SectionTitleRole(DefaultSectionName))
}

func TestSectionLookup(t *testing.T) {
	model := DefaultStructure()
	assert.NotNil(t, model.Section(DefaultSectionName))
	assert.Nil(t, model.Section("INCONNU"))
}

func TestSectionTitleRole(t *testing.T) {
	assert.Equal(t, "section_title_FORMATION", SectionTitleRole("FORMATION"))
}

func TestModelJSONRoundTrip(t *testing.T) {
	model := DefaultStructure()
	data, err := json.Marshal(model)
	require.NoError(t, err)

	var decoded TemplateStructure
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *model, decoded)
}
