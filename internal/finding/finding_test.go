package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestedAction(t *testing.T) {
	tests := []struct {
		name string
		f    Finding
		want string
	}{
		{
			name: "weed",
			f:    Finding{Kind: KindWeed, Name: "Bindweed", Treatment: "pull by hand. Mulch afterwards."},
			want: "Remove Bindweed - pull by hand",
		},
		{
			name: "disease with markdown",
			f:    Finding{Kind: KindDisease, Name: "**Early Blight**", Treatment: "- Spray copper fungicide; repeat weekly"},
			want: "Treat Early Blight - Spray copper fungicide",
		},
		{
			name: "pest without treatment",
			f:    Finding{Kind: KindPest, Name: "Aphids"},
			want: "Control Aphids",
		},
		{
			name: "decimal in treatment",
			f:    Finding{Kind: KindDisease, Name: "Late Blight", Treatment: "Spray copper oxychloride at 2.5 g/L every 7 days."},
			want: "Treat Late Blight - Spray copper oxychloride at 2.5 g/L every 7 days",
		},
		{
			name: "snake case name",
			f:    Finding{Kind: KindPest, Name: "spodoptera_litura", Treatment: "Use neem oil"},
			want: "Control spodoptera_litura - Use neem oil",
		},
		{
			name: "unknown kind",
			f:    Finding{Name: "Yellowing", Treatment: "\n\nCheck nitrogen"},
			want: "Address Yellowing - Check nitrogen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.SuggestedAction())
		})
	}
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "Here is the diagnosis:\n```json\n{\"kind\":\"Pest\",\"name\":\" Fruit Borer \",\"treatment\":\"Release Trichogramma.\",\"relatedCrops\":[\"Tomato\",\" \",\"Brinjal\"]}\n```\nGood luck!"

	f, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, KindPest, f.Kind)
	assert.Equal(t, "Fruit Borer", f.Name)
	assert.Equal(t, []string{"Tomato", "Brinjal"}, f.RelatedCrops)
}

func TestParse_BareJSONWithProse(t *testing.T) {
	f, err := Parse([]byte(`Result: {"kind":"weed","name":"Nutgrass","treatment":"hoe early"} end`))
	require.NoError(t, err)
	assert.Equal(t, KindWeed, f.Kind)
	assert.Empty(t, f.RelatedCrops)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("I could not identify anything."))
	assert.ErrorIs(t, err, ErrNoFinding)

	_, err = Parse([]byte(`{"kind":"weed","name":""}`))
	assert.ErrorIs(t, err, ErrNoFinding)

	_, err = Parse([]byte(`{"kind": weed}`))
	assert.Error(t, err)
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "Late Blight", StripMarkdown("## **Late Blight**"))
	assert.Equal(t, "use neem", StripMarkdown("* `use neem`"))
	assert.Equal(t, "apply neem now", StripMarkdown("apply _neem_ now"))
	assert.Equal(t, "Bold and italic", StripMarkdown("__Bold__ and *italic*"))
	assert.Equal(t, "spodoptera_litura and tuta_absoluta", StripMarkdown("spodoptera_litura and tuta_absoluta"))
	assert.Equal(t, "2 * 3 rows", StripMarkdown("2 * 3 rows"))
}

func TestFirstClause(t *testing.T) {
	assert.Equal(t, "Dilute to 0.5 ml/L", FirstClause("Dilute to 0.5 ml/L. Spray at dusk"))
	assert.Equal(t, "Neem oil", FirstClause("Neem oil; yellow traps"))
	assert.Equal(t, "Hoe early", FirstClause("Hoe early\nMulch later"))
	assert.Equal(t, "", FirstClause(""))
}
