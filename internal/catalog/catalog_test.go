package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(list []Suggestion) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func TestDefault_Parses(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	assert.Len(t, c.Popular, 15)
	assert.Len(t, c.Pairs, 5)
	assert.Len(t, c.Categories["fitness"], 2)
	assert.Equal(t, "Popular", c.Popular[0].Reason)
}

func TestSuggest_NoHabits(t *testing.T) {
	got := Suggest(nil)

	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Morning Exercise", got[0].Name)
	assert.Equal(t, "Meal Prep", got[MaxSuggestions-1].Name)
}

func TestSuggest_SkipsExistingPopular(t *testing.T) {
	got := Suggest([]string{"  morning exercise "})

	assert.NotContains(t, names(got), "Morning Exercise")
	assert.Equal(t, "Daily Reading", got[0].Name)
}

func TestSuggest_CategoriesAndPairs(t *testing.T) {
	existing := make([]string, 0, 15)
	for _, s := range Default().Popular {
		existing = append(existing, s.Name)
	}

	got := Suggest(existing)

	assert.Equal(t, []string{
		"Yoga Session",
		"Strength Training",
		"Audio Books",
		"Cook at Home",
		"Track Macros",
		"Post-Workout Protein",
		"Reading Notes",
		"Morning Vitamins",
		"Morning Affirmations",
		"Track Hydration",
	}, names(got))
}

func TestSuggest_Deduplicates(t *testing.T) {
	c, err := Parse([]byte(`
popular:
  - name: Meditation
categories:
  other:
    - name: MEDITATION
      reason: duplicate
pairs:
  - key: yoga
    suggestion:
      name: meditation
`))
	require.NoError(t, err)

	got := c.Suggest([]string{"Yoga"})
	require.Len(t, got, 1)
	assert.Equal(t, "Meditation", got[0].Name)
	assert.Equal(t, "Popular", got[0].Reason)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("popular: [unterminated"))
	assert.Error(t, err)
}
