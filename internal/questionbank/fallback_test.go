package questionbank

import (
	"strings"
	"testing"

	"github.com/prepwise/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackBank_Lookup(t *testing.T) {
	bank := NewDefaultBank()

	t.Run("known combination returns a tagged question", func(t *testing.T) {
		q, ok := bank.Lookup("Software Engineer", models.CategoryTechnical, models.DifficultyMedium)
		require.True(t, ok)
		require.NotNil(t, q)

		assert.True(t, strings.HasPrefix(q.Code, models.FallbackCodePrefix),
			"fallback question code must carry the fallback prefix, got %q", q.Code)
		assert.Equal(t, models.CategoryTechnical, q.Category)
		assert.Equal(t, models.DifficultyMedium, q.Difficulty)
		assert.NotEmpty(t, q.Text)
		assert.Greater(t, q.TimeLimit, 0)
		assert.Greater(t, q.MaxScore, 0.0)
	})

	t.Run("position matching ignores case and whitespace", func(t *testing.T) {
		a, ok := bank.Lookup("  software engineer ", models.CategoryBehavioral, models.DifficultyEasy)
		require.True(t, ok)
		b, ok := bank.Lookup("SOFTWARE ENGINEER", models.CategoryBehavioral, models.DifficultyEasy)
		require.True(t, ok)
		assert.Equal(t, a.Text, b.Text)
	})

	t.Run("unknown combination misses", func(t *testing.T) {
		q, ok := bank.Lookup("astronaut", models.CategoryTechnical, models.DifficultyHard)
		assert.False(t, ok)
		assert.Nil(t, q)
	})

	t.Run("repeated lookups get distinct codes", func(t *testing.T) {
		a, ok := bank.Lookup("data scientist", models.CategoryTechnical, models.DifficultyEasy)
		require.True(t, ok)
		b, ok := bank.Lookup("data scientist", models.CategoryTechnical, models.DifficultyEasy)
		require.True(t, ok)
		assert.NotEqual(t, a.Code, b.Code)
	})
}
