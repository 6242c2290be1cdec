package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/spanbot/internal/session"
	"github.com/example/spanbot/pkg/models"
)

func testDigest() session.Digest {
	return session.Digest{
		Date: time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
		Verb: models.Word{
			ID: 1, Spanish: "hablar", English: "to speak",
			Conjugation: "hablo, hablas, habla",
			Example:     "Yo hablo español todos los días.",
			ExampleEN:   "I speak Spanish every day.",
			Difficulty:  1.5,
		},
		Adjective: models.Word{
			ID: 2, Spanish: "rojo", SpanishF: "roja",
			PluralM: "rojos", PluralF: "rojas",
			English: "red", Difficulty: 1.0,
		},
		Difficulty:     2.0,
		DifficultyName: "Elementary",
	}
}

func TestRenderDigest(t *testing.T) {
	html, err := Render(testDigest(), "")
	require.NoError(t, err)

	assert.Contains(t, html, "hablar")
	assert.Contains(t, html, "to speak")
	assert.Contains(t, html, "hablo, hablas, habla")
	assert.Contains(t, html, "rojo")
	assert.Contains(t, html, "roja")
	assert.Contains(t, html, "rojos, rojas")
	assert.Contains(t, html, "2.0")
	assert.Contains(t, html, "Elementary")
	assert.Contains(t, html, "Tuesday, August 25, 2026")
	assert.NotContains(t, html, "Starting a new cycle", "no reset banner without a reset")
}

func TestRenderResetBanner(t *testing.T) {
	d := testDigest()
	d.VerbReset = true

	html, err := Render(d, "")
	require.NoError(t, err)
	assert.Contains(t, html, "all verbs")
	assert.Contains(t, html, "Starting a new cycle")
	assert.NotContains(t, html, "all adjectives")

	d.AdjectiveReset = true
	html, err = Render(d, "")
	require.NoError(t, err)
	assert.Contains(t, html, "all verbs")
	assert.Contains(t, html, "all adjectives")
}

func TestRenderMissingTemplateFile(t *testing.T) {
	_, err := Render(testDigest(), "does/not/exist.html")
	assert.Error(t, err)
}
