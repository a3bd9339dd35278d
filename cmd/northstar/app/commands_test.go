package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]string{"q1=the launch date is fixed", "q2 = no"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"q1": "the launch date is fixed",
		"q2": "no",
	}, answers)
}

func TestParseAnswersEmpty(t *testing.T) {
	answers, err := parseAnswers(nil)
	require.NoError(t, err)
	assert.Nil(t, answers)
}

func TestParseAnswersInvalid(t *testing.T) {
	for _, pair := range []string{"no-separator", "=missing id"} {
		_, err := parseAnswers([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestDetermineLogLevel(t *testing.T) {
	assert.Equal(t, "info", determineLogLevel(&Config{}).String())
	assert.Equal(t, "debug", determineLogLevel(&Config{Verbose: true}).String())
	assert.Equal(t, "warn", determineLogLevel(&Config{Quiet: true}).String())
	assert.Equal(t, "warn", determineLogLevel(&Config{Verbose: true, Quiet: true}).String())
	assert.Equal(t, "error", determineLogLevel(&Config{LogLevel: "error"}).String())
	assert.Equal(t, "info", determineLogLevel(&Config{LogLevel: "bogus"}).String())
}
