package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, English, ParseLanguage("en"))
	assert.Equal(t, English, ParseLanguage(" EN-us "))
	assert.Equal(t, Greek, ParseLanguage("gr"))
	assert.Equal(t, Greek, ParseLanguage(""))
	assert.Equal(t, Greek, ParseLanguage("de"))
}

func TestT(t *testing.T) {
	assert.Equal(t, "This class is full.", T(KeySessionFull, English))
	assert.Equal(t, "Το μάθημα είναι πλήρες.", T(KeySessionFull, Greek))
	assert.Equal(t, "Το μάθημα είναι πλήρες.", T(KeySessionFull, Language("fr")))
	assert.Equal(t, "no.such.key", T(Key("no.such.key"), English))
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for key, m := range messages {
		assert.NotEmpty(t, m[Greek], "missing gr for %s", key)
		assert.NotEmpty(t, m[English], "missing en for %s", key)
	}
}
