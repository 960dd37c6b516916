package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	require.NoError(t, i.LoadTranslations(localesFS, "locales"))

	require.Contains(t, i.translations, "en")
	require.Contains(t, i.translations, "ru")
	for key := range i.translations["en"] {
		assert.Contains(t, i.translations["ru"], key)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"a": "apple %s", "b": "banana"}`)},
		"locales/ru.json": {Data: []byte(`{"a": "яблоко %s"}`)},
	}
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	require.NoError(t, i.LoadTranslations(fsys, "locales"))

	assert.Equal(t, "яблоко x", i.T("ru", "a", "x"))
	assert.Equal(t, "banana", i.T("ru", "b"))
	assert.Equal(t, "banana", i.T("de", "b"))
	assert.Equal(t, "missing", i.T("en", "missing"))
}

func TestLoadTranslationsRejectsBadJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{`)},
	}
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	assert.Error(t, i.LoadTranslations(fsys, "locales"))
}
