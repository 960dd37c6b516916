// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localesFS embed.FS

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

func Initialize(defaultLang string) error {
	var err error
	once.Do(func() {
		if defaultLang == "" {
			defaultLang = "en"
		}
		instance = &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  defaultLang,
		}
		err = instance.LoadTranslations(localesFS, "locales")
	})
	return err
}

func (i *I18n) LoadTranslations(fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list locale files: %w", err)
	}

	for _, file := range files {
		lang := strings.TrimSuffix(path.Base(file), ".json")

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", file, err)
		}

		i.mu.Lock()
		i.translations[lang] = translations
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if text, ok := i.lookup(lang, key); ok {
		return format(text, args)
	}

	// Fallback to default language
	if lang != i.defaultLang {
		if text, ok := i.lookup(i.defaultLang, key); ok {
			return format(text, args)
		}
	}

	// Return key if no translation found
	return key
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	translations, exists := i.translations[lang]
	if !exists {
		return "", false
	}
	text, exists := translations[key]
	return text, exists
}

func format(text string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	if instance != nil {
		return instance.T(lang, key, args...)
	}
	return key
}

func DefaultLanguage() string {
	if instance == nil {
		return "en"
	}
	return instance.defaultLang
}

func IsSupported(lang string) bool {
	if instance == nil {
		return lang == "en"
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	_, ok := instance.translations[lang]
	return ok
}
