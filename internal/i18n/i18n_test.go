package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	m, err := Load("en")
	require.NoError(t, err)

	tr := m.Translator("")
	assert.Equal(t, "en", tr.Lang())
	assert.Equal(t, "📝 Posted Without Image", tr.T("generate.without_image"))
	assert.Equal(t, "Channel members: 42", tr.Tf("commands.stats_count", map[string]string{"count": "42"}))
	assert.Contains(t, tr.T("dashboard.welcome"), "Welcome to the Creator Bot!")
}

func TestTranslator_FallbackAndMissingKey(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("en:\n  greet: Hello {name}\n  only_en: English\n")},
		"es.yml":  {Data: []byte("es:\n  greet: Hola {name}\n")},
		"README":  {Data: []byte("ignored")},
	}

	m, err := LoadFS(fsys, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "es"}, m.Languages())

	es := m.Translator("ES")
	assert.Equal(t, "Hola Ana", es.Tf("greet", map[string]string{"name": "Ana"}))
	assert.Equal(t, "English", es.T("only_en"))
	assert.Equal(t, "missing.key", es.T("missing.key"))

	assert.Equal(t, "en", m.Translator("fr").Lang())
}

func TestLoadFS_Errors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "en")
	assert.Error(t, err)

	_, err = LoadFS(fstest.MapFS{"es.yaml": {Data: []byte("es:\n  a: b\n")}}, "en")
	assert.Error(t, err)

	_, err = LoadFS(fstest.MapFS{"en.yaml": {Data: []byte("en: [unclosed")}}, "en")
	assert.Error(t, err)
}
