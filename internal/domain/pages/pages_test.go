package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path       string
		wantName   string
		wantLocale Locale
		wantID     string
	}{
		{"/de/anmeldung", NameIndex, LocaleDE, ""},
		{"/en/sign-in/", NameIndex, LocaleEN, ""},
		{"/de/projekte", NameProjects, LocaleDE, ""},
		{"/en/projects", NameProjects, LocaleEN, ""},
		{"/de/projekt/collection-id-3", NameProject, LocaleDE, "collection-id-3"},
		{"/en/project/42", NameProject, LocaleEN, "42"},
		{"/de/impressum", NameImprint, LocaleDE, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := Resolve(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, m.Route.Name)
			assert.Equal(t, tt.wantLocale, m.Locale)
			assert.Equal(t, tt.wantID, m.ID)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, p := range []string{"/", "/de/non-existent-route", "/fr/projects", "/de/projekt", "/de/projekt/a/b"} {
		_, ok := Resolve(p)
		assert.False(t, ok, p)
	}
}

func TestRouteMeta(t *testing.T) {
	index, ok := Lookup(NameIndex)
	require.True(t, ok)
	assert.True(t, index.IsIndex())

	imprint, _ := Lookup(NameImprint)
	assert.True(t, imprint.Meta.SkipAuthentication)

	projects, _ := Lookup(NameProjects)
	assert.False(t, projects.IsIndex())
	assert.False(t, projects.Meta.SkipAuthentication)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/de/anmeldung", IndexPath(LocaleDE))
	assert.Equal(t, "/en/sign-in", IndexPath(LocaleEN))
	assert.Equal(t, "/en/project/7", PathFor(NameProject, LocaleEN, "7"))
	assert.Equal(t, "", PathFor("missing", LocaleEN, ""))
}

func TestLocaleOf(t *testing.T) {
	assert.Equal(t, LocaleEN, LocaleOf("/en/anything", LocaleDE))
	assert.Equal(t, LocaleDE, LocaleOf("/xx/anything", LocaleDE))
	assert.Equal(t, LocaleEN, LocaleOf("", LocaleEN))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Anmeldung – Uploader", Title("Anmeldung"))
	m, _ := Resolve("/de/projekte")
	assert.Equal(t, "Projekte", m.Heading())
}
