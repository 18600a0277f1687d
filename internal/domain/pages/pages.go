// Package pages describes the uploader's localized page routes and the metadata
// the route guard reads from them.
package pages

import (
	"strings"
)

// Locale is a supported UI language.
type Locale string

const (
	LocaleDE Locale = "de"
	LocaleEN Locale = "en"
)

// Locales lists the supported locales in preference order.
var Locales = []Locale{LocaleDE, LocaleEN}

// ParseLocale maps a path segment onto a supported locale.
func ParseLocale(s string) (Locale, bool) {
	switch Locale(strings.ToLower(s)) {
	case LocaleDE:
		return LocaleDE, true
	case LocaleEN:
		return LocaleEN, true
	default:
		return "", false
	}
}

// AppTitle is appended to every page title.
const AppTitle = "Uploader"

// Route names.
const (
	NameIndex    = "index"
	NameProjects = "projects"
	NameProject  = "project"
	NameImprint  = "imprint"
)

// Meta is the per-route metadata consulted by the route guard.
type Meta struct {
	// SkipAuthentication exempts the route from the guard.
	SkipAuthentication bool
}

// Route is one named page with a path pattern per locale.
// Patterns may contain a single "{id}" placeholder segment.
type Route struct {
	Name     string
	Patterns map[Locale]string
	Headings map[Locale]string
	Meta     Meta
}

// IsIndex reports whether the route is the sign-in landing page.
func (r Route) IsIndex() bool { return r.Name == NameIndex }

// Title renders "<heading> – Uploader".
func Title(heading string) string {
	return heading + " – " + AppTitle
}

// Routes is the uploader's page table.
var Routes = []Route{
	{
		Name:     NameIndex,
		Patterns: map[Locale]string{LocaleDE: "/de/anmeldung", LocaleEN: "/en/sign-in"},
		Headings: map[Locale]string{LocaleDE: "Anmeldung", LocaleEN: "Sign In"},
	},
	{
		Name:     NameProjects,
		Patterns: map[Locale]string{LocaleDE: "/de/projekte", LocaleEN: "/en/projects"},
		Headings: map[Locale]string{LocaleDE: "Projekte", LocaleEN: "Projects"},
	},
	{
		Name:     NameProject,
		Patterns: map[Locale]string{LocaleDE: "/de/projekt/{id}", LocaleEN: "/en/project/{id}"},
		Headings: map[Locale]string{LocaleDE: "Projekt", LocaleEN: "Project"},
	},
	{
		Name:     NameImprint,
		Patterns: map[Locale]string{LocaleDE: "/de/impressum", LocaleEN: "/en/imprint"},
		Headings: map[Locale]string{LocaleDE: "Impressum", LocaleEN: "Imprint"},
		Meta:     Meta{SkipAuthentication: true},
	},
}

// ErrorHeadings are shown for paths that match no route.
var ErrorHeadings = map[Locale]string{LocaleDE: "Fehler", LocaleEN: "Error"}

// Match is the result of resolving a request path.
type Match struct {
	Route  Route
	Locale Locale
	// ID is the value of the "{id}" placeholder, if any.
	ID string
}

// Heading returns the localized heading of the matched route.
func (m Match) Heading() string {
	return m.Route.Headings[m.Locale]
}

// Resolve matches an app-relative path (without the base prefix) against Routes.
func Resolve(path string) (Match, bool) {
	clean := "/" + strings.Trim(path, "/")
	for _, route := range Routes {
		for locale, pattern := range route.Patterns {
			if id, ok := matchPattern(pattern, clean); ok {
				return Match{Route: route, Locale: locale, ID: id}, true
			}
		}
	}
	return Match{}, false
}

func matchPattern(pattern, path string) (string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return "", false
	}
	var id string
	for i := range ps {
		if ps[i] == "{id}" {
			if xs[i] == "" {
				return "", false
			}
			id = xs[i]
			continue
		}
		if ps[i] != xs[i] {
			return "", false
		}
	}
	return id, true
}

// LocaleOf returns the locale prefix of path, or fallback when it has none.
func LocaleOf(path string, fallback Locale) Locale {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if locale, ok := ParseLocale(first); ok {
		return locale
	}
	return fallback
}

// Lookup returns the route with the given name.
func Lookup(name string) (Route, bool) {
	for _, route := range Routes {
		if route.Name == name {
			return route, true
		}
	}
	return Route{}, false
}

// PathFor renders the localized path of a named route. id fills the "{id}" placeholder.
func PathFor(name string, locale Locale, id string) string {
	route, ok := Lookup(name)
	if !ok {
		return ""
	}
	pattern := route.Patterns[locale]
	return strings.Replace(pattern, "{id}", id, 1)
}

// IndexPath returns the localized sign-in path.
func IndexPath(locale Locale) string {
	return PathFor(NameIndex, locale, "")
}
