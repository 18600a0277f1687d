package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/orc-hfg/uploader/internal/domain/pages"
)

//go:embed templates/page.html
var templateFS embed.FS

// ErrorMessages is the body text of the error page.
var ErrorMessages = map[pages.Locale]string{
	pages.LocaleDE: "Es ist ein Fehler aufgetreten.",
	pages.LocaleEN: "An error occurred.",
}

// NameError is the data-page marker of the error page.
const NameError = "error"

type pageData struct {
	Lang    string
	Name    string
	Title   string
	Heading string
	Message string
	ID      string
}

// PageHandler renders the uploader's page shells under PathPrefix.
type PageHandler struct {
	prefix        string
	defaultLocale pages.Locale
	tmpl          *template.Template
	logger        *slog.Logger
}

// PageHandlerOptions configures NewPageHandler.
type PageHandlerOptions struct {
	PathPrefix    string
	DefaultLocale pages.Locale
	Logger        *slog.Logger
}

// NewPageHandler parses the embedded page template.
func NewPageHandler(opts PageHandlerOptions) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, err
	}
	locale := opts.DefaultLocale
	if locale == "" {
		locale = pages.LocaleDE
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		prefix:        opts.PathPrefix,
		defaultLocale: locale,
		tmpl:          tmpl,
		logger:        logger.With("component", "pages"),
	}, nil
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, h.prefix)
	match, ok := pages.Resolve(rel)
	if !ok {
		locale := pages.LocaleOf(rel, h.defaultLocale)
		h.render(w, r, http.StatusNotFound, pageData{
			Lang:    string(locale),
			Name:    NameError,
			Title:   pages.Title(pages.ErrorHeadings[locale]),
			Heading: pages.ErrorHeadings[locale],
			Message: ErrorMessages[locale],
		})
		return
	}
	h.render(w, r, http.StatusOK, pageData{
		Lang:    string(match.Locale),
		Name:    match.Route.Name,
		Title:   pages.Title(match.Heading()),
		Heading: match.Heading(),
		ID:      match.ID,
	})
}

// RedirectToIndex sends the bare app root to the default locale's sign-in page.
func (h *PageHandler) RedirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.prefix+pages.IndexPath(h.defaultLocale), http.StatusFound)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page", "error", err, "page", data.Name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
