package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Templates parses every embedded page and partial into one set. Pages are
// addressed by file name, e.g. "home.html".
func Templates() (*template.Template, error) {
	return template.New("lumina").Funcs(FuncMap()).ParseFS(templateFiles, "templates/*.html")
}

// Static serves the embedded assets under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// FuncMap holds the helpers shared by all templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"truncate":  Truncate,
		"longDate":  LongDate,
		"shortDate": ShortDate,
		"pluralize": Pluralize,
		"derefOr":   derefOr,
		"notBool":   func(v bool) bool { return !v },
		"isActive":  isActive,
	}
}

// Truncate shortens s to at most limit characters, appending "..." when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// LongDate formats t as "January 2, 2006".
func LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// ShortDate formats t as "Jan 2, 2006".
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// Pluralize picks the singular or plural noun for count.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// isActive accepts a missing value so pages can omit the nav marker.
func isActive(active interface{}, name string) bool {
	value, _ := active.(string)
	return value == name
}

func derefOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}
