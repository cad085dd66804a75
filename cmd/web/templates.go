package main

import (
	"bytes"
	"fmt"
	"github.com/myrjola/foxtrail/internal/contexthelpers"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/ui"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// pages lists the directories inside ui/templates/pages. Each has to include a template named "page".
var pages = []string{"home", "detective"}

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// parseTemplates parses the base layout together with each page.
func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		pageFiles, err := fs.Glob(ui.Files, fmt.Sprintf("templates/pages/%s/*.gohtml", page))
		if err != nil {
			return nil, errors.Wrap(err, "glob page template files", slog.String("page", page))
		}
		files := append([]string{"templates/base.gohtml"}, pageFiles...)

		// We need to initialize the FuncMap before parsing the files. These will be overridden in executeTemplate.
		var t *template.Template
		if t, err = template.New(page).Funcs(template.FuncMap{
			"nonce": func() template.HTMLAttr {
				panic("not implemented")
			},
			"csrf": func() template.HTML {
				panic("not implemented")
			},
			"percent": percent,
		}).ParseFS(ui.Files, files...); err != nil {
			return nil, errors.Wrap(err, "parse page", slog.String("page", page))
		}
		templates[page] = t
	}
	return templates, nil
}

// executeTemplate executes the named template of page with request specific functions.
func (app *application) executeTemplate(r *http.Request, page, name string, data any) (*bytes.Buffer, error) {
	parsed, ok := app.templates[page]
	if !ok {
		return nil, errors.New("unknown page", slog.String("page", page))
	}
	// Executed templates can't be cloned, so the parsed ones are only ever used as a prototype.
	t, err := parsed.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone template", slog.String("page", page))
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, errors.Wrap(err, "execute template", slog.String("page", page), slog.String("template", name))
	}
	return buf, nil
}

// render writes page wrapped in the base layout.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	buf, err := app.executeTemplate(r, page, "base", data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}

// renderFragment writes a single template of page without the layout. htmx swaps these into the current document.
func (app *application) renderFragment(w http.ResponseWriter, r *http.Request, status int, page, name string, data any) {
	buf, err := app.executeTemplate(r, page, name, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return part * 100 / whole //nolint:mnd // percentage
}
