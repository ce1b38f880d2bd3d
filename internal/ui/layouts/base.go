package layouts

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/ui/components/button"
	"github.com/templui/userfiles/internal/ui/utils"
)

// Base wraps a page body in the document shell with the site header.
// The CSRF token is exposed in a meta tag for the page script.
func Base(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		appName := "Files"
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}
		fullTitle := appName
		if title != "" {
			fullTitle = title + " | " + appName
		}
		csrfToken := ctxkeys.CSRFToken(ctx)
		identity := ctxkeys.Identity(ctx)
		path := ctxkeys.URLPath(ctx)

		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<meta name="csrf-token" content="` + templ.EscapeString(csrfToken) + `">`)
		b.WriteString(`<title>` + templ.EscapeString(fullTitle) + `</title>`)
		b.WriteString(`<link rel="stylesheet" href="/assets/css/app.css">`)
		b.WriteString(`</head><body class="min-h-screen bg-gray-50 text-gray-900">`)

		b.WriteString(`<header class="border-b border-gray-200 bg-white"><nav class="mx-auto flex max-w-3xl items-center justify-between px-4 py-3">`)
		b.WriteString(`<a href="/" class="text-lg font-semibold">` + templ.EscapeString(appName) + `</a>`)
		b.WriteString(`<div class="flex items-center gap-2">`)
		if identity != nil {
			err := button.Button(button.Props{
				Href:    "/app/files",
				Variant: button.VariantGhost,
				Class:   utils.If(path == "/app/files", "font-semibold"),
			}, "My files").Render(ctx, &b)
			if err != nil {
				return err
			}
			b.WriteString(`<form method="post" action="/auth/logout">`)
			b.WriteString(`<input type="hidden" name="csrf_token" value="` + templ.EscapeString(csrfToken) + `">`)
			err = button.Button(button.Props{Type: "submit", Variant: button.VariantOutline}, "Sign out").Render(ctx, &b)
			if err != nil {
				return err
			}
			b.WriteString(`</form>`)
		} else if path != "/auth" {
			err := button.Button(button.Props{Href: "/auth"}, "Sign in").Render(ctx, &b)
			if err != nil {
				return err
			}
		}
		b.WriteString(`</div></nav></header>`)

		b.WriteString(`<main class="mx-auto max-w-3xl px-4 py-8">`)
		err := body.Render(ctx, &b)
		if err != nil {
			return err
		}
		b.WriteString(`</main></body></html>`)

		_, err = io.WriteString(w, b.String())
		return err
	})
}
