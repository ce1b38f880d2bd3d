package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/ui/components/button"
	"github.com/templui/userfiles/internal/ui/layouts"
)

func Home() templ.Component {
	return layouts.Base("", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="py-16 text-center">`)
		b.WriteString(`<h1 class="text-3xl font-bold">Your files, anywhere</h1>`)
		b.WriteString(`<p class="mt-4 text-gray-600">Upload files, download them later and delete them when you are done. Only you can see what you upload.</p>`)
		b.WriteString(`<div class="mt-8">`)

		props := button.Props{Href: "/auth"}
		label := "Get started"
		if ctxkeys.Identity(ctx) != nil {
			props.Href = "/app/files"
			label = "Go to my files"
		}
		err := button.Button(props, label).Render(ctx, &b)
		if err != nil {
			return err
		}

		b.WriteString(`</div></section>`)
		_, err = io.WriteString(w, b.String())
		return err
	}))
}

func NotFound() templ.Component {
	return layouts.Base("Not found", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="py-16 text-center">`)
		b.WriteString(`<h1 class="text-3xl font-bold">Page not found</h1>`)
		b.WriteString(`<p class="mt-4 text-gray-600">The page you are looking for does not exist.</p>`)
		b.WriteString(`<div class="mt-8">`)
		err := button.Button(button.Props{Href: "/", Variant: button.VariantOutline}, "Back home").Render(ctx, &b)
		if err != nil {
			return err
		}
		b.WriteString(`</div></section>`)
		_, err = io.WriteString(w, b.String())
		return err
	}))
}
