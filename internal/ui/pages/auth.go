package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/ui/components/button"
	"github.com/templui/userfiles/internal/ui/layouts"
)

// Provider is a sign-in option shown on the auth page
type Provider struct {
	Label string
	Href  string
}

// Auth renders the sign-in page. errMsg is shown above the options when set.
func Auth(errMsg string, providers []Provider) templ.Component {
	return layouts.Base("Sign in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="mx-auto max-w-sm py-12">`)
		b.WriteString(`<h1 class="text-2xl font-bold text-center">Sign in</h1>`)
		if errMsg != "" {
			b.WriteString(`<p role="alert" class="mt-4 rounded-md bg-red-50 px-3 py-2 text-sm text-red-700">` + templ.EscapeString(errMsg) + `</p>`)
		}

		b.WriteString(`<div class="mt-6 flex flex-col gap-3">`)
		if len(providers) == 0 {
			b.WriteString(`<p class="text-center text-sm text-gray-600">No sign-in providers are configured.</p>`)
		}
		for _, p := range providers {
			err := button.Button(button.Props{
				Href:    p.Href,
				Variant: button.VariantOutline,
				Class:   "w-full",
			}, "Continue with "+p.Label).Render(ctx, &b)
			if err != nil {
				return err
			}
		}
		b.WriteString(`</div></section>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}
