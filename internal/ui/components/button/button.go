package button

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/ui/utils"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantOutline     Variant = "outline"
	VariantGhost       Variant = "ghost"
	VariantDestructive Variant = "destructive"
)

type Props struct {
	ID      string
	Variant Variant
	Class   string
	Href    string // Renders an anchor instead of a button
	Type    string
	// Data attributes without the "data-" prefix
	Data map[string]string
}

const baseClass = "inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-medium transition-colors disabled:opacity-50 disabled:pointer-events-none"

func variantClass(v Variant) string {
	switch v {
	case VariantOutline:
		return "border border-gray-300 bg-white text-gray-900 hover:bg-gray-50"
	case VariantGhost:
		return "bg-transparent text-gray-700 hover:bg-gray-100"
	case VariantDestructive:
		return "bg-red-600 text-white hover:bg-red-700"
	default:
		return "bg-gray-900 text-white hover:bg-gray-700"
	}
}

// Class returns the merged class list for a button variant
func Class(v Variant, extra string) string {
	return utils.TwMerge(baseClass, variantClass(v), extra)
}

func Button(p Props, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		tag := "button"
		if p.Href != "" {
			tag = "a"
		}

		b.WriteString("<" + tag)
		if p.ID != "" {
			b.WriteString(` id="` + templ.EscapeString(p.ID) + `"`)
		}
		if p.Href != "" {
			b.WriteString(` href="` + templ.EscapeString(string(templ.URL(p.Href))) + `"`)
		} else {
			typ := p.Type
			if typ == "" {
				typ = "button"
			}
			b.WriteString(` type="` + templ.EscapeString(typ) + `"`)
		}
		for _, key := range slices.Sorted(maps.Keys(p.Data)) {
			b.WriteString(` data-` + templ.EscapeString(key) + `="` + templ.EscapeString(p.Data[key]) + `"`)
		}
		b.WriteString(` class="` + templ.EscapeString(Class(p.Variant, p.Class)) + `">`)
		b.WriteString(templ.EscapeString(label))
		b.WriteString("</" + tag + ">")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
