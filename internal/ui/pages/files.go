package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/ui/components/button"
	"github.com/templui/userfiles/internal/ui/layouts"
)

const uploadLabel = "Upload a file"

// Files renders the signed-in user's files page with the upload control
func Files(user *model.User, files []*model.File) templ.Component {
	return layouts.Base("My files", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section>`)
		b.WriteString(`<div class="flex items-center justify-between">`)
		b.WriteString(`<div><h1 class="text-2xl font-bold">My files</h1>`)
		b.WriteString(`<p class="text-sm text-gray-600">Signed in as ` + templ.EscapeString(user.Name) + `</p></div>`)
		b.WriteString(`<label class="` + templ.EscapeString(button.Class(button.VariantDefault, "cursor-pointer")) + `">`)
		b.WriteString(`<span id="upload-label">` + uploadLabel + `</span>`)
		b.WriteString(`<input id="file-input" type="file" class="sr-only">`)
		b.WriteString(`</label></div>`)

		b.WriteString(`<div id="file-list" class="mt-6">`)
		err := FileList(files).Render(ctx, &b)
		if err != nil {
			return err
		}
		b.WriteString(`</div></section>`)

		b.WriteString(`<script nonce="` + templ.EscapeString(templ.GetNonce(ctx)) + `">`)
		b.WriteString(filesScript)
		b.WriteString(`</script>`)

		_, err = io.WriteString(w, b.String())
		return err
	}))
}

// FileList renders the list of files, newest first. It is also served on its
// own so the page script can refresh it after an upload or delete.
func FileList(files []*model.File) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		if len(files) == 0 {
			b.WriteString(`<p class="rounded-md border border-dashed border-gray-300 px-4 py-8 text-center text-gray-500">No files yet</p>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString(`<ul class="divide-y divide-gray-200 rounded-md border border-gray-200 bg-white">`)
		for _, file := range files {
			b.WriteString(`<li class="flex items-center justify-between gap-4 px-4 py-3">`)
			b.WriteString(`<div class="min-w-0">`)
			b.WriteString(`<p class="truncate font-medium">` + templ.EscapeString(file.FileName) + `</p>`)
			b.WriteString(`<p class="text-xs text-gray-500">Uploaded <time datetime="` +
				file.CreatedAt.UTC().Format("2006-01-02T15:04:05Z") + `">` +
				file.CreatedAt.Format("Jan 2, 2006") + `</time></p>`)
			b.WriteString(`</div><div class="flex shrink-0 gap-2">`)

			if file.HasURL() {
				b.WriteString(`<a href="` + templ.EscapeString(string(templ.URL(file.URL))) + `"`)
				b.WriteString(` download="` + templ.EscapeString(file.FileName) + `"`)
				b.WriteString(` class="` + templ.EscapeString(button.Class(button.VariantOutline, "")) + `">Download</a>`)
			}

			err := button.Button(button.Props{
				Variant: button.VariantDestructive,
				Data: map[string]string{
					"delete-file": file.ID,
					"file-name":   file.FileName,
				},
			}, "Delete").Render(ctx, &b)
			if err != nil {
				return err
			}

			b.WriteString(`</div></li>`)
		}
		b.WriteString(`</ul>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// filesScript drives the three-step upload and the delete confirmation
const filesScript = `
(() => {
  const input = document.getElementById("file-input");
  const label = document.getElementById("upload-label");
  const list = document.getElementById("file-list");
  const csrf = document.querySelector('meta[name="csrf-token"]').content;

  const api = async (method, path, body) => {
    const res = await fetch(path, {
      method,
      credentials: "same-origin",
      headers: { "Content-Type": "application/json", "X-CSRF-Token": csrf },
      body: body === undefined ? undefined : JSON.stringify(body),
    });
    if (!res.ok) {
      const data = await res.json().catch(() => ({}));
      throw new Error(data.error || res.status + " " + res.statusText);
    }
    return res.status === 204 ? null : res.json();
  };

  const refresh = async () => {
    const res = await fetch("/app/files/list", { credentials: "same-origin" });
    if (res.redirected) {
      // session expired: the list route sent us to sign-in
      window.location.assign(res.url);
      return;
    }
    if (!res.ok) throw new Error("refresh failed: " + res.status);
    list.innerHTML = await res.text();
  };

  const setUploading = (uploading) => {
    input.disabled = uploading;
    label.textContent = uploading ? "Uploading..." : "` + uploadLabel + `";
  };

  input.addEventListener("change", async () => {
    const file = input.files[0];
    if (!file) return;
    setUploading(true);
    try {
      const target = await api("POST", "/api/files/upload-url");
      const headers = { ...target.headers };
      if (file.type) headers["Content-Type"] = file.type;
      const put = await fetch(target.url, { method: target.method, headers, body: file });
      if (!put.ok) throw new Error("upload failed: " + put.status);
      await api("POST", "/api/files", { storageId: target.storageId, fileName: file.name });
      await refresh();
    } catch (err) {
      console.error(err);
      alert("Upload failed. Please try again.");
    } finally {
      input.value = "";
      setUploading(false);
    }
  });

  list.addEventListener("click", async (event) => {
    const btn = event.target.closest("[data-delete-file]");
    if (!btn) return;
    if (!confirm("Delete \"" + btn.dataset.fileName + "\"?")) return;
    btn.disabled = true;
    try {
      await api("DELETE", "/api/files/" + encodeURIComponent(btn.dataset.deleteFile));
      await refresh();
    } catch (err) {
      console.error(err);
      alert("Delete failed. Please try again.");
      btn.disabled = false;
    }
  });
})();
`
