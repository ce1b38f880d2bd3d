package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/httpx"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/service"
	"github.com/templui/userfiles/internal/ui"
	"github.com/templui/userfiles/internal/ui/pages"
)

type FileHandler struct {
	fileService *service.FileService
	userService *service.UserService
}

func NewFileHandler(fileService *service.FileService, userService *service.UserService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		userService: userService,
	}
}

type saveFileRequest struct {
	StorageID string `json:"storageId"`
	FileName  string `json:"fileName"`
}

type fileResponse struct {
	ID        string    `json:"id"`
	StorageID string    `json:"storageId"`
	FileName  string    `json:"fileName"`
	CreatedAt time.Time `json:"createdAt"`
	URL       *string   `json:"url"` // null when storage cannot produce one
}

func newFileResponse(f *model.File) fileResponse {
	resp := fileResponse{
		ID:        f.ID,
		StorageID: f.StorageID,
		FileName:  f.FileName,
		CreatedAt: f.CreatedAt,
	}
	if f.HasURL() {
		url := f.URL
		resp.URL = &url
	}
	return resp
}

// UploadURL issues a single-use upload target
func (h *FileHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	target, err := h.fileService.GenerateUploadURL(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, target)
}

// Save records the metadata of a completed upload
func (h *FileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveFileRequest
	err := httpx.Decode(r, &req)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	id, err := h.fileService.SaveMetadata(r.Context(), ctxkeys.Identity(r.Context()), req.StorageID, req.FileName)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List returns the caller's files with retrieval URLs
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.CurrentUserFiles(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, newFileResponse(f))
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.fileService.Delete(r.Context(), ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FilesPage provisions the caller's user record and renders their files
func (h *FileHandler) FilesPage(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	user, err := h.userService.Ensure(r.Context(), identity)
	if err != nil {
		slog.Error("failed to ensure user", "error", err, "external_id", identity.Subject)
		http.Error(w, "Failed to load files", http.StatusInternalServerError)
		return
	}

	files, err := h.fileService.CurrentUserFiles(r.Context(), identity)
	if err != nil {
		slog.Error("failed to get files", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load files", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Files(user, files))
}

// FileListFragment renders just the list, for refreshing after a change
func (h *FileHandler) FileListFragment(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.CurrentUserFiles(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		slog.Error("failed to get files", "error", err)
		http.Error(w, "Failed to load files", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.FileList(files))
}
