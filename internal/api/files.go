package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/meetapp-io/meetapp/internal/models"
)

const maxUploadSize = 10 << 20 // 10 MiB

// ListFiles returns the uploaded banners, newest first.
func (a *Api) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := a.files.List(r.Context())
	if err != nil {
		respondInternalError(w, err)
		return
	}
	if files == nil {
		files = []*models.File{}
	}
	respondJSON(w, http.StatusOK, files)
}

// UploadFile stores a banner image in the object store and records it.
func (a *Api) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("banners/%s%s", uuid.NewString(), filepath.Ext(header.Filename))

	result, err := a.storage.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondInternalError(w, err)
		return
	}

	record := &models.File{
		Path: result.Key,
		URL:  result.URL,
	}
	if err := a.files.Create(r.Context(), record); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}
