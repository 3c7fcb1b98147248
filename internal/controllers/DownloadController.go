package controllers

import (
	"errors"
	"net/http"

	"fbconsole/internal/providers"
	"fbconsole/internal/storage"
)

type DownloadController struct {
	signer storage.SignerInterface
	logger providers.Logger
}

func NewDownloadController(signer storage.SignerInterface, logger providers.Logger) *DownloadController {
	return &DownloadController{signer: signer, logger: logger}
}

// Download redirects to a short-lived signed URL of the requested object.
func (dc *DownloadController) Download(w http.ResponseWriter, r *http.Request) {
	key := storage.ObjectKey(r.URL.Query().Get("file"))
	if key == "" {
		http.Error(w, "File not specified", http.StatusBadRequest)
		return
	}

	signed, err := dc.signer.PresignedGet(r.Context(), key)
	if errors.Is(err, storage.ErrStorageDisabled) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		dc.logger.Errorf(providers.TypeGet, "Sign download %s: %s", key, err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, signed, http.StatusFound)
}
