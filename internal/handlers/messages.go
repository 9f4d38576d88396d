package handlers

import (
	"net/http"

	"notekeeper/internal/views/theme"
	"notekeeper/models"
)

type messagesResponse struct {
	Messages     map[string]string `json:"messages"`
	Themes       []theme.Option    `json:"themes"`
	FolderColors []string          `json:"folder_colors"`
}

// Messages returns the localized UI strings for clients that render their own views.
func Messages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if translator == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	l := localizer(r)
	options := theme.Options()
	for i := range options {
		options[i].Label = translate(r, options[i].Label)
	}
	writeJSON(w, http.StatusOK, messagesResponse{
		Messages:     translator.Catalogue(l),
		Themes:       options,
		FolderColors: models.FolderColors(),
	})
}
