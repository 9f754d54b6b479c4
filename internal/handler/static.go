package handler

import (
	"embed"
	"net/http"

	"dcg/internal/pkg/logx"
)

//go:embed web/index.html
var webFS embed.FS

// HandleIndex serves the embedded single-page UI.
func HandleIndex() http.HandlerFunc {
	page, err := webFS.ReadFile("web/index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			logx.Error(err, "Embedded UI page missing")
			http.Error(w, "UI unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	}
}
