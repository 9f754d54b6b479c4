/*
Package handler provides the HTTP handlers and routing setup for the DCG server.

This file contains the owner surface: the student roster, completion toggling,
and certificate generation/viewing. All routes here sit behind the owner role gate.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dcg/internal/pkg/resp"
)

// HandleListStudents returns the ordered student roster, recomputed from the
// latest persisted document on every request.
func HandleListStudents(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, customErr := deps.Service.ListStudents(r.Context())
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		views := make([]map[string]any, 0, len(students))
		for i := range students {
			views = append(views, userView(&students[i]))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"students": views,
		})
	}
}

// HandleToggleCompletion flips the target student's completion flag.
// Toggling off clears the stored certificate. An unknown id is a no-op and
// still responds success, matching the operation's silent-failure contract.
func HandleToggleCompletion(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "id")

		account, customErr := deps.Service.ToggleCompletion(r.Context(), studentID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if account == nil {
			resp.RespondSuccess(w, r, nil)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"student": userView(account),
		})
	}
}

// HandleGenerateCertificate renders and stores a certificate for the target
// student. Fails when the student has not completed the course; repeated
// calls overwrite the stored payload with a fresh render.
func HandleGenerateCertificate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "id")

		account, customErr := deps.Service.GenerateCertificate(r.Context(), studentID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"student": userView(account),
		})
	}
}

// HandleViewCertificate returns the stored certificate payload of the target
// student for display in a new viewing context.
func HandleViewCertificate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "id")

		account, customErr := deps.Service.CertificateOf(r.Context(), studentID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"name":        account.Name,
			"certDataUrl": *account.CertDataURL,
		})
	}
}
