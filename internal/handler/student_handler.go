/*
Package handler provides the HTTP handlers and routing setup for the DCG server.

This file contains the student surface: the profile view and certificate
retrieval/download. All routes here sit behind the student role gate.
*/
package handler

import (
	"fmt"
	"net/http"

	"dcg/internal/app/cert"
	"dcg/internal/pkg/auth/jwt"
	"dcg/internal/pkg/errs"
	"dcg/internal/pkg/logx"
	"dcg/internal/pkg/resp"
)

// resolveSessionStudent re-reads the store and returns the session's account.
// A vanished account falls back to the token snapshot so the page keeps
// rendering; the snapshot naturally carries no completion or certificate.
func resolveSessionStudent(deps *AppDeps, w http.ResponseWriter, r *http.Request) (map[string]any, *string, bool) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil, nil, false
	}

	account, err := deps.Service.Resolve(r.Context(), payload.Username)
	if err != nil {
		logx.Error(err, "student: failed to load state")
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return nil, nil, false
	}

	if account == nil {
		return map[string]any{
			"id":             payload.ID,
			"name":           payload.Name,
			"username":       payload.Username,
			"role":           payload.Role,
			"completed":      false,
			"hasCertificate": false,
		}, nil, true
	}

	return userView(account), account.CertDataURL, true
}

// HandleStudentProfile returns the session student's fresh profile: name,
// username, completion status, and whether a certificate is available.
func HandleStudentProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, _, ok := resolveSessionStudent(deps, w, r)
		if !ok {
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": view,
		})
	}
}

// HandleStudentCertificate returns the session student's stored certificate payload.
func HandleStudentCertificate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, certDataURL, ok := resolveSessionStudent(deps, w, r)
		if !ok {
			return
		}

		if certDataURL == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotGenerated))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"name":        view["name"],
			"certDataUrl": *certDataURL,
		})
	}
}

// HandleDownloadCertificate serves the session student's certificate as a PNG
// attachment named "<username>_certificate.png".
func HandleDownloadCertificate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, certDataURL, ok := resolveSessionStudent(deps, w, r)
		if !ok {
			return
		}

		if certDataURL == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotGenerated))
			return
		}

		png, err := cert.DecodeDataURL(*certDataURL)
		if err != nil {
			logx.Error(err, "download: stored certificate payload is not decodable", "username", view["username"])
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		filename := fmt.Sprintf("%s_certificate.png", view["username"])
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}
