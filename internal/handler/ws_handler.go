/*
Package handler provides the HTTP handlers and routing setup for the DCG server.

This file contains the WebSocket endpoint feeding state-change notifications
to open pages.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"dcg/internal/pkg/auth/jwt"
	"dcg/internal/pkg/errs"
	"dcg/internal/pkg/logx"
	"dcg/internal/pkg/resp"
)

// HandleEvents upgrades the connection and attaches it to the notify hub.
// Only authenticated sessions may subscribe. Browsers cannot set headers on
// WebSocket handshakes, so the session token is also accepted as a "token"
// query parameter. The hub carries no payload data, just re-sync hints, so no
// per-role filtering is needed.
func HandleEvents(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)

		if payload == nil {
			if token := r.URL.Query().Get("token"); token != "" {
				parsed, err := jwt.ParseToken(token, deps.Config.JWTSecret)
				if err != nil {
					logx.Warn("WebSocket subscribe with invalid token", "error", err.Error())
				} else {
					payload = parsed
				}
			}
		}

		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Warn("WebSocket upgrade failed", "error", err.Error())
			return
		}

		deps.Hub.Add(conn)
	}
}
