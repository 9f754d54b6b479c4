package handler

import (
	"dcg/internal/app/course"
	"dcg/internal/app/notify"
	"dcg/internal/app/user"
	"dcg/internal/configs"
)

// AppDeps bundles the dependencies shared by all HTTP handlers.
type AppDeps struct {
	Service *course.Service
	Config  *configs.AppConfig
	Hub     *notify.Hub
}

// userView shapes an account for responses. The password never leaves the server.
func userView(u *user.User) map[string]any {
	return map[string]any{
		"id":             u.ID,
		"name":           u.Name,
		"username":       u.Username,
		"role":           u.Role,
		"completed":      u.Completed,
		"hasCertificate": u.CertDataURL != nil,
	}
}
