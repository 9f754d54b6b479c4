package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dcg/internal/app/cert"
	"dcg/internal/app/course"
	"dcg/internal/app/notify"
	"dcg/internal/app/store"
	"dcg/internal/configs"
	"dcg/internal/pkg/errs"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

var remoteSeq int

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	renderer, err := cert.NewRenderer("Full Stack Web Development")
	require.NoError(t, err)

	hub := notify.NewHub()
	t.Cleanup(hub.Shutdown)

	cfg := &configs.AppConfig{
		Environment:  "development",
		Port:         8080,
		CourseName:   "Full Stack Web Development",
		JWTSecret:    "test-secret",
		StoreBackend: configs.StoreBackendFile,
	}

	return Router(&AppDeps{
		Service: course.NewService(fs, renderer, nil, hub.BroadcastStateUpdated),
		Config:  cfg,
		Hub:     hub,
	})
}

// doJSON performs a request against the router. Each call uses a distinct
// remote address so the per-IP auth rate limiters never interfere.
func doJSON(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	remoteSeq++
	req.RemoteAddr = fmt.Sprintf("10.1.%d.%d:4000", remoteSeq/250, remoteSeq%250+1)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, router http.Handler, username, password string) (string, map[string]any) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), "")
	out := decode(t, rec)
	require.Equal(t, 0, out.Code, out.Message)

	token, _ := out.Data["token"].(string)
	require.NotEmpty(t, token)
	userData, _ := out.Data["user"].(map[string]any)
	return token, userData
}

func TestHandleLogin_Success(t *testing.T) {
	router := newTestRouter(t)

	token, userData := login(t, router, "owner", "owner123")
	require.NotEmpty(t, token)
	require.Equal(t, "owner", userData["role"])
	require.Equal(t, "App Owner", userData["name"])
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"owner","password":"wrong"}`, "")
	out := decode(t, rec)
	require.Equal(t, errs.ErrInvalidCredentials, out.Code)
	require.Nil(t, out.Data)
}

func TestHandleLogin_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", `{"username":`, "")
	out := decode(t, rec)
	require.Equal(t, errs.ErrInvalidJSONFormat, out.Code)
}

func TestHandleRegister_DuplicateUsername(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Another Alice","username":"alice","password":"pw1"}`, "")
	out := decode(t, rec)
	require.Equal(t, errs.ErrDuplicateUsername, out.Code)
}

func TestOwnerRoutes_RoleGate(t *testing.T) {
	router := newTestRouter(t)

	// No session.
	rec := doJSON(t, router, http.MethodGet, "/api/owner/students", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, errs.ErrUnauthorized, decode(t, rec).Code)

	// Student session on the owner surface.
	studentToken, _ := login(t, router, "alice", "alice123")
	rec = doJSON(t, router, http.MethodGet, "/api/owner/students", "", studentToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, errs.ErrForbidden, decode(t, rec).Code)
}

func TestOwnerFlow_GenerateToggleView(t *testing.T) {
	router := newTestRouter(t)
	ownerToken, _ := login(t, router, "owner", "owner123")

	// Roster lists the two seeded students in order.
	out := decode(t, doJSON(t, router, http.MethodGet, "/api/owner/students", "", ownerToken))
	require.Equal(t, 0, out.Code)
	students, _ := out.Data["students"].([]any)
	require.Len(t, students, 2)
	first, _ := students[0].(map[string]any)
	require.Equal(t, "alice", first["username"])

	// Generating for alice fails: not completed.
	out = decode(t, doJSON(t, router, http.MethodPost, "/api/owner/students/u2/certificate", "{}", ownerToken))
	require.Equal(t, errs.ErrNotCompleted, out.Code)

	// Generating for bob succeeds.
	out = decode(t, doJSON(t, router, http.MethodPost, "/api/owner/students/u3/certificate", "{}", ownerToken))
	require.Equal(t, 0, out.Code)

	// View returns the stored payload.
	out = decode(t, doJSON(t, router, http.MethodGet, "/api/owner/students/u3/certificate", "", ownerToken))
	require.Equal(t, 0, out.Code)
	payload, _ := out.Data["certDataUrl"].(string)
	require.True(t, strings.HasPrefix(payload, "data:image/png;base64,"))

	// Toggling bob off clears the certificate; view now fails.
	out = decode(t, doJSON(t, router, http.MethodPost, "/api/owner/students/u3/toggle", "{}", ownerToken))
	require.Equal(t, 0, out.Code)
	out = decode(t, doJSON(t, router, http.MethodGet, "/api/owner/students/u3/certificate", "", ownerToken))
	require.Equal(t, errs.ErrNotGenerated, out.Code)

	// Unknown ids: toggle is a silent no-op, view reports not found.
	out = decode(t, doJSON(t, router, http.MethodPost, "/api/owner/students/u999/toggle", "{}", ownerToken))
	require.Equal(t, 0, out.Code)
	out = decode(t, doJSON(t, router, http.MethodGet, "/api/owner/students/u999/certificate", "", ownerToken))
	require.Equal(t, errs.ErrStudentNotFound, out.Code)
}

func TestStudentFlow_ProfileAndDownload(t *testing.T) {
	router := newTestRouter(t)

	ownerToken, _ := login(t, router, "owner", "owner123")
	out := decode(t, doJSON(t, router, http.MethodPost, "/api/owner/students/u3/certificate", "{}", ownerToken))
	require.Equal(t, 0, out.Code)

	// An already-established student session sees the owner's change on refresh.
	bobToken, _ := login(t, router, "bob", "bob123")
	out = decode(t, doJSON(t, router, http.MethodGet, "/api/session/refresh", "", bobToken))
	require.Equal(t, 0, out.Code)
	userData, _ := out.Data["user"].(map[string]any)
	require.Equal(t, true, userData["completed"])
	require.Equal(t, true, userData["hasCertificate"])

	// Certificate payload and download.
	out = decode(t, doJSON(t, router, http.MethodGet, "/api/student/certificate", "", bobToken))
	require.Equal(t, 0, out.Code)

	rec := doJSON(t, router, http.MethodGet, "/api/student/certificate/download", "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "bob_certificate.png")
	require.Equal(t, "\x89PNG", string(rec.Body.Bytes()[:4]))
}

func TestStudentFlow_NoCertificateYet(t *testing.T) {
	router := newTestRouter(t)
	aliceToken, _ := login(t, router, "alice", "alice123")

	out := decode(t, doJSON(t, router, http.MethodGet, "/api/student/profile", "", aliceToken))
	require.Equal(t, 0, out.Code)
	userData, _ := out.Data["user"].(map[string]any)
	require.Equal(t, false, userData["completed"])
	require.Equal(t, false, userData["hasCertificate"])

	out = decode(t, doJSON(t, router, http.MethodGet, "/api/student/certificate", "", aliceToken))
	require.Equal(t, errs.ErrNotGenerated, out.Code)
}

func TestRegisterThenLogin_Carol(t *testing.T) {
	router := newTestRouter(t)

	out := decode(t, doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Carol","username":"carol","password":"pw1"}`, ""))
	require.Equal(t, 0, out.Code)

	carolToken, userData := login(t, router, "carol", "pw1")
	require.Equal(t, "student", userData["role"])
	require.Equal(t, false, userData["completed"])

	out = decode(t, doJSON(t, router, http.MethodGet, "/api/student/certificate", "", carolToken))
	require.Equal(t, errs.ErrNotGenerated, out.Code)
}
