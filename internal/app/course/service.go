/*
Package course implements the application's business operations: login,
registration, the owner's roster management, and certificate issuance.

The service is deliberately free of HTTP concerns. Every mutation follows the
same shape — load the latest persisted document, mutate the target record by
identity, save the whole document back — guarded by one mutex, since the
document store has no finer-grained consistency protocol than last-write-wins.
*/
package course

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dcg/internal/app/archive"
	"dcg/internal/app/cert"
	"dcg/internal/app/store"
	"dcg/internal/app/user"
	"dcg/internal/pkg/errs"
	"dcg/internal/pkg/logx"
	"dcg/internal/pkg/randx"
)

// Service carries the application context: the document store, the
// certificate renderer, the optional archival sink, and a hook invoked after
// every successful mutation (used to push re-sync events to open pages).
type Service struct {
	mu       sync.Mutex
	store    store.Store
	renderer *cert.Renderer
	archiver archive.Archiver
	onChange func()
	now      func() time.Time
}

// NewService constructs the service. archiver and onChange may be nil.
func NewService(st store.Store, renderer *cert.Renderer, archiver archive.Archiver, onChange func()) *Service {
	return &Service{
		store:    st,
		renderer: renderer,
		archiver: archiver,
		onChange: onChange,
		now:      time.Now,
	}
}

// notifyChange invokes the change hook when one is set. The hook must not
// call back into the service.
func (s *Service) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Login validates the credentials against the latest persisted document.
// Matching is byte-exact on both username and password, no normalization.
// The store is re-read on every attempt so login never operates on stale data.
func (s *Service) Login(ctx context.Context, username, password string) (*user.User, *errs.CustomError) {
	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "login: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	for i := range state.Users {
		u := &state.Users[i]
		if u.Username == username && u.Password == password {
			copied := *u
			return &copied, nil
		}
	}

	logx.Warn("login: no matching account", "username", username)
	return nil, errs.NewError(errs.ErrInvalidCredentials)
}

// Register creates a new student account.
// Name and username are trimmed; an empty field fails validation, a taken
// username fails with a duplicate error and leaves the document untouched.
func (s *Service) Register(ctx context.Context, name, username, password string) (*user.User, *errs.CustomError) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)

	if name == "" || username == "" || password == "" {
		return nil, errs.NewError(errs.ErrValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "register: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if state.FindByUsername(username) != nil {
		logx.Warn("register: username already exists", "username", username)
		return nil, errs.NewError(errs.ErrDuplicateUsername)
	}

	newUser := user.User{
		ID:          randx.AccountID(s.now()),
		Name:        name,
		Username:    username,
		Password:    password,
		Role:        user.RoleStudent,
		Completed:   false,
		CertDataURL: nil,
	}
	state.Users = append(state.Users, newUser)

	if err := s.store.Save(ctx, state); err != nil {
		logx.Error(err, "register: failed to save state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	defer s.notifyChange()

	logx.Info("Student registered", "username", username, "id", newUser.ID)
	return &newUser, nil
}

// ListStudents returns the students in document order, recomputed per call.
func (s *Service) ListStudents(ctx context.Context) ([]user.User, *errs.CustomError) {
	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "list_students: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return state.Students(), nil
}

// Resolve re-reads the store and returns the account with the given username,
// or nil when it no longer exists. Used by the session refresh path; the
// caller falls back to its previous identity snapshot on a nil result.
func (s *Service) Resolve(ctx context.Context, username string) (*user.User, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	u := state.FindByUsername(username)
	if u == nil {
		return nil, nil
	}

	copied := *u
	return &copied, nil
}

// ToggleCompletion flips the completion flag of the target student.
// Marking a student incomplete clears any stored certificate: a stale
// certificate must not survive the reversal. An unresolvable id is a silent
// no-op, mirroring the roster UI where the row always exists.
func (s *Service) ToggleCompletion(ctx context.Context, studentID string) (*user.User, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "toggle_completion: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u := state.FindByID(studentID)
	if u == nil {
		return nil, nil
	}

	u.Completed = !u.Completed
	if !u.Completed {
		u.CertDataURL = nil
	}

	if err := s.store.Save(ctx, state); err != nil {
		logx.Error(err, "toggle_completion: failed to save state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	defer s.notifyChange()

	logx.Info("Completion toggled", "student_id", studentID, "completed", u.Completed)
	copied := *u
	return &copied, nil
}

// GenerateCertificate renders and stores a certificate for the target student.
// A student who has not completed the course fails the NotCompleted guard and
// is left untouched. Repeated calls overwrite the stored payload with a fresh
// render (functionally equivalent, not byte-identical).
func (s *Service) GenerateCertificate(ctx context.Context, studentID string) (*user.User, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "generate_certificate: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u := state.FindByID(studentID)
	if u == nil {
		return nil, errs.NewError(errs.ErrStudentNotFound)
	}

	if !u.Completed {
		return nil, errs.NewError(errs.ErrNotCompleted)
	}

	rendered, err := s.renderer.Render(u.Name)
	if err != nil {
		logx.Error(err, "generate_certificate: render failed", "student_id", studentID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u.CertDataURL = &rendered.DataURL

	if err := s.store.Save(ctx, state); err != nil {
		logx.Error(err, "generate_certificate: failed to save state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	defer s.notifyChange()

	if s.archiver != nil {
		key := fmt.Sprintf("certificates/%s/%s.png", u.Username, rendered.ID)
		if err := s.archiver.Store(ctx, key, rendered.PNG); err != nil {
			// Archival is best-effort; the authoritative copy is already persisted.
			logx.Warn("Certificate archival failed", "key", key)
		}
	}

	logx.Info("Certificate generated", "student_id", studentID, "cert_id", rendered.ID)
	copied := *u
	return &copied, nil
}

// CertificateOf returns the stored certificate payload of the target student.
func (s *Service) CertificateOf(ctx context.Context, studentID string) (*user.User, *errs.CustomError) {
	state, err := s.store.Load(ctx)
	if err != nil {
		logx.Error(err, "certificate_of: failed to load state")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u := state.FindByID(studentID)
	if u == nil {
		return nil, errs.NewError(errs.ErrStudentNotFound)
	}

	if u.CertDataURL == nil {
		return nil, errs.NewError(errs.ErrNotGenerated)
	}

	copied := *u
	return &copied, nil
}

// EnsureDemoCertificate backfills a certificate for the named seeded student
// when they are already marked completed but hold none. Runs once at boot so
// the demo data stays self-consistent on first launch.
func (s *Service) EnsureDemoCertificate(ctx context.Context, username string) error {
	s.mu.Lock()

	state, err := s.store.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	u := state.FindByUsername(username)
	if u == nil || !u.Completed || u.CertDataURL != nil {
		s.mu.Unlock()
		return nil
	}

	id := u.ID
	s.mu.Unlock()

	if _, cerr := s.GenerateCertificate(ctx, id); cerr != nil {
		return cerr
	}

	return nil
}
