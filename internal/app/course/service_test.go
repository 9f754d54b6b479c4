package course

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dcg/internal/app/cert"
	"dcg/internal/app/store"
	"dcg/internal/pkg/errs"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	renderer, err := cert.NewRenderer("Full Stack Web Development")
	require.NoError(t, err)

	return NewService(fs, renderer, nil, nil), fs
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	account, cerr := svc.Login(context.Background(), "owner", "owner123")
	require.Nil(t, cerr)
	require.Equal(t, "owner", account.Role)
	require.Equal(t, "App Owner", account.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	account, cerr := svc.Login(context.Background(), "owner", "wrong")
	require.Nil(t, account)
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrInvalidCredentials, cerr.Code)
}

func TestLogin_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	// No case normalization on either field.
	_, cerr := svc.Login(context.Background(), "Owner", "owner123")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrInvalidCredentials, cerr.Code)

	_, cerr = svc.Login(context.Background(), "owner", "OWNER123")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrInvalidCredentials, cerr.Code)
}

func TestRegister_EmptyFieldsFailValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, in := range []struct{ name, username, password string }{
		{"", "carol", "pw1"},
		{"   ", "carol", "pw1"},
		{"Carol", "", "pw1"},
		{"Carol", "  ", "pw1"},
		{"Carol", "carol", ""},
	} {
		_, cerr := svc.Register(ctx, in.name, in.username, in.password)
		require.NotNil(t, cerr, "input %+v", in)
		require.Equal(t, errs.ErrValidationFailed, cerr.Code, "input %+v", in)
	}
}

func TestRegister_DuplicateUsernameLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	before, err := st.Load(ctx)
	require.NoError(t, err)

	_, cerr := svc.Register(ctx, "Another Alice", "alice", "pw1")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrDuplicateUsername, cerr.Code)

	after, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRegister_ThenLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, cerr := svc.Register(ctx, "  Carol  ", " carol ", "pw1")
	require.Nil(t, cerr)
	require.Equal(t, "Carol", created.Name)
	require.Equal(t, "carol", created.Username)
	require.Equal(t, "student", created.Role)
	require.False(t, created.Completed)
	require.Nil(t, created.CertDataURL)
	require.True(t, strings.HasPrefix(created.ID, "u"))

	account, cerr := svc.Login(ctx, "carol", "pw1")
	require.Nil(t, cerr)
	require.False(t, account.Completed)
	require.Nil(t, account.CertDataURL)

	// Registration appends: carol is last in the roster.
	students, cerr := svc.ListStudents(ctx)
	require.Nil(t, cerr)
	require.Equal(t, "carol", students[len(students)-1].Username)
}

func TestListStudents_OrderAndMembership(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	students, cerr := svc.ListStudents(context.Background())
	require.Nil(t, cerr)
	require.Len(t, students, 2)
	require.Equal(t, "alice", students[0].Username)
	require.Equal(t, "bob", students[1].Username)
}

func TestGenerateCertificate_NotCompleted(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	// alice (u2) has not completed the course.
	_, cerr := svc.GenerateCertificate(ctx, "u2")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrNotCompleted, cerr.Code)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state.FindByID("u2").CertDataURL)
}

func TestGenerateCertificate_Success(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	// bob (u3) is seeded completed without a certificate.
	account, cerr := svc.GenerateCertificate(ctx, "u3")
	require.Nil(t, cerr)
	require.NotNil(t, account.CertDataURL)
	require.True(t, strings.HasPrefix(*account.CertDataURL, "data:image/png;base64,"))

	state, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.FindByID("u3").CertDataURL)
}

func TestGenerateCertificate_UnknownStudent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, cerr := svc.GenerateCertificate(context.Background(), "u999")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrStudentNotFound, cerr.Code)
}

func TestGenerateCertificate_RepeatOverwrites(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, cerr := svc.GenerateCertificate(ctx, "u3")
	require.Nil(t, cerr)
	second, cerr := svc.GenerateCertificate(ctx, "u3")
	require.Nil(t, cerr)

	// Functionally equivalent payloads; both valid certificates.
	require.NotNil(t, first.CertDataURL)
	require.NotNil(t, second.CertDataURL)
}

func TestToggleCompletion_OffClearsCertificate(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	_, cerr := svc.GenerateCertificate(ctx, "u3")
	require.Nil(t, cerr)

	// completed true -> false clears the stored certificate.
	toggled, cerr := svc.ToggleCompletion(ctx, "u3")
	require.Nil(t, cerr)
	require.False(t, toggled.Completed)
	require.Nil(t, toggled.CertDataURL)

	// Toggling back on does not auto-regenerate.
	toggled, cerr = svc.ToggleCompletion(ctx, "u3")
	require.Nil(t, cerr)
	require.True(t, toggled.Completed)
	require.Nil(t, toggled.CertDataURL)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, state.FindByID("u3").CertDataURL)
}

func TestToggleCompletion_UnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	before, err := st.Load(ctx)
	require.NoError(t, err)

	account, cerr := svc.ToggleCompletion(ctx, "u999")
	require.Nil(t, cerr)
	require.Nil(t, account)

	after, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCertificateOf_Errors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, cerr := svc.CertificateOf(ctx, "u999")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrStudentNotFound, cerr.Code)

	_, cerr = svc.CertificateOf(ctx, "u2")
	require.NotNil(t, cerr)
	require.Equal(t, errs.ErrNotGenerated, cerr.Code)
}

func TestEnsureDemoCertificate(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDemoCertificate(ctx, "bob"))

	state, err := st.Load(ctx)
	require.NoError(t, err)
	issued := state.FindByUsername("bob").CertDataURL
	require.NotNil(t, issued)

	// Second run is a no-op: the existing certificate is kept.
	require.NoError(t, svc.EnsureDemoCertificate(ctx, "bob"))
	state, err = st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, *issued, *state.FindByUsername("bob").CertDataURL)

	// Unknown and incomplete accounts are skipped silently.
	require.NoError(t, svc.EnsureDemoCertificate(ctx, "alice"))
	require.NoError(t, svc.EnsureDemoCertificate(ctx, "ghost"))
}

func TestMutations_InvokeChangeHook(t *testing.T) {
	t.Parallel()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	renderer, err := cert.NewRenderer("Full Stack Web Development")
	require.NoError(t, err)

	calls := 0
	svc := NewService(fs, renderer, nil, func() { calls++ })
	ctx := context.Background()

	_, cerr := svc.Register(ctx, "Carol", "carol", "pw1")
	require.Nil(t, cerr)
	_, cerr = svc.ToggleCompletion(ctx, "u2")
	require.Nil(t, cerr)
	_, cerr = svc.GenerateCertificate(ctx, "u3")
	require.Nil(t, cerr)

	require.Equal(t, 3, calls)

	// Failed operations must not notify.
	_, cerr = svc.GenerateCertificate(ctx, "u999")
	require.NotNil(t, cerr)
	require.Equal(t, 3, calls)
}
