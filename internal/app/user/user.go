/*
Package user contains the core data structures for accounts and application state.

It defines the User record persisted in the application document, the State
aggregate holding every account in insertion order, and the seeded demo data
written on first run.
*/
package user

// Account roles. Exactly one owner is expected in the demo data, though
// uniqueness of the role is not enforced anywhere.
const (
	RoleOwner   = "owner"
	RoleStudent = "student"
)

// User represents one account in the application document.
// JSON tags match the persisted document layout exactly.
type User struct {
	// ID is the unique opaque identifier, assigned at creation
	// ("u1", "u2" for seeded accounts, "u<unix-millis>" for registrations).
	ID string `json:"id"`

	// Name is the display full name, printed on the certificate.
	Name string `json:"name"`

	// Username is unique and case-sensitive, used for login and lookups.
	Username string `json:"username"`

	// Password is the plaintext credential. This is a demo system: login is a
	// byte-exact comparison against the stored value, no hashing.
	Password string `json:"password"`

	// Role is either "owner" or "student".
	Role string `json:"role"`

	// Completed marks course completion. Only meaningful for students.
	Completed bool `json:"completed"`

	// CertDataURL holds the generated certificate as an embedded PNG data URL,
	// or nil when no certificate has been issued. Only ever set while
	// Completed is true.
	CertDataURL *string `json:"certDataUrl"`
}

// State is the full application aggregate: every account in insertion order.
// Insertion order is the owner's roster display order. Username is unique
// across all users.
type State struct {
	Users []User `json:"users"`
}

// FindByID returns a pointer into the Users slice for the account with the
// given id, or nil when the id does not resolve.
func (s *State) FindByID(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// FindByUsername returns a pointer into the Users slice for the account with
// the given username, or nil when no account matches. Matching is case-sensitive.
func (s *State) FindByUsername(username string) *User {
	for i := range s.Users {
		if s.Users[i].Username == username {
			return &s.Users[i]
		}
	}
	return nil
}

// Students returns the accounts with role "student" in state order.
// The result is recomputed on every call; callers must not retain it across mutations.
func (s *State) Students() []User {
	students := make([]User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.Role == RoleStudent {
			students = append(students, u)
		}
	}
	return students
}

// DefaultState returns the seeded demo aggregate: one owner and two students,
// bob already marked completed but without a certificate.
func DefaultState() *State {
	return &State{
		Users: []User{
			{ID: "u1", Name: "App Owner", Username: "owner", Password: "owner123", Role: RoleOwner},
			{ID: "u2", Name: "Alice Student", Username: "alice", Password: "alice123", Role: RoleStudent, Completed: false, CertDataURL: nil},
			{ID: "u3", Name: "Bob Student", Username: "bob", Password: "bob123", Role: RoleStudent, Completed: true, CertDataURL: nil},
		},
	}
}
