package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims structure for DCG sessions.
// Besides the standard claims it carries a snapshot of the account identity
// at login time. The snapshot is only a fallback: handlers re-resolve the
// account from the store on every request so owner-side changes (completion
// toggles, certificate generation) are always visible.
type Payload struct {
	// StandardClaims embeds the JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer), used for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the account identifier (e.g. "u1", "u1699999999999").
	ID string `json:"id"`

	// Username is the unique login name the account was authenticated with.
	Username string `json:"username"`

	// Name is the display full name at login time.
	Name string `json:"name"`

	// Role is the account role, either "owner" or "student".
	Role string `json:"role"`
}
