package cert

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// IDPrefix is the fixed tag every certificate identifier carries.
const IDPrefix = "DCG-"

// idLength is how many encoded characters are kept before padding is stripped.
const idLength = 10

// CertificateID derives a display identifier from the recipient name and the
// issue instant: base64 of name+unix-millis, truncated, padding stripped, and
// tagged. It carries no uniqueness guarantee — two certificates issued for
// colliding inputs within the same millisecond can share an id.
func CertificateID(fullName string, at time.Time) string {
	raw := base64.StdEncoding.EncodeToString([]byte(fullName + strconv.FormatInt(at.UnixMilli(), 10)))
	if len(raw) > idLength {
		raw = raw[:idLength]
	}
	raw = strings.ReplaceAll(raw, "=", "")
	return IDPrefix + raw
}
