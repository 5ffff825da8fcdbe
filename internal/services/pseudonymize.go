package services

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/sysutil"
)

// hourBucketLayout formats a UTC instant as YYYYMMDDHH.
const hourBucketLayout = "2006010215"

// HashHex returns the lowercase hex SHA-256 digest of s's UTF-8 bytes.
func HashHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// The result is only ever hashed, never stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashAge pseudonymizes an age. There is one digest per possible age, so
// this hides the value from casual inspection only.
func HashAge(age int) string {
	return HashHex(strconv.Itoa(age))
}

// HourBucket returns the idempotency window of t: its UTC hour as YYYYMMDDHH.
func HourBucket(t time.Time) string {
	return t.UTC().Format(hourBucketLayout)
}

// DeriveSubmissionID returns the deterministic id for a normalized email at
// instant t. Submissions from the same address within one UTC hour collide
// on purpose.
func DeriveSubmissionID(normalizedEmail string, t time.Time) string {
	return HashHex(normalizedEmail + HourBucket(t))
}

// ClientIP picks the best-effort client address: the first hop of
// X-Forwarded-For, else the host part of the socket address, else "".
func ClientIP(meta domain.RequestMeta) string {
	forwarded, _, _ := strings.Cut(meta.ForwardedFor, ",")
	remote := strings.TrimSpace(meta.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	return strings.TrimSpace(sysutil.FirstNonEmpty(forwarded, remote))
}
