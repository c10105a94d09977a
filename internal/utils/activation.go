package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
)

// Activation tokens are emailed once at registration. Format:
//
//	<expiry-unix>-<hex hmac-sha256(uid:active:expiry)>
//
// The user's active flag participates in the MAC, so a token minted before
// activation stops validating once the account is activated.

// EncodeUserID encodes a user id for use in an activation URL.
func EncodeUserID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUserID reverses EncodeUserID. Any malformed input is an error.
func DecodeUserID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}

// GenerateActivationToken mints a time-limited token bound to the user's
// current activation state.
func GenerateActivationToken(user *models.User, secret string, ttl time.Duration) string {
	expiry := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%d-%s", expiry, activationMAC(user, secret, expiry))
}

// ValidateActivationToken reports whether token is intact and unexpired for
// this user.
func ValidateActivationToken(user *models.User, secret, token string) bool {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return false
	}

	expiry, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > expiry {
		return false
	}

	expected := activationMAC(user, secret, expiry)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(parts[1])) == 1
}

func activationMAC(user *models.User, secret string, expiry int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%t:%d", user.ID, user.Active, expiry)
	return hex.EncodeToString(mac.Sum(nil))
}
