// backend/internal/token/token.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = time.Hour

// Issuer generates signed LiveKit join tokens. The media transport itself is
// external; this only mints the bearer credential a client presents to join
// a room.
type Issuer struct {
	apiKey    string
	apiSecret string
}

func NewIssuer(apiKey, apiSecret string) *Issuer {
	return &Issuer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// IssueJoinToken returns an HS256 JWT for the given identity. An empty room
// grants access to any room. ttl <= 0 falls back to DefaultTTL.
func (i *Issuer) IssueJoinToken(identity, room string, ttl time.Duration) (string, error) {
	if i.apiKey == "" || i.apiSecret == "" {
		return "", fmt.Errorf("livekit api key and secret must be configured")
	}
	if identity == "" {
		return "", fmt.Errorf("identity is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	grantedRoom := room
	if grantedRoom == "" {
		grantedRoom = "*"
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"jti": fmt.Sprintf("%s-%d", identity, now.Unix()),
		"iss": i.apiKey,
		"nbf": now.Add(-5 * time.Second).Unix(),
		"exp": now.Add(ttl).Unix(),
		"sub": identity,
		"grants": map[string]interface{}{
			"room": grantedRoom,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(i.apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign join token: %w", err)
	}
	return signed, nil
}
