package protocol

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Canonical room id: "hax-" + 6 uppercase alphanumerics, e.g. "hax-ABC123".

const (
	RoomIDPrefix    = "hax-"
	RoomIDSuffixLen = 6
)

// Generation skips lookalike characters; validation accepts any
// alphanumeric so hand-typed ids still normalize.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrEmptyRoomID   = errors.New("room id is empty")
	ErrInvalidRoomID = errors.New("room id is malformed")
)

// NewRoomID generates a random canonical room id.
func NewRoomID() string {
	b := make([]byte, RoomIDSuffixLen)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return RoomIDPrefix + string(b)
}

// NormalizeRoomID canonicalizes user input: whitespace trimmed, case
// folded, prefix optional. Empty input and malformed suffixes are
// rejected before any network attempt.
func NormalizeRoomID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyRoomID
	}
	if len(s) >= len(RoomIDPrefix) && strings.EqualFold(s[:len(RoomIDPrefix)], RoomIDPrefix) {
		s = s[len(RoomIDPrefix):]
	}
	s = strings.ToUpper(s)
	if len(s) != RoomIDSuffixLen {
		return "", fmt.Errorf("%w: want %d-character code, got %q", ErrInvalidRoomID, RoomIDSuffixLen, raw)
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidRoomID, raw)
		}
	}
	return RoomIDPrefix + s, nil
}
