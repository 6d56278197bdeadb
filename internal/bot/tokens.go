package bot

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// RejectPayload is the callback data of the Reject button. It is not a hex
// digest, so it never resolves to a file id.
const RejectPayload = "Rejected"

// TokenMapper maps short callback tokens back to Telegram file ids.
// Entries live for the lifetime of the process.
type TokenMapper struct {
	mu   sync.RWMutex
	refs map[string]string
}

func NewTokenMapper() *TokenMapper {
	return &TokenMapper{
		refs: make(map[string]string),
	}
}

// Mint returns the token for fileID and records the reverse lookup.
// Minting the same file id twice yields the same token.
func (m *TokenMapper) Mint(fileID string) string {
	sum := md5.Sum([]byte(fileID))
	token := hex.EncodeToString(sum[:])

	m.mu.Lock()
	m.refs[token] = fileID
	m.mu.Unlock()

	return token
}

func (m *TokenMapper) Resolve(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fileID, ok := m.refs[token]

	return fileID, ok
}
