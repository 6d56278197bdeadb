package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMapper_MintResolve(t *testing.T) {
	m := NewTokenMapper()

	for _, ref := range []string{"AgACAgIAAxkBAAIB", "BAACAgIAAxkBAAIC", "CgACAgQAAxkBAAID", ""} {
		token := m.Mint(ref)

		assert.Len(t, token, 32)
		got, ok := m.Resolve(token)
		require.True(t, ok, "token for %q must resolve", ref)
		assert.Equal(t, ref, got)
	}
}

func TestTokenMapper_MintIsIdempotent(t *testing.T) {
	m := NewTokenMapper()

	first := m.Mint("AgACAgIAAxkBAAIB")
	second := m.Mint("AgACAgIAAxkBAAIB")

	assert.Equal(t, first, second)
	got, ok := m.Resolve(first)
	require.True(t, ok)
	assert.Equal(t, "AgACAgIAAxkBAAIB", got)
}

func TestTokenMapper_DistinctReferences(t *testing.T) {
	m := NewTokenMapper()
	seen := make(map[string]string)

	for i := 0; i < 1000; i++ {
		ref := fmt.Sprintf("file-%d", i)
		token := m.Mint(ref)
		if prev, dup := seen[token]; dup {
			t.Fatalf("token collision between %q and %q", prev, ref)
		}
		seen[token] = ref
	}
}

func TestTokenMapper_ResolveMisses(t *testing.T) {
	m := NewTokenMapper()
	m.Mint("AgACAgIAAxkBAAIB")

	_, ok := m.Resolve("d41d8cd98f00b204e9800998ecf8427f")
	assert.False(t, ok)

	_, ok = m.Resolve(RejectPayload)
	assert.False(t, ok)
}

func TestTokenMapper_TokenFitsCallbackData(t *testing.T) {
	// Telegram limits callback_data to 64 bytes.
	token := NewTokenMapper().Mint("AgACAgIAAxkBAAIBZmVyeS1sb25nLWZpbGUtaWQtdGhhdC1rZWVwcy1nb2luZy1hbmQtZ29pbmc")
	assert.LessOrEqual(t, len(token), 64)
}
