package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/did"
)

func TestTokenRoundTrip(t *testing.T) {
	id, err := did.GenerateIdentity()
	require.NoError(t, err)
	codec, err := NewTokenCodec(id.Key)
	require.NoError(t, err)

	token, err := codec.Encode("session-123")
	require.NoError(t, err)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", got)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	id1, err := did.GenerateIdentity()
	require.NoError(t, err)
	id2, err := did.GenerateIdentity()
	require.NoError(t, err)

	codec1, err := NewTokenCodec(id1.Key)
	require.NoError(t, err)
	codec2, err := NewTokenCodec(id2.Key)
	require.NoError(t, err)

	token, err := codec1.Encode("session-123")
	require.NoError(t, err)

	_, err = codec2.Decode(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestAuthenticatorResolve(t *testing.T) {
	id, err := did.GenerateIdentity()
	require.NoError(t, err)
	codec, err := NewTokenCodec(id.Key)
	require.NoError(t, err)

	store := NewStore()
	store.Insert("internal-id", Session{DID: "did:key:alice", CreatedAt: time.Now()})

	token, err := codec.Encode("internal-id")
	require.NoError(t, err)

	auth := NewAuthenticator(codec, store)
	sess, ok := auth.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, "did:key:alice", sess.DID)

	_, ok = auth.Resolve("garbage")
	assert.False(t, ok)
}
