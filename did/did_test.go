package did

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPublicKeyRoundTrip(t *testing.T) {
	id, err := GenerateIdentity()
	require.NoError(t, err)

	pub, err := Parse(id.DID)
	require.NoError(t, err)
	assert.Equal(t, id.Pub, pub)
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"did:key:",
		"not-a-did",
		"did:web:example.com",
		Prefix + "znotbase58!!!",
		Prefix + "z3x", // too short to contain a full pubkey
	}
	for _, c := range cases {
		_, err := Parse(c)
		assert.ErrorIs(t, err, ErrMalformedDID, "input: %q", c)
	}
}

func TestValid(t *testing.T) {
	id, err := GenerateIdentity()
	require.NoError(t, err)
	assert.True(t, Valid(id.DID))
	assert.False(t, Valid("did:key:garbage"))
}

func TestVerify(t *testing.T) {
	id, err := GenerateIdentity()
	require.NoError(t, err)

	msg := []byte("hello world")
	sig := id.Sign(msg)

	assert.NoError(t, Verify(id.DID, msg, sig))
	assert.Error(t, Verify(id.DID, []byte("tampered"), sig))

	other, err := GenerateIdentity()
	require.NoError(t, err)
	assert.Error(t, Verify(other.DID, msg, sig))
}
