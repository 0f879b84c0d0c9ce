package verify

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/challenge"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/protocol"
	"github.com/agentreg/didreg/session"
)

type harness struct {
	server    *did.Identity
	pending   *challenge.Table
	sessions  *session.Store
	tokens    *session.TokenCodec
	verifier  *Verifier
	factory   *challenge.Factory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	server, err := did.GenerateIdentity()
	require.NoError(t, err)
	pending := challenge.NewTable()
	sessions := session.NewStore()
	tokens, err := session.NewTokenCodec(server.Key)
	require.NoError(t, err)

	return &harness{
		server:   server,
		pending:  pending,
		sessions: sessions,
		tokens:   tokens,
		verifier: New(server, pending, sessions, tokens),
		factory:  challenge.NewFactory(server),
	}
}

// issueAndSign mints a challenge c for responder, inserts c into the
// pending table under its canonical hash, and returns a valid signed
// Proof against it.
func (h *harness) issueAndSign(t *testing.T, responder *did.Identity) protocol.Proof {
	t.Helper()
	c, err := h.factory.Create(protocol.Hello{DID: responder.DID})
	require.NoError(t, err)

	hash, err := canonical.Hash(c.SigningForm())
	require.NoError(t, err)
	h.pending.Put(hash, c)

	proof := protocol.Proof{
		ResponderDID:  responder.DID,
		ChallengeHash: hash,
		Issuer:        c.Issuer,
		SignedAt:      time.Now().Unix(),
	}
	sigBytes, err := canonical.Encode(proof.SigningForm())
	require.NoError(t, err)
	proof.ResponderSignature = hex.EncodeToString(responder.Sign(sigBytes))
	return proof
}

func TestVerifyHappyPath(t *testing.T) {
	h := newHarness(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	proof := h.issueAndSign(t, alice)
	accepted, err := h.verifier.Verify(proof)
	require.NoError(t, err)

	assert.Equal(t, h.server.DID, accepted.IssuerDID)
	assert.Equal(t, alice.DID, accepted.ResponderDID)
	assert.NotEmpty(t, accepted.SessionID)

	internalID, err := h.tokens.Decode(accepted.SessionID)
	require.NoError(t, err)
	sess, found := h.sessions.Get(internalID)
	assert.True(t, found)
	assert.Equal(t, alice.DID, sess.DID)
}

func TestVerifyReplayRejected(t *testing.T) {
	h := newHarness(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	proof := h.issueAndSign(t, alice)
	_, err = h.verifier.Verify(proof)
	require.NoError(t, err)

	_, err = h.verifier.Verify(proof)
	require.Error(t, err)
	re, ok := err.(*protocol.RegError)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidChallenge, re.Code)
}

func TestVerifyWrongSignerRejected(t *testing.T) {
	h := newHarness(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)
	bob, err := did.GenerateIdentity()
	require.NoError(t, err)

	c, err := h.factory.Create(protocol.Hello{DID: alice.DID})
	require.NoError(t, err)
	hash, err := canonical.Hash(c.SigningForm())
	require.NoError(t, err)
	h.pending.Put(hash, c)

	// Bob signs a proof claiming to be Alice.
	proof := protocol.Proof{
		ResponderDID:  alice.DID,
		ChallengeHash: hash,
		Issuer:        c.Issuer,
		SignedAt:      time.Now().Unix(),
	}
	sigBytes, err := canonical.Encode(proof.SigningForm())
	require.NoError(t, err)
	proof.ResponderSignature = hex.EncodeToString(bob.Sign(sigBytes))

	_, err = h.verifier.Verify(proof)
	require.Error(t, err)
	re, ok := err.(*protocol.RegError)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidSignature, re.Code)
}

func TestVerifyExpiredChallengeRejected(t *testing.T) {
	h := newHarness(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	proof := h.issueAndSign(t, alice)
	h.verifier.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = h.verifier.Verify(proof)
	require.Error(t, err)
	re, ok := err.(*protocol.RegError)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidChallenge, re.Code)
}

func TestVerifyBoundaryAcceptedAt59RejectedAt61(t *testing.T) {
	h := newHarness(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)
	base := time.Now()

	proofAccept := h.issueAndSign(t, alice)
	h.verifier.now = func() time.Time { return base.Add(59 * time.Second) }
	_, err = h.verifier.Verify(proofAccept)
	require.NoError(t, err)

	proofReject := h.issueAndSign(t, alice)
	h.verifier.now = func() time.Time { return base.Add(61 * time.Second) }
	_, err = h.verifier.Verify(proofReject)
	require.Error(t, err)
}
