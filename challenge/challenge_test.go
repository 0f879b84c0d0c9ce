package challenge

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/protocol"
)

func TestFactoryCreateSignsAndBindsAudience(t *testing.T) {
	server, err := did.GenerateIdentity()
	require.NoError(t, err)
	responder, err := did.GenerateIdentity()
	require.NoError(t, err)

	f := NewFactory(server)
	c, err := f.Create(protocol.Hello{DID: responder.DID})
	require.NoError(t, err)

	assert.Equal(t, server.DID, c.Issuer)
	assert.Equal(t, responder.DID, c.Audience)
	assert.Equal(t, c.IssuedAt+60, c.ExpiresAt)

	sigBytes, err := canonical.Encode(c.SigningForm())
	require.NoError(t, err)
	sig, err := hex.DecodeString(c.IssuerSignature)
	require.NoError(t, err)
	assert.NoError(t, did.Verify(server.DID, sigBytes, sig))
}

func TestFactorySetLifetimeChangesExpiry(t *testing.T) {
	server, err := did.GenerateIdentity()
	require.NoError(t, err)
	responder, err := did.GenerateIdentity()
	require.NoError(t, err)

	f := NewFactory(server)
	f.SetLifetime(10 * time.Second)

	c, err := f.Create(protocol.Hello{DID: responder.DID})
	require.NoError(t, err)
	assert.Equal(t, c.IssuedAt+10, c.ExpiresAt)
}

func TestFactoryRejectsMalformedDID(t *testing.T) {
	server, err := did.GenerateIdentity()
	require.NoError(t, err)
	f := NewFactory(server)

	_, err = f.Create(protocol.Hello{DID: "not-a-did"})
	require.Error(t, err)
	re, ok := err.(*protocol.RegError)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidDid, re.Code)
}

func TestTablePutTakeIsSingleUse(t *testing.T) {
	table := NewTable()
	c := protocol.Challenge{Issuer: "did:key:a", Audience: "did:key:b", ExpiresAt: time.Now().Unix() + 60}
	table.Put("hash1", c)

	entry, ok := table.Take("hash1")
	require.True(t, ok)
	assert.Equal(t, "did:key:b", entry.Audience)

	_, ok = table.Take("hash1")
	assert.False(t, ok, "second take of the same hash must fail")
}

func TestTableSweepRemovesExpired(t *testing.T) {
	table := NewTable()
	past := protocol.Challenge{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	future := protocol.Challenge{ExpiresAt: time.Now().Add(time.Minute).Unix()}
	table.Put("expired", past)
	table.Put("live", future)

	table.Sweep(time.Now())

	_, ok := table.Take("expired")
	assert.False(t, ok)
	_, ok = table.Take("live")
	assert.True(t, ok)
}
