// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package client implements the handshake client state machine used by
// the CLI and any tool-calling adapter: §4.2/§6 of the registry
// specification. A Client owns exactly one session for one DID against
// one server at a time.
package client

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/protocol"
)

// State is one of the handshake client's five states.
type State int

const (
	StateIdle State = iota
	StateAwaitChallenge
	StateProving
	StateAwaitAccept
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitChallenge:
		return "AWAIT_CHALLENGE"
	case StateProving:
		return "PROVING"
	case StateAwaitAccept:
		return "AWAIT_ACCEPT"
	case StateAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Client drives the handshake against a single registry server and
// holds the resulting session token once authenticated.
type Client struct {
	baseURL  string
	identity *did.Identity
	http     *http.Client

	state     State
	sessionID string
}

// New builds a Client for baseURL, authenticating as identity.
func New(baseURL string, identity *did.Identity) *Client {
	return &Client{
		baseURL:  baseURL,
		identity: identity,
		http:     &http.Client{Timeout: 10 * time.Second},
		state:    StateIdle,
	}
}

// WithSession builds a Client already in AUTHENTICATED state, carrying
// a bearer token minted by a prior Authenticate call. Used by the CLI,
// where each subcommand is a separate process and the session token is
// the only thing that survives between them; register/deregister never
// need the identity itself, only the bearer token.
func WithSession(baseURL, sessionID string) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		state:     StateAuthenticated,
		sessionID: sessionID,
	}
}

// State reports the client's current position in the handshake state
// machine.
func (c *Client) State() State { return c.state }

// SessionID returns the bearer token from the last successful
// Authenticate call, or "" if the client is not AUTHENTICATED.
func (c *Client) SessionID() string {
	if c.state != StateAuthenticated {
		return ""
	}
	return c.sessionID
}

// Authenticate runs the full IDLE -> AUTHENTICATED handshake: hello,
// sign the returned challenge, submit the proof, and verify the
// server's counter-signature before trusting the session. Any failure
// resets the client to IDLE, per spec: "any state -- transport or
// protocol error --> IDLE".
func (c *Client) Authenticate() error {
	c.state = StateAwaitChallenge
	challenge, err := c.hello()
	if err != nil {
		c.state = StateIdle
		return err
	}

	c.state = StateProving
	proof, signingBytes, err := c.buildProof(challenge)
	if err != nil {
		c.state = StateIdle
		return err
	}

	c.state = StateAwaitAccept
	accepted, err := c.sendProof(proof)
	if err != nil {
		c.state = StateIdle
		return err
	}

	if err := c.verifyCounterSignature(accepted, signingBytes); err != nil {
		c.state = StateIdle
		return err
	}

	c.sessionID = accepted.SessionID
	c.state = StateAuthenticated
	return nil
}

func (c *Client) hello() (protocol.Challenge, error) {
	var challenge protocol.Challenge
	err := c.post("/hello", protocol.Hello{DID: c.identity.DID}, &challenge)
	return challenge, err
}

func (c *Client) buildProof(challenge protocol.Challenge) (protocol.Proof, []byte, error) {
	hash, err := canonical.Hash(challenge.SigningForm())
	if err != nil {
		return protocol.Proof{}, nil, fmt.Errorf("hash challenge: %w", err)
	}

	proof := protocol.Proof{
		ResponderDID:  c.identity.DID,
		ChallengeHash: hash,
		Issuer:        challenge.Issuer,
		SignedAt:      time.Now().Unix(),
	}

	signingBytes, err := canonical.Encode(proof.SigningForm())
	if err != nil {
		return protocol.Proof{}, nil, fmt.Errorf("encode proof: %w", err)
	}
	proof.ResponderSignature = hex.EncodeToString(c.identity.Sign(signingBytes))
	return proof, signingBytes, nil
}

func (c *Client) sendProof(proof protocol.Proof) (protocol.ProofAccepted, error) {
	var accepted protocol.ProofAccepted
	err := c.post("/proof", proof, &accepted)
	return accepted, err
}

// verifyCounterSignature checks that accepted.CounterSignature is the
// server's DID signing the same bytes the client signed its proof
// with, so a client never trusts a session minted by an impostor
// server sitting between it and the real registry.
func (c *Client) verifyCounterSignature(accepted protocol.ProofAccepted, signingBytes []byte) error {
	sig, err := hex.DecodeString(accepted.CounterSignature)
	if err != nil {
		return fmt.Errorf("malformed counter signature: %w", err)
	}
	if err := did.Verify(accepted.IssuerDID, signingBytes, sig); err != nil {
		return fmt.Errorf("counter signature verification failed: %w", err)
	}
	return nil
}

// Register binds the client's DID to endpoint for ttl (0 uses the
// server default), resetting to IDLE if the session has expired.
func (c *Client) Register(endpoint string, ttl time.Duration) (protocol.RegisterResponse, error) {
	var resp protocol.RegisterResponse
	req := protocol.RegisterRequest{Endpoint: endpoint}
	if ttl > 0 {
		req.TTL = int64(ttl.Seconds())
	}
	err := c.authedPost("/register", req, &resp)
	return resp, err
}

// Deregister removes the client's own registry row.
func (c *Client) Deregister() (protocol.DeregisterResponse, error) {
	var resp protocol.DeregisterResponse
	err := c.authedPost("/deregister", nil, &resp)
	return resp, err
}

// Lookup fetches the live registry row for did. Unauthenticated, per spec.
func (c *Client) Lookup(did string) (protocol.LookupResponse, error) {
	var resp protocol.LookupResponse
	err := c.get("/lookup/"+did, &resp)
	return resp, err
}

func (c *Client) authedPost(path string, body interface{}, out interface{}) error {
	if c.state != StateAuthenticated {
		return fmt.Errorf("client is not authenticated (state=%s)", c.state)
	}
	req, err := c.newRequest(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.sessionID)

	err = c.do(req, out)
	if re, ok := err.(*protocol.RegError); ok {
		if re.Code == protocol.Unauthorized || re.Code == protocol.SessionExpired {
			c.state = StateIdle
			c.sessionID = ""
		}
	}
	return err
}

func (c *Client) post(path string, body interface{}, out interface{}) error {
	req, err := c.newRequest(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) get(path string, out interface{}) error {
	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body protocol.ErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &protocol.RegError{Code: statusToCode(resp.StatusCode), Message: body.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusToCode recovers an approximate protocol.Code from an HTTP
// status when the server's error body doesn't echo one back. Only the
// codes the client itself acts on (Unauthorized/SessionExpired) need
// to round-trip precisely; anything else is surfaced to the caller via
// the response's error message regardless of its reconstructed code.
func statusToCode(status int) protocol.Code {
	switch status {
	case http.StatusUnauthorized:
		return protocol.Unauthorized
	case http.StatusNotFound:
		return protocol.NotFound
	case http.StatusGone:
		return protocol.Expired
	case http.StatusBadRequest:
		return protocol.HandshakeError
	default:
		return protocol.Internal
	}
}
