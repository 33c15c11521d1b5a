// Copyright 2020 ThouCheese
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oauthutil

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
	"golang.org/x/net/context"
	"golang.org/x/oauth2/jws"
)

// The endpoint that JWT assertions are exchanged against. This is fixed by
// Google's OAuth2 service account flow, independent of the token_uri field in
// the credentials file.
const TokenEndpoint = "https://www.googleapis.com/oauth2/v4/token"

// Minted tokens carry a lifetime of one hour.
const tokenLifetime = time.Hour

// A source of bearer tokens, consulted before every outbound request.
type TokenSource interface {
	// Return a token that is valid at the time of return. The supplied HTTP
	// client is used if a network exchange is needed.
	Token(ctx context.Context, client *http.Client) (string, error)
}

// A TokenSource with visible cache structure. Alternate implementations may
// source tokens from elsewhere (e.g. a metadata server) while preserving the
// same cache semantics.
type TokenCache interface {
	TokenSource

	// Return the cached token and its expiry. ok is false if no token has been
	// stored yet.
	GetToken() (token string, expiry time.Time, ok bool)

	// Atomically replace the cached token.
	SetToken(token string, expiry time.Time)

	// Has the cached token expired (or never been set)?
	IsExpired() bool

	// Exchange credentials for a fresh token, without consulting or updating
	// the cache.
	FetchToken(
		ctx context.Context,
		client *http.Client) (token string, expiry time.Time, err error)
}

// An error encountered while building or signing the JWT assertion.
type JWTError struct {
	Wrapped error
}

func (e *JWTError) Error() string {
	return fmt.Sprintf("Encoding JWT assertion: %v", e.Wrapped)
}

// An error response from the token endpoint.
type EndpointError struct {
	StatusCode int
	Body       string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf(
		"Token endpoint returned HTTP %d: %s",
		e.StatusCode,
		e.Body)
}

// Create a TokenCache that exchanges the supplied service account for tokens
// with the supplied access scope, caching each token until its expiry. The
// clock controls expiry decisions; pass timeutil.RealClock() outside of
// tests.
//
// The cache is safe for concurrent use. Concurrent callers that observe an
// expired token may each mint a replacement; all of them converge on the
// last value stored.
func NewTokenCache(
	sa *ServiceAccount,
	scope string,
	clock timeutil.Clock) TokenCache {
	return NewTokenCacheForEndpoint(sa, scope, TokenEndpoint, clock)
}

// Like NewTokenCache, but POSTing assertions to the supplied URL rather than
// Google's token endpoint. Intended for tests and emulators; the assertion's
// aud claim remains the real endpoint.
func NewTokenCacheForEndpoint(
	sa *ServiceAccount,
	scope string,
	endpoint string,
	clock timeutil.Clock) TokenCache {
	tc := &tokenCache{
		sa:       sa,
		scope:    scope,
		endpoint: endpoint,
		clock:    clock,
	}

	tc.mu = syncutil.NewInvariantMutex(tc.checkInvariants)
	return tc
}

type tokenCache struct {
	sa       *ServiceAccount
	scope    string
	endpoint string
	clock    timeutil.Clock

	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	token string

	// GUARDED_BY(mu)
	expiry time.Time
}

// LOCKS_REQUIRED(tc.mu)
func (tc *tokenCache) checkInvariants() {
	// A token and its expiry are set together.
	if (tc.token == "") != tc.expiry.IsZero() {
		panic(fmt.Sprintf("Torn token pair: %q, %v", tc.token, tc.expiry))
	}
}

// LOCKS_EXCLUDED(tc.mu)
func (tc *tokenCache) GetToken() (token string, expiry time.Time, ok bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	token, expiry = tc.token, tc.expiry
	ok = token != ""

	return
}

// LOCKS_EXCLUDED(tc.mu)
func (tc *tokenCache) SetToken(token string, expiry time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.token = token
	tc.expiry = expiry
}

// LOCKS_EXCLUDED(tc.mu)
func (tc *tokenCache) IsExpired() bool {
	_, expiry, ok := tc.GetToken()
	return !ok || !tc.clock.Now().Before(expiry)
}

// LOCKS_EXCLUDED(tc.mu)
func (tc *tokenCache) FetchToken(
	ctx context.Context,
	client *http.Client) (token string, expiry time.Time, err error) {
	now := tc.clock.Now()

	// Build and sign the assertion.
	claims := &jws.ClaimSet{
		Iss:   tc.sa.ClientEmail,
		Scope: tc.scope,
		Aud:   TokenEndpoint,
		Iat:   now.Unix(),
		Exp:   now.Add(tokenLifetime).Unix(),
	}

	header := &jws.Header{
		Algorithm: "RS256",
		Typ:       "JWT",
	}

	assertion, err := jws.Encode(header, claims, tc.sa.PrivateKey)
	if err != nil {
		err = &JWTError{Wrapped: err}
		return
	}

	// Exchange it at the token endpoint.
	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}

	req, err := http.NewRequest(
		"POST",
		tc.endpoint,
		strings.NewReader(form.Encode()))

	if err != nil {
		err = fmt.Errorf("http.NewRequest: %v", err)
		return
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httputil.Do(ctx, client, req)
	if err != nil {
		err = fmt.Errorf("Token exchange: %v", err)
		return
	}

	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("Reading token response: %v", err)
		return
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		err = &EndpointError{
			StatusCode: res.StatusCode,
			Body:       string(body),
		}

		return
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}

	if err = json.Unmarshal(body, &parsed); err != nil {
		err = fmt.Errorf("Decoding token response: %v", err)
		return
	}

	// The cached expiry is the assertion's exp claim, not the server-reported
	// expires_in. The two normally coincide; when they do not, the claim is
	// the more conservative bound.
	token = parsed.AccessToken
	expiry = now.Add(tokenLifetime)

	return
}

// LOCKS_EXCLUDED(tc.mu)
func (tc *tokenCache) Token(
	ctx context.Context,
	client *http.Client) (token string, err error) {
	// Common case: the cached token is still live.
	token, expiry, ok := tc.GetToken()
	if ok && tc.clock.Now().Before(expiry) {
		return
	}

	// Mint a replacement. A failed mint leaves the previously cached pair in
	// place untouched.
	token, expiry, err = tc.FetchToken(ctx, client)
	if err != nil {
		token = ""
		return
	}

	tc.SetToken(token, expiry)
	return
}
