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
	"net/http"

	"golang.org/x/net/context"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Set up an authenticated HTTP client from service account credentials JSON,
// using the golang.org/x/oauth2 machinery for token management. This is an
// alternative to NewTokenCache for hosts that prefer a client whose transport
// injects tokens itself.
func NewJWTHttpClient(
	jsonKey []byte,
	scopes []string) (client *http.Client, err error) {
	config, err := google.JWTConfigFromJSON(jsonKey, scopes...)
	if err != nil {
		return
	}

	client = config.Client(context.Background())
	return
}

// Adapt an oauth2.TokenSource into a TokenSource. The source is wrapped in
// oauth2.ReuseTokenSource, so the underlying source is consulted only when
// the last token it produced has expired.
func AdaptOAuth2TokenSource(ts oauth2.TokenSource) TokenSource {
	return &oauth2TokenSource{
		wrapped: oauth2.ReuseTokenSource(nil, ts),
	}
}

// Create a TokenSource that obtains tokens from the GCE metadata server.
// Usable only on Google Compute Engine and its derivatives, where the
// instance's service account supplies the tokens.
func ComputeTokenSource() TokenSource {
	return AdaptOAuth2TokenSource(google.ComputeTokenSource(""))
}

type oauth2TokenSource struct {
	wrapped oauth2.TokenSource
}

func (ts *oauth2TokenSource) Token(
	ctx context.Context,
	client *http.Client) (token string, err error) {
	t, err := ts.wrapped.Token()
	if err != nil {
		return
	}

	token = t.AccessToken
	return
}
