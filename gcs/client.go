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

// Package gcs is a client for the Google Cloud Storage JSON API: buckets,
// objects, access control lists, HMAC keys, IAM policies and V4 signed URLs.
package gcs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"github.com/ThouCheese/cloud-storage-go/oauthutil"
	"github.com/jacobsa/timeutil"
	"golang.org/x/net/context"
	storagev1 "google.golang.org/api/storage/v1"
)

// OAuth scopes of interest.
const (
	Scope_FullControl = storagev1.DevstorageFullControlScope
	Scope_ReadOnly    = storagev1.DevstorageReadOnlyScope
	Scope_ReadWrite   = storagev1.DevstorageReadWriteScope
)

// Endpoint prefixes for the JSON API.
const (
	MetadataBaseURL = "https://storage.googleapis.com/storage/v1"
	UploadBaseURL   = "https://storage.googleapis.com/upload/storage/v1"
)

const userAgent = "cloud-storage-go/0.1"

// A facade over the JSON API, holding the shared HTTP client, token source
// and service account record. Obtain per-resource clients through the
// factory methods. Safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient  *http.Client
	tokenSource oauthutil.TokenSource
	sa          *oauthutil.ServiceAccount
	clock       timeutil.Clock

	baseURL       string
	uploadBaseURL string
}

// Create a client with everything defaulted: credentials from the
// environment, a full-control token cache, http.DefaultClient and the real
// endpoints. Use NewClientBuilder to substitute any dependency.
func NewClient() (c *Client, err error) {
	return NewClientBuilder().Build()
}

// Assembles a Client, allowing individual dependencies to be replaced before
// Build. The zero builder is not usable; call NewClientBuilder.
type ClientBuilder struct {
	httpClient  *http.Client
	tokenSource oauthutil.TokenSource
	sa          *oauthutil.ServiceAccount
	clock       timeutil.Clock
	scope       string

	baseURL       string
	uploadBaseURL string
}

func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		scope:         Scope_FullControl,
		baseURL:       MetadataBaseURL,
		uploadBaseURL: UploadBaseURL,
	}
}

// Use the supplied HTTP client for all traffic, token exchanges included.
func (b *ClientBuilder) HTTPClient(client *http.Client) *ClientBuilder {
	b.httpClient = client
	return b
}

// Use the supplied token source instead of the default token cache.
func (b *ClientBuilder) TokenSource(ts oauthutil.TokenSource) *ClientBuilder {
	b.tokenSource = ts
	return b
}

// Use the supplied service account instead of loading one from the
// environment.
func (b *ClientBuilder) ServiceAccount(sa *oauthutil.ServiceAccount) *ClientBuilder {
	b.sa = sa
	return b
}

// Use the supplied clock for token expiry and signed URL timestamps.
// Defaults to the real clock.
func (b *ClientBuilder) Clock(clock timeutil.Clock) *ClientBuilder {
	b.clock = clock
	return b
}

// Request the supplied access scope when minting tokens. Defaults to
// Scope_FullControl.
func (b *ClientBuilder) Scope(scope string) *ClientBuilder {
	b.scope = scope
	return b
}

// Point the client at alternate endpoints. Intended for tests and emulators.
func (b *ClientBuilder) Endpoints(base, upload string) *ClientBuilder {
	b.baseURL = base
	b.uploadBaseURL = upload
	return b
}

func (b *ClientBuilder) Build() (c *Client, err error) {
	sa := b.sa
	if sa == nil {
		sa, err = oauthutil.LoadServiceAccount()
		if err != nil {
			err = fmt.Errorf("Loading service account: %v", err)
			return
		}
	}

	clock := b.clock
	if clock == nil {
		clock = timeutil.RealClock()
	}

	httpClient := b.httpClient
	if httpClient == nil {
		transport := httputil.DebuggingRoundTripper(http.DefaultTransport)
		httpClient = &http.Client{Transport: transport}
	}

	ts := b.tokenSource
	if ts == nil {
		ts = oauthutil.NewTokenCache(sa, b.scope, clock)
	}

	c = &Client{
		httpClient:    httpClient,
		tokenSource:   ts,
		sa:            sa,
		clock:         clock,
		baseURL:       b.baseURL,
		uploadBaseURL: b.uploadBaseURL,
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Factories
////////////////////////////////////////////////////////////////////////

// Return a client for bucket operations.
func (c *Client) Buckets() *BucketClient {
	return &BucketClient{client: c}
}

// Return a client for the objects in the supplied bucket.
func (c *Client) Objects(bucket string) *ObjectClient {
	return &ObjectClient{client: c, bucket: bucket}
}

// Return a client for the bucket-scope ACL of the supplied bucket.
func (c *Client) BucketACLs(bucket string) *BucketACLClient {
	return &BucketACLClient{client: c, bucket: bucket}
}

// Return a client for the ACL of one object.
func (c *Client) ObjectACLs(bucket, object string) *ObjectACLClient {
	return &ObjectACLClient{client: c, bucket: bucket, object: object}
}

// Return a client for the default object ACL of the supplied bucket.
func (c *Client) DefaultObjectACLs(bucket string) *DefaultObjectACLClient {
	return &DefaultObjectACLClient{client: c, bucket: bucket}
}

// Return a client for the project's HMAC keys.
func (c *Client) HmacKeys() *HmacKeyClient {
	return &HmacKeyClient{client: c}
}

////////////////////////////////////////////////////////////////////////
// Plumbing
////////////////////////////////////////////////////////////////////////

// Assemble a URL from pre-encoded path segments and a query. The segments
// must already be percent-encoded; assembling the string by hand keeps
// escaped slashes in object names intact.
func buildURL(base, encodedPath string, q url.Values) string {
	s := base + encodedPath
	if len(q) > 0 {
		s += "?" + q.Encode()
	}

	return s
}

// Create a request with the user agent and a bearer token attached. A
// negative contentLength means unknown.
func (c *Client) newRequest(
	ctx context.Context,
	method string,
	urlStr string,
	body io.Reader,
	contentLength int64) (req *http.Request, err error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		err = newOtherError(fmt.Sprintf("parsing URL %q: %v", urlStr, err))
		return
	}

	req, err = httputil.NewRequest(method, u, body, contentLength, userAgent)
	if err != nil {
		err = newOtherError(fmt.Sprintf("creating request: %v", err))
		return
	}

	token, err := c.tokenSource.Token(ctx, c.httpClient)
	if err != nil {
		err = classifyAuthError(err)
		return
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return
}

func (c *Client) do(
	ctx context.Context,
	req *http.Request) (res *http.Response, err error) {
	res, err = httputil.Do(ctx, c.httpClient, req)
	if err != nil {
		err = newTransportError(err)
		return
	}

	return
}

// Issue a JSON API call. in, when non-nil, is marshalled as the request
// body. out, when non-nil, receives the decoded success envelope. Bodyless
// POST requests are sent with an explicit zero Content-Length, which the
// copy, rewrite and HMAC-create endpoints require.
func (c *Client) jsonCall(
	ctx context.Context,
	method string,
	urlStr string,
	in interface{},
	out interface{}) (err error) {
	var body io.Reader = http.NoBody
	var length int64 = 0

	if in != nil {
		var encoded []byte
		encoded, err = json.Marshal(in)
		if err != nil {
			err = newSerializationError(err)
			return
		}

		body = bytes.NewReader(encoded)
		length = int64(len(encoded))
	}

	req, err := c.newRequest(ctx, method, urlStr, body, length)
	if err != nil {
		return
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.do(ctx, req)
	if err != nil {
		return
	}

	err = decodeResponse(res, out)
	return
}
