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

package gcs

import (
	"fmt"
	"net/url"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"github.com/jacobsa/reqtrace"
	"golang.org/x/net/context"
)

// A client for the HMAC keys of the credentials' project. Obtain via
// Client.HmacKeys.
type HmacKeyClient struct {
	client *Client
}

func (hc *HmacKeyClient) collectionURL(q url.Values) string {
	return buildURL(
		hc.client.baseURL,
		fmt.Sprintf(
			"/projects/%s/hmacKeys",
			httputil.PercentEncode(hc.client.sa.ProjectID)),
		q)
}

func (hc *HmacKeyClient) keyURL(accessID string) string {
	return hc.collectionURL(nil) + "/" + httputil.PercentEncode(accessID)
}

// Mint an HMAC key for the credentials' service account. The secret is
// returned only here; subsequent reads yield metadata alone.
func (hc *HmacKeyClient) Create(ctx context.Context) (
	key *HmacKey, err error) {
	defer reqtrace.StartSpanWithError(&ctx, &err, "CreateHmacKey")()

	q := url.Values{}
	q.Set("serviceAccountEmail", hc.client.sa.ClientEmail)

	key = &HmacKey{}
	err = hc.client.jsonCall(ctx, "POST", hc.collectionURL(q), nil, key)
	if err != nil {
		key = nil
	}

	return
}

// List the metadata of the project's HMAC keys. A project without keys is
// reported as an empty list; the server omits the items field in that case.
func (hc *HmacKeyClient) List(ctx context.Context) (
	keys []*HmacKeyMetadata, err error) {
	defer reqtrace.StartSpanWithError(&ctx, &err, "ListHmacKeys")()

	var list struct {
		Items []*HmacKeyMetadata `json:"items"`
	}

	err = hc.client.jsonCall(ctx, "GET", hc.collectionURL(nil), nil, &list)
	if err != nil {
		return
	}

	keys = list.Items
	return
}

// Fetch one key's metadata by access ID.
func (hc *HmacKeyClient) Read(ctx context.Context, accessID string) (
	meta *HmacKeyMetadata, err error) {
	desc := fmt.Sprintf("ReadHmacKey: %s", accessID)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	meta = &HmacKeyMetadata{}
	err = hc.client.jsonCall(ctx, "GET", hc.keyURL(accessID), nil, meta)
	if err != nil {
		meta = nil
	}

	return
}

// Set a key's state to HmacKeyActive or HmacKeyInactive.
func (hc *HmacKeyClient) Update(
	ctx context.Context,
	accessID string,
	state HmacKeyState) (meta *HmacKeyMetadata, err error) {
	desc := fmt.Sprintf("UpdateHmacKey: %s", accessID)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	body := struct {
		State HmacKeyState `json:"state"`
	}{
		State: state,
	}

	meta = &HmacKeyMetadata{}
	err = hc.client.jsonCall(ctx, "PUT", hc.keyURL(accessID), &body, meta)
	if err != nil {
		meta = nil
	}

	return
}

// Delete a key. The key must be inactive.
func (hc *HmacKeyClient) Delete(ctx context.Context, accessID string) (
	err error) {
	desc := fmt.Sprintf("DeleteHmacKey: %s", accessID)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	err = hc.client.jsonCall(ctx, "DELETE", hc.keyURL(accessID), nil, nil)
	return
}
