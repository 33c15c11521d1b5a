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

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"github.com/jacobsa/reqtrace"
	"golang.org/x/net/context"
)

// A client for one bucket's ACL entries. Obtain via Client.BucketACLs.
//
// Buckets with uniform bucket-level access enabled reject all of these
// operations; the server reports the error.
type BucketACLClient struct {
	client *Client
	bucket string
}

func (ac *BucketACLClient) entryURL(entity ACLEntity) string {
	return buildURL(
		ac.client.baseURL,
		fmt.Sprintf(
			"/b/%s/acl/%s",
			httputil.PercentEncode(ac.bucket),
			httputil.PercentEncode(string(entity))),
		nil)
}

// Grant role to entity on the bucket.
func (ac *BucketACLClient) Create(
	ctx context.Context,
	acl *NewACL) (entry *BucketACL, err error) {
	desc := fmt.Sprintf("CreateBucketACL: %s/%s", ac.bucket, acl.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	urlStr := buildURL(
		ac.client.baseURL,
		fmt.Sprintf("/b/%s/acl", httputil.PercentEncode(ac.bucket)),
		nil)

	entry = &BucketACL{}
	err = ac.client.jsonCall(ctx, "POST", urlStr, acl, entry)
	if err != nil {
		entry = nil
	}

	return
}

// List the bucket's ACL entries.
func (ac *BucketACLClient) List(ctx context.Context) (
	entries []*BucketACL, err error) {
	desc := fmt.Sprintf("ListBucketACLs: %s", ac.bucket)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	urlStr := buildURL(
		ac.client.baseURL,
		fmt.Sprintf("/b/%s/acl", httputil.PercentEncode(ac.bucket)),
		nil)

	var list struct {
		Items []*BucketACL `json:"items"`
	}

	err = ac.client.jsonCall(ctx, "GET", urlStr, nil, &list)
	if err != nil {
		return
	}

	entries = list.Items
	return
}

// Fetch the bucket's ACL entry for entity.
func (ac *BucketACLClient) Read(ctx context.Context, entity ACLEntity) (
	entry *BucketACL, err error) {
	desc := fmt.Sprintf("ReadBucketACL: %s/%s", ac.bucket, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	entry = &BucketACL{}
	err = ac.client.jsonCall(ctx, "GET", ac.entryURL(entity), nil, entry)
	if err != nil {
		entry = nil
	}

	return
}

// Replace an ACL entry, typically to change its role.
func (ac *BucketACLClient) Update(ctx context.Context, entry *BucketACL) (
	updated *BucketACL, err error) {
	desc := fmt.Sprintf("UpdateBucketACL: %s/%s", ac.bucket, entry.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	updated = &BucketACL{}
	err = ac.client.jsonCall(
		ctx, "PUT", ac.entryURL(entry.Entity), entry, updated)
	if err != nil {
		updated = nil
	}

	return
}

// Revoke entity's grant on the bucket.
func (ac *BucketACLClient) Delete(ctx context.Context, entity ACLEntity) (
	err error) {
	desc := fmt.Sprintf("DeleteBucketACL: %s/%s", ac.bucket, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	err = ac.client.jsonCall(ctx, "DELETE", ac.entryURL(entity), nil, nil)
	return
}
