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

// A client for bucket-level operations. Obtain via Client.Buckets.
type BucketClient struct {
	client *Client
}

// The wire shape of a bucket listing.
type BucketList struct {
	Kind  string    `json:"kind,omitempty"`
	Items []*Bucket `json:"items"`
}

func (bc *BucketClient) bucketURL(name string, q url.Values) string {
	return buildURL(
		bc.client.baseURL,
		fmt.Sprintf("/b/%s", httputil.PercentEncode(name)),
		q)
}

// Create a bucket in the credentials' project.
func (bc *BucketClient) Create(
	ctx context.Context,
	req *CreateBucketRequest) (b *Bucket, err error) {
	desc := fmt.Sprintf("CreateBucket: %s", req.Name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	q.Set("project", bc.client.sa.ProjectID)

	urlStr := buildURL(bc.client.baseURL, "/b", q)

	b = &Bucket{}
	err = bc.client.jsonCall(ctx, "POST", urlStr, req, b)
	if err != nil {
		b = nil
	}

	return
}

// List the buckets in the credentials' project.
func (bc *BucketClient) List(ctx context.Context) (
	buckets []*Bucket, err error) {
	defer reqtrace.StartSpanWithError(&ctx, &err, "ListBuckets")()

	q := url.Values{}
	q.Set("project", bc.client.sa.ProjectID)

	urlStr := buildURL(bc.client.baseURL, "/b", q)

	var list BucketList
	err = bc.client.jsonCall(ctx, "GET", urlStr, nil, &list)
	if err != nil {
		return
	}

	buckets = list.Items
	return
}

// Fetch a bucket's metadata record.
func (bc *BucketClient) Read(ctx context.Context, name string) (
	b *Bucket, err error) {
	desc := fmt.Sprintf("ReadBucket: %s", name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	b = &Bucket{}
	err = bc.client.jsonCall(ctx, "GET", bc.bucketURL(name, nil), nil, b)
	if err != nil {
		b = nil
	}

	return
}

// Replace a bucket's metadata record. The bucket is addressed by the
// record's own name field.
func (bc *BucketClient) Update(ctx context.Context, b *Bucket) (
	updated *Bucket, err error) {
	desc := fmt.Sprintf("UpdateBucket: %s", b.Name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	updated = &Bucket{}
	err = bc.client.jsonCall(ctx, "PUT", bc.bucketURL(b.Name, nil), b, updated)
	if err != nil {
		updated = nil
	}

	return
}

// Delete a bucket. The bucket must be empty.
func (bc *BucketClient) Delete(ctx context.Context, name string) (err error) {
	desc := fmt.Sprintf("DeleteBucket: %s", name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	err = bc.client.jsonCall(ctx, "DELETE", bc.bucketURL(name, nil), nil, nil)
	return
}

// Fetch a bucket's IAM policy.
func (bc *BucketClient) GetIamPolicy(ctx context.Context, name string) (
	policy *IamPolicy, err error) {
	desc := fmt.Sprintf("GetBucketIamPolicy: %s", name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	urlStr := buildURL(
		bc.client.baseURL,
		fmt.Sprintf("/b/%s/iam", httputil.PercentEncode(name)),
		nil)

	policy = &IamPolicy{}
	err = bc.client.jsonCall(ctx, "GET", urlStr, nil, policy)
	if err != nil {
		policy = nil
	}

	return
}

// Replace a bucket's IAM policy, returning the policy as stored.
func (bc *BucketClient) SetIamPolicy(
	ctx context.Context,
	name string,
	policy *IamPolicy) (stored *IamPolicy, err error) {
	desc := fmt.Sprintf("SetBucketIamPolicy: %s", name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	urlStr := buildURL(
		bc.client.baseURL,
		fmt.Sprintf("/b/%s/iam", httputil.PercentEncode(name)),
		nil)

	stored = &IamPolicy{}
	err = bc.client.jsonCall(ctx, "PUT", urlStr, policy, stored)
	if err != nil {
		stored = nil
	}

	return
}

// Check whether the caller holds permission on the bucket. The
// storage.buckets.list and storage.buckets.create permissions are
// project-scoped and cannot be tested against a bucket, so they are
// rejected without a request.
func (bc *BucketClient) TestIamPermission(
	ctx context.Context,
	name string,
	permission string) (resp *TestIamPermissionResponse, err error) {
	desc := fmt.Sprintf("TestBucketIamPermission: %s", name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	if permission == "storage.buckets.list" ||
		permission == "storage.buckets.create" {
		err = newOtherError(fmt.Sprintf(
			"%q cannot be tested at the bucket level", permission))
		return
	}

	q := url.Values{}
	q.Set("permissions", permission)

	urlStr := buildURL(
		bc.client.baseURL,
		fmt.Sprintf("/b/%s/iam/testPermissions", httputil.PercentEncode(name)),
		q)

	resp = &TestIamPermissionResponse{}
	err = bc.client.jsonCall(ctx, "GET", urlStr, nil, resp)
	if err != nil {
		resp = nil
	}

	return
}
