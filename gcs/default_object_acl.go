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

// A client for one bucket's default object ACL entries, the template applied
// to objects created without an explicit ACL. Obtain via
// Client.DefaultObjectACLs.
//
// The server omits the bucket field from these records, so the client fills
// it in from the request before returning them.
type DefaultObjectACLClient struct {
	client *Client
	bucket string
}

func (ac *DefaultObjectACLClient) listURL() string {
	return buildURL(
		ac.client.baseURL,
		fmt.Sprintf(
			"/b/%s/defaultObjectAcl",
			httputil.PercentEncode(ac.bucket)),
		nil)
}

func (ac *DefaultObjectACLClient) entryURL(entity ACLEntity) string {
	return ac.listURL() + "/" + httputil.PercentEncode(string(entity))
}

// Grant role to entity on all future objects in the bucket.
func (ac *DefaultObjectACLClient) Create(
	ctx context.Context,
	acl *NewACL) (entry *DefaultObjectACL, err error) {
	desc := fmt.Sprintf(
		"CreateDefaultObjectACL: %s/%s", ac.bucket, acl.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	entry = &DefaultObjectACL{}
	err = ac.client.jsonCall(ctx, "POST", ac.listURL(), acl, entry)
	if err != nil {
		entry = nil
		return
	}

	entry.Bucket = ac.bucket
	return
}

// List the bucket's default object ACL entries.
func (ac *DefaultObjectACLClient) List(ctx context.Context) (
	entries []*DefaultObjectACL, err error) {
	desc := fmt.Sprintf("ListDefaultObjectACLs: %s", ac.bucket)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	var list struct {
		Items []*DefaultObjectACL `json:"items"`
	}

	err = ac.client.jsonCall(ctx, "GET", ac.listURL(), nil, &list)
	if err != nil {
		return
	}

	for _, entry := range list.Items {
		entry.Bucket = ac.bucket
	}

	entries = list.Items
	return
}

// Fetch the bucket's default object ACL entry for entity.
func (ac *DefaultObjectACLClient) Read(ctx context.Context, entity ACLEntity) (
	entry *DefaultObjectACL, err error) {
	desc := fmt.Sprintf("ReadDefaultObjectACL: %s/%s", ac.bucket, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	entry = &DefaultObjectACL{}
	err = ac.client.jsonCall(ctx, "GET", ac.entryURL(entity), nil, entry)
	if err != nil {
		entry = nil
		return
	}

	entry.Bucket = ac.bucket
	return
}

// Replace a default object ACL entry, typically to change its role.
func (ac *DefaultObjectACLClient) Update(
	ctx context.Context,
	entry *DefaultObjectACL) (updated *DefaultObjectACL, err error) {
	desc := fmt.Sprintf(
		"UpdateDefaultObjectACL: %s/%s", ac.bucket, entry.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	updated = &DefaultObjectACL{}
	err = ac.client.jsonCall(
		ctx, "PUT", ac.entryURL(entry.Entity), entry, updated)
	if err != nil {
		updated = nil
		return
	}

	updated.Bucket = ac.bucket
	return
}

// Remove entity from the bucket's default object ACL.
func (ac *DefaultObjectACLClient) Delete(
	ctx context.Context,
	entity ACLEntity) (err error) {
	desc := fmt.Sprintf("DeleteDefaultObjectACL: %s/%s", ac.bucket, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	err = ac.client.jsonCall(ctx, "DELETE", ac.entryURL(entity), nil, nil)
	return
}
