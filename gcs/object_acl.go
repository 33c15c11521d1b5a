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

// A client for one object's ACL entries. Obtain via Client.ObjectACLs.
type ObjectACLClient struct {
	client *Client
	bucket string
	object string
}

func (ac *ObjectACLClient) listURL() string {
	return buildURL(
		ac.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s/acl",
			httputil.PercentEncode(ac.bucket),
			httputil.PercentEncode(ac.object)),
		nil)
}

func (ac *ObjectACLClient) entryURL(entity ACLEntity) string {
	return ac.listURL() + "/" + httputil.PercentEncode(string(entity))
}

// Grant role to entity on the object.
func (ac *ObjectACLClient) Create(
	ctx context.Context,
	acl *NewACL) (entry *ObjectACL, err error) {
	desc := fmt.Sprintf(
		"CreateObjectACL: %s/%s %s", ac.bucket, ac.object, acl.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	entry = &ObjectACL{}
	err = ac.client.jsonCall(ctx, "POST", ac.listURL(), acl, entry)
	if err != nil {
		entry = nil
	}

	return
}

// List the object's ACL entries.
func (ac *ObjectACLClient) List(ctx context.Context) (
	entries []*ObjectACL, err error) {
	desc := fmt.Sprintf("ListObjectACLs: %s/%s", ac.bucket, ac.object)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	var list struct {
		Items []*ObjectACL `json:"items"`
	}

	err = ac.client.jsonCall(ctx, "GET", ac.listURL(), nil, &list)
	if err != nil {
		return
	}

	entries = list.Items
	return
}

// Fetch the object's ACL entry for entity.
func (ac *ObjectACLClient) Read(ctx context.Context, entity ACLEntity) (
	entry *ObjectACL, err error) {
	desc := fmt.Sprintf("ReadObjectACL: %s/%s %s", ac.bucket, ac.object, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	entry = &ObjectACL{}
	err = ac.client.jsonCall(ctx, "GET", ac.entryURL(entity), nil, entry)
	if err != nil {
		entry = nil
	}

	return
}

// Replace an ACL entry, typically to change its role.
func (ac *ObjectACLClient) Update(ctx context.Context, entry *ObjectACL) (
	updated *ObjectACL, err error) {
	desc := fmt.Sprintf(
		"UpdateObjectACL: %s/%s %s", ac.bucket, ac.object, entry.Entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	updated = &ObjectACL{}
	err = ac.client.jsonCall(
		ctx, "PUT", ac.entryURL(entry.Entity), entry, updated)
	if err != nil {
		updated = nil
	}

	return
}

// Revoke entity's grant on the object.
func (ac *ObjectACLClient) Delete(ctx context.Context, entity ACLEntity) (
	err error) {
	desc := fmt.Sprintf(
		"DeleteObjectACL: %s/%s %s", ac.bucket, ac.object, entity)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	err = ac.client.jsonCall(ctx, "DELETE", ac.entryURL(entity), nil, nil)
	return
}
