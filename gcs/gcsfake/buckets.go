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

package gcsfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ThouCheese/cloud-storage-go/gcs"
)

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveBuckets(
	w http.ResponseWriter,
	r *http.Request,
	segments []string) {
	if len(segments) == 0 {
		switch r.Method {
		case "POST":
			s.createBucket(w, r)

		case "GET":
			s.listBuckets(w, r)

		default:
			writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
		}

		return
	}

	name := segments[0]
	rest := segments[1:]

	if len(rest) == 0 {
		s.serveBucket(w, r, name)
		return
	}

	b := s.buckets[name]
	if b == nil {
		writeError(w, http.StatusNotFound, "no such bucket: "+name)
		return
	}

	switch rest[0] {
	case "o":
		s.serveObjects(w, r, b, rest[1:])

	case "iam":
		s.serveIam(w, r, b, rest[1:])

	case "acl":
		s.serveBucketACLs(w, r, b, rest[1:])

	case "defaultObjectAcl":
		s.serveDefaultObjectACLs(w, r, b, rest[1:])

	default:
		writeError(w, http.StatusNotFound, "unknown bucket path")
	}
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) createBucket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("project") != s.projectID {
		writeError(w, http.StatusBadRequest, "missing or wrong project")
		return
	}

	var req gcs.CreateBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad bucket record")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing bucket name")
		return
	}

	if s.buckets[req.Name] != nil {
		writeError(w, http.StatusConflict, "bucket exists: "+req.Name)
		return
	}

	now := s.now()

	location := req.Location
	if location == "" {
		location = "US"
	}

	storageClass := req.StorageClass
	if storageClass == "" {
		storageClass = gcs.StorageClassStandard
	}

	b := &bucketState{
		meta: &gcs.Bucket{
			Kind:             "storage#bucket",
			ID:               req.Name,
			SelfLink:         "/b/" + req.Name,
			Name:             req.Name,
			ProjectNumber:    1,
			MetaGeneration:   1,
			Location:         location,
			LocationType:     "multi-region",
			StorageClass:     storageClass,
			TimeCreated:      now,
			Updated:          now,
			Versioning:       req.Versioning,
			Lifecycle:        req.Lifecycle,
			Labels:           req.Labels,
			IamConfiguration: req.IamConfiguration,
			Etag:             "bucket-etag",
		},
		objects:     make(map[string]*objectState),
		acls:        make(map[gcs.ACLEntity]*gcs.BucketACL),
		defaultACLs: make(map[gcs.ACLEntity]*gcs.DefaultObjectACL),
		policy: &gcs.IamPolicy{
			Kind:       "storage#policy",
			Version:    1,
			ResourceID: "projects/_/buckets/" + req.Name,
			Etag:       "policy-etag",
		},
	}

	s.buckets[req.Name] = b
	writeJSON(w, b.meta)
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) listBuckets(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("project") != s.projectID {
		writeError(w, http.StatusBadRequest, "missing or wrong project")
		return
	}

	var names []string
	for name := range s.buckets {
		names = append(names, name)
	}

	sort.Strings(names)

	list := &gcs.BucketList{
		Kind: "storage#buckets",
	}

	for _, name := range names {
		list.Items = append(list.Items, s.buckets[name].meta)
	}

	writeJSON(w, list)
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveBucket(
	w http.ResponseWriter,
	r *http.Request,
	name string) {
	b := s.buckets[name]
	if b == nil {
		writeError(w, http.StatusNotFound, "no such bucket: "+name)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, b.meta)

	case "PUT":
		var update gcs.Bucket
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad bucket record")
			return
		}

		b.meta.Labels = update.Labels
		b.meta.Versioning = update.Versioning
		b.meta.Lifecycle = update.Lifecycle
		b.meta.Cors = update.Cors
		b.meta.Billing = update.Billing
		b.meta.DefaultEventBasedHold = update.DefaultEventBasedHold
		b.meta.MetaGeneration++
		b.meta.Updated = s.now()

		writeJSON(w, b.meta)

	case "DELETE":
		if len(b.objects) != 0 {
			writeError(w, http.StatusConflict, "bucket not empty: "+name)
			return
		}

		delete(s.buckets, name)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}

////////////////////////////////////////////////////////////////////////
// IAM
////////////////////////////////////////////////////////////////////////

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveIam(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	segments []string) {
	switch {
	case len(segments) == 0 && r.Method == "GET":
		writeJSON(w, b.policy)

	case len(segments) == 0 && r.Method == "PUT":
		var policy gcs.IamPolicy
		if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
			writeError(w, http.StatusBadRequest, "bad policy record")
			return
		}

		policy.Kind = "storage#policy"
		policy.ResourceID = b.policy.ResourceID
		policy.Etag = "policy-etag"
		b.policy = &policy

		writeJSON(w, b.policy)

	case len(segments) == 1 && segments[0] == "testPermissions" &&
		r.Method == "GET":
		// Report every bucket-scoped permission as granted.
		var granted []string
		for _, p := range r.URL.Query()["permissions"] {
			if strings.HasPrefix(p, "storage.") {
				granted = append(granted, p)
			}
		}

		writeJSON(w, &gcs.TestIamPermissionResponse{
			Kind:        "storage#testIamPermissionsResponse",
			Permissions: granted,
		})

	default:
		writeError(w, http.StatusNotFound, "unknown iam path")
	}
}

////////////////////////////////////////////////////////////////////////
// Bucket ACLs
////////////////////////////////////////////////////////////////////////

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveBucketACLs(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	segments []string) {
	if len(segments) == 0 {
		switch r.Method {
		case "POST":
			var req gcs.NewACL
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad ACL record")
				return
			}

			entry := &gcs.BucketACL{
				Kind:   "storage#bucketAccessControl",
				ID:     fmt.Sprintf("%s/%s", b.meta.Name, req.Entity),
				Bucket: b.meta.Name,
				Entity: req.Entity,
				Role:   req.Role,
				Etag:   "acl-etag",
			}

			b.acls[req.Entity] = entry
			writeJSON(w, entry)

		case "GET":
			var items []*gcs.BucketACL
			for _, entry := range b.acls {
				items = append(items, entry)
			}

			sort.Slice(items, func(i, j int) bool {
				return items[i].Entity < items[j].Entity
			})

			writeJSON(w, map[string]interface{}{
				"kind":  "storage#bucketAccessControls",
				"items": items,
			})

		default:
			writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
		}

		return
	}

	entity := gcs.ACLEntity(segments[0])
	entry := b.acls[entity]
	if entry == nil {
		writeError(w, http.StatusNotFound, "no such entity: "+string(entity))
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, entry)

	case "PUT":
		var update gcs.BucketACL
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad ACL record")
			return
		}

		entry.Role = update.Role
		writeJSON(w, entry)

	case "DELETE":
		delete(b.acls, entity)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}

////////////////////////////////////////////////////////////////////////
// Default object ACLs
////////////////////////////////////////////////////////////////////////

// Like the real server, responses here omit the bucket field.
//
// LOCKS_REQUIRED(s.mu)
func (s *Server) serveDefaultObjectACLs(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	segments []string) {
	if len(segments) == 0 {
		switch r.Method {
		case "POST":
			var req gcs.NewACL
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad ACL record")
				return
			}

			entry := &gcs.DefaultObjectACL{
				Kind:   "storage#objectAccessControl",
				Entity: req.Entity,
				Role:   req.Role,
				Etag:   "acl-etag",
			}

			b.defaultACLs[req.Entity] = entry
			writeJSON(w, entry)

		case "GET":
			var items []*gcs.DefaultObjectACL
			for _, entry := range b.defaultACLs {
				items = append(items, entry)
			}

			sort.Slice(items, func(i, j int) bool {
				return items[i].Entity < items[j].Entity
			})

			writeJSON(w, map[string]interface{}{
				"kind":  "storage#objectAccessControls",
				"items": items,
			})

		default:
			writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
		}

		return
	}

	entity := gcs.ACLEntity(segments[0])
	entry := b.defaultACLs[entity]
	if entry == nil {
		writeError(w, http.StatusNotFound, "no such entity: "+string(entity))
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, entry)

	case "PUT":
		var update gcs.DefaultObjectACL
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad ACL record")
			return
		}

		entry.Role = update.Role
		writeJSON(w, entry)

	case "DELETE":
		delete(b.defaultACLs, entity)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}
