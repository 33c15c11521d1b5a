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

// Package gcsfake provides an in-memory implementation of the storage JSON
// API, for use in tests. Wrap a Server in httptest.NewServer and point a
// client at it with ClientBuilder.Endpoints.
package gcsfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThouCheese/cloud-storage-go/gcs"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
)

// Create a fake server whose timestamps come from the supplied clock.
func NewServer(projectID string, clock timeutil.Clock) *Server {
	s := &Server{
		clock:     clock,
		projectID: projectID,
		buckets:   make(map[string]*bucketState),
		hmacKeys:  make(map[string]*gcs.HmacKeyMetadata),
	}

	s.mu = syncutil.NewInvariantMutex(s.checkInvariants)
	return s
}

// An in-memory storage server. Safe for concurrent use. The zero value is
// not usable; call NewServer.
type Server struct {
	clock     timeutil.Clock
	projectID string

	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	buckets map[string]*bucketState

	// Keyed by access ID.
	//
	// GUARDED_BY(mu)
	hmacKeys map[string]*gcs.HmacKeyMetadata

	// GUARDED_BY(mu)
	hmacSeq int

	// GUARDED_BY(mu)
	generationSeq int64

	// When non-nil, the next request is answered with this response instead
	// of being handled.
	//
	// GUARDED_BY(mu)
	injected *injectedResponse
}

type injectedResponse struct {
	status int
	body   []byte
}

type bucketState struct {
	meta *gcs.Bucket

	// Keyed by object name.
	objects map[string]*objectState

	// Keyed by ACL entity.
	acls        map[gcs.ACLEntity]*gcs.BucketACL
	defaultACLs map[gcs.ACLEntity]*gcs.DefaultObjectACL

	policy *gcs.IamPolicy
}

type objectState struct {
	meta     *gcs.Object
	contents []byte

	acls map[gcs.ACLEntity]*gcs.ObjectACL
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) checkInvariants() {
	for name, b := range s.buckets {
		if b.meta.Name != name {
			panic(fmt.Sprintf("bucket name mismatch: %q vs. %q",
				b.meta.Name, name))
		}

		for oName, o := range b.objects {
			if o.meta.Name != oName {
				panic(fmt.Sprintf("object name mismatch: %q vs. %q",
					o.meta.Name, oName))
			}

			if o.meta.Size != uint64(len(o.contents)) {
				panic(fmt.Sprintf("size mismatch for %q: %d vs. %d",
					oName, o.meta.Size, len(o.contents)))
			}
		}
	}
}

// Answer the next request with the supplied status and body, bypassing the
// usual handling. Useful for testing error classification, including
// 200-with-error-envelope responses.
//
// LOCKS_EXCLUDED(s.mu)
func (s *Server) InjectResponse(status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.injected = &injectedResponse{status: status, body: body}
}

////////////////////////////////////////////////////////////////////////
// Routing
////////////////////////////////////////////////////////////////////////

// LOCKS_EXCLUDED(s.mu)
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.injected != nil {
		i := s.injected
		s.injected = nil

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(i.status)
		w.Write(i.body)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	// Decode each path segment separately so that escaped slashes in object
	// names survive.
	path := r.URL.EscapedPath()
	path = strings.TrimPrefix(path, "/upload/storage/v1")
	path = strings.TrimPrefix(path, "/storage/v1")

	segments, err := splitPath(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case len(segments) >= 1 && segments[0] == "b":
		s.serveBuckets(w, r, segments[1:])

	case len(segments) >= 2 && segments[0] == "projects":
		s.serveHmacKeys(w, r, segments[1:])

	default:
		writeError(w, http.StatusNotFound, "unknown path: "+path)
	}
}

func splitPath(path string) (segments []string, err error) {
	for _, raw := range strings.Split(strings.Trim(path, "/"), "/") {
		var seg string
		seg, err = url.PathUnescape(raw)
		if err != nil {
			err = fmt.Errorf("malformed path segment %q: %v", raw, err)
			return
		}

		segments = append(segments, seg)
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Response helpers
////////////////////////////////////////////////////////////////////////

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"errors": []map[string]string{
				{
					"domain":  "global",
					"reason":  reasonForStatus(status),
					"message": message,
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "notFound"

	case http.StatusUnauthorized:
		return "authError"

	case http.StatusForbidden:
		return "forbidden"

	case http.StatusPreconditionFailed:
		return "conditionNotMet"

	default:
		return "invalid"
	}
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) nextGeneration() int64 {
	s.generationSeq++
	return s.generationSeq
}

func (s *Server) now() time.Time {
	return s.clock.Now().UTC()
}
