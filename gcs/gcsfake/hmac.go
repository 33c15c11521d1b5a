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

	"github.com/ThouCheese/cloud-storage-go/gcs"
)

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveHmacKeys(
	w http.ResponseWriter,
	r *http.Request,
	segments []string) {
	if segments[0] != s.projectID {
		writeError(w, http.StatusNotFound, "no such project: "+segments[0])
		return
	}

	if len(segments) < 2 || segments[1] != "hmacKeys" {
		writeError(w, http.StatusNotFound, "unknown project path")
		return
	}

	rest := segments[2:]

	switch {
	case len(rest) == 0 && r.Method == "POST":
		s.createHmacKey(w, r)

	case len(rest) == 0 && r.Method == "GET":
		s.listHmacKeys(w)

	case len(rest) == 1:
		s.serveHmacKey(w, r, rest[0])

	default:
		writeError(w, http.StatusNotFound, "unknown hmacKeys path")
	}
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) createHmacKey(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("serviceAccountEmail")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing serviceAccountEmail")
		return
	}

	s.hmacSeq++
	accessID := fmt.Sprintf("GOOG1FAKE%08d", s.hmacSeq)

	meta := &gcs.HmacKeyMetadata{
		Kind:                "storage#hmacKeyMetadata",
		ID:                  s.projectID + "/" + accessID,
		SelfLink:            "/projects/" + s.projectID + "/hmacKeys/" + accessID,
		AccessID:            accessID,
		ProjectID:           s.projectID,
		ServiceAccountEmail: email,
		State:               gcs.HmacKeyActive,
		TimeCreated:         s.now(),
		Updated:             s.now(),
		Etag:                "hmac-etag",
	}

	s.hmacKeys[accessID] = meta

	writeJSON(w, &gcs.HmacKey{
		Kind:     "storage#hmacKey",
		Metadata: *meta,
		Secret:   fmt.Sprintf("fake-secret-%08d", s.hmacSeq),
	})
}

// A project without keys gets a bare kind record, like the real server
// sends.
//
// LOCKS_REQUIRED(s.mu)
func (s *Server) listHmacKeys(w http.ResponseWriter) {
	if len(s.hmacKeys) == 0 {
		writeJSON(w, map[string]string{"kind": "storage#hmacKeysMetadata"})
		return
	}

	var ids []string
	for id := range s.hmacKeys {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	var items []*gcs.HmacKeyMetadata
	for _, id := range ids {
		items = append(items, s.hmacKeys[id])
	}

	writeJSON(w, map[string]interface{}{
		"kind":  "storage#hmacKeysMetadata",
		"items": items,
	})
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveHmacKey(
	w http.ResponseWriter,
	r *http.Request,
	accessID string) {
	meta := s.hmacKeys[accessID]
	if meta == nil {
		writeError(w, http.StatusNotFound, "no such key: "+accessID)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, meta)

	case "PUT":
		var update struct {
			State gcs.HmacKeyState `json:"state"`
		}

		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad state record")
			return
		}

		if update.State != gcs.HmacKeyActive &&
			update.State != gcs.HmacKeyInactive {
			writeError(
				w,
				http.StatusBadRequest,
				"bad state: "+string(update.State))

			return
		}

		meta.State = update.State
		meta.Updated = s.now()
		writeJSON(w, meta)

	case "DELETE":
		if meta.State != gcs.HmacKeyInactive {
			writeError(
				w,
				http.StatusBadRequest,
				"key must be inactive to be deleted")

			return
		}

		delete(s.hmacKeys, accessID)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}
