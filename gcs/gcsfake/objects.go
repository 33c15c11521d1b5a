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
	"crypto/md5"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io/ioutil"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ThouCheese/cloud-storage-go/gcs"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveObjects(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	segments []string) {
	switch {
	case len(segments) == 0 && r.Method == "POST":
		s.createObject(w, r, b)

	case len(segments) == 0 && r.Method == "GET":
		s.listObjects(w, r, b)

	case len(segments) == 1:
		s.serveObject(w, r, b, segments[0])

	case len(segments) == 2 && segments[1] == "compose" && r.Method == "POST":
		s.composeObjects(w, r, b, segments[0])

	case len(segments) == 2 && segments[1] == "acl":
		s.serveObjectACLCollection(w, r, b, segments[0])

	case len(segments) == 3 && segments[1] == "acl":
		s.serveObjectACLEntry(w, r, b, segments[0], gcs.ACLEntity(segments[2]))

	case len(segments) == 6 &&
		(segments[1] == "copyTo" || segments[1] == "rewriteTo") &&
		segments[2] == "b" && segments[4] == "o" &&
		r.Method == "POST":
		s.copyObject(
			w, r, b, segments[0], segments[3], segments[5],
			segments[1] == "rewriteTo")

	default:
		writeError(w, http.StatusNotFound, "unknown object path")
	}
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) createObject(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState) {
	q := r.URL.Query()
	if q.Get("uploadType") != "media" {
		writeError(w, http.StatusBadRequest, "expected uploadType=media")
		return
	}

	name := q.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing object name")
		return
	}

	contents, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}

	existing := b.objects[name]
	if !s.checkGenerationPrecondition(w, q.Get("ifGenerationMatch"), existing) {
		return
	}

	o := s.newObjectState(b, name, contents, r.Header.Get("Content-Type"))
	b.objects[name] = o

	writeJSON(w, o.meta)
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) newObjectState(
	b *bucketState,
	name string,
	contents []byte,
	contentType string) *objectState {
	now := s.now()
	gen := s.nextGeneration()

	md5Sum := md5.Sum(contents)

	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], crc32.Checksum(contents, crc32cTable))

	meta := &gcs.Object{
		Kind:                    "storage#object",
		ID:                      fmt.Sprintf("%s/%s/%d", b.meta.Name, name, gen),
		SelfLink:                fmt.Sprintf("/b/%s/o/%s", b.meta.Name, name),
		MediaLink:               fmt.Sprintf("/b/%s/o/%s?alt=media", b.meta.Name, name),
		Name:                    name,
		Bucket:                  b.meta.Name,
		Generation:              gen,
		MetaGeneration:          1,
		ContentType:             contentType,
		TimeCreated:             now,
		Updated:                 now,
		StorageClass:            b.meta.StorageClass,
		TimeStorageClassUpdated: now,
		Size:                    uint64(len(contents)),
		MD5Hash:                 base64.StdEncoding.EncodeToString(md5Sum[:]),
		CRC32C:                  base64.StdEncoding.EncodeToString(crcBytes[:]),
		Etag:                    fmt.Sprintf("etag-%d", gen),
	}

	return &objectState{
		meta:     meta,
		contents: contents,
		acls:     make(map[gcs.ACLEntity]*gcs.ObjectACL),
	}
}

// Returns false after writing an error response if the precondition fails.
// An ifGenerationMatch of zero demands that the object not exist.
func (s *Server) checkGenerationPrecondition(
	w http.ResponseWriter,
	param string,
	existing *objectState) bool {
	if param == "" {
		return true
	}

	want, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad ifGenerationMatch")
		return false
	}

	var have int64
	if existing != nil {
		have = existing.meta.Generation
	}

	if have != want {
		writeError(
			w,
			http.StatusPreconditionFailed,
			fmt.Sprintf("generation is %d, not %d", have, want))

		return false
	}

	return true
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) listObjects(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState) {
	q := r.URL.Query()
	prefix := q.Get("prefix")
	delimiter := q.Get("delimiter")

	var names []string
	for name := range b.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	// Collapse names containing the delimiter beyond the prefix into
	// synthetic prefixes.
	var kept []string
	prefixSet := make(map[string]struct{})
	for _, name := range names {
		if delimiter != "" {
			if i := strings.Index(name[len(prefix):], delimiter); i >= 0 {
				prefixSet[name[:len(prefix)+i+len(delimiter)]] = struct{}{}
				continue
			}
		}

		kept = append(kept, name)
	}

	offset := 0
	if tok := q.Get("pageToken"); tok != "" {
		var err error
		offset, err = strconv.Atoi(tok)
		if err != nil || offset < 0 || offset > len(kept) {
			writeError(w, http.StatusBadRequest, "bad page token")
			return
		}
	}

	limit := len(kept) - offset
	if mr := q.Get("maxResults"); mr != "" {
		parsed, err := strconv.Atoi(mr)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad maxResults")
			return
		}

		if parsed < limit {
			limit = parsed
		}
	}

	list := &gcs.ObjectList{
		Kind: "storage#objects",
	}

	for _, name := range kept[offset : offset+limit] {
		list.Items = append(list.Items, b.objects[name].meta)
	}

	for p := range prefixSet {
		list.Prefixes = append(list.Prefixes, p)
	}

	sort.Strings(list.Prefixes)

	if offset+limit < len(kept) {
		list.NextPageToken = strconv.Itoa(offset + limit)
	}

	writeJSON(w, list)
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveObject(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	name string) {
	o := b.objects[name]

	switch r.Method {
	case "GET":
		if o == nil {
			writeError(w, http.StatusNotFound, "no such object: "+name)
			return
		}

		if r.URL.Query().Get("alt") == "media" {
			w.Header().Set("Content-Type", o.meta.ContentType)
			w.Header().Set(
				"Content-Length", strconv.Itoa(len(o.contents)))

			w.Write(o.contents)
			return
		}

		writeJSON(w, o.meta)

	case "PUT":
		if o == nil {
			writeError(w, http.StatusNotFound, "no such object: "+name)
			return
		}

		var update gcs.Object
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad object record")
			return
		}

		o.meta.ContentType = update.ContentType
		o.meta.ContentEncoding = update.ContentEncoding
		o.meta.ContentDisposition = update.ContentDisposition
		o.meta.ContentLanguage = update.ContentLanguage
		o.meta.CacheControl = update.CacheControl
		o.meta.Metadata = update.Metadata
		o.meta.MetaGeneration++
		o.meta.Updated = s.now()

		writeJSON(w, o.meta)

	case "DELETE":
		if !s.checkGenerationPrecondition(
			w, r.URL.Query().Get("ifGenerationMatch"), o) {
			return
		}

		if o == nil {
			writeError(w, http.StatusNotFound, "no such object: "+name)
			return
		}

		delete(b.objects, name)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) composeObjects(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	dstName string) {
	var req gcs.ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad compose request")
		return
	}

	if len(req.SourceObjects) == 0 {
		writeError(w, http.StatusBadRequest, "no source objects")
		return
	}

	var contents []byte
	for _, src := range req.SourceObjects {
		o := b.objects[src.Name]
		if o == nil {
			writeError(w, http.StatusNotFound, "no such object: "+src.Name)
			return
		}

		contents = append(contents, o.contents...)
	}

	var contentType string
	if req.Destination != nil {
		contentType = req.Destination.ContentType
	}

	o := s.newObjectState(b, dstName, contents, contentType)
	o.meta.ComponentCount = int32(len(req.SourceObjects))
	o.meta.MD5Hash = ""
	b.objects[dstName] = o

	writeJSON(w, o.meta)
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) copyObject(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	srcName string,
	dstBucket string,
	dstName string,
	rewrite bool) {
	src := b.objects[srcName]
	if src == nil {
		writeError(w, http.StatusNotFound, "no such object: "+srcName)
		return
	}

	db := s.buckets[dstBucket]
	if db == nil {
		writeError(w, http.StatusNotFound, "no such bucket: "+dstBucket)
		return
	}

	o := s.newObjectState(db, dstName, src.contents, src.meta.ContentType)
	o.meta.Metadata = src.meta.Metadata
	db.objects[dstName] = o

	if rewrite {
		writeJSON(w, &gcs.RewriteResponse{
			Kind:                "storage#rewriteResponse",
			TotalBytesRewritten: o.meta.Size,
			ObjectSize:          o.meta.Size,
			Done:                true,
			Resource:            o.meta,
		})

		return
	}

	writeJSON(w, o.meta)
}

////////////////////////////////////////////////////////////////////////
// Object ACLs
////////////////////////////////////////////////////////////////////////

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveObjectACLCollection(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	name string) {
	o := b.objects[name]
	if o == nil {
		writeError(w, http.StatusNotFound, "no such object: "+name)
		return
	}

	switch r.Method {
	case "POST":
		var req gcs.NewACL
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad ACL record")
			return
		}

		entry := &gcs.ObjectACL{
			Kind:       "storage#objectAccessControl",
			ID:         fmt.Sprintf("%s/%s/%s", b.meta.Name, name, req.Entity),
			Bucket:     b.meta.Name,
			Object:     name,
			Generation: strconv.FormatInt(o.meta.Generation, 10),
			Entity:     req.Entity,
			Role:       req.Role,
			Etag:       "acl-etag",
		}

		o.acls[req.Entity] = entry
		writeJSON(w, entry)

	case "GET":
		var items []*gcs.ObjectACL
		for _, entry := range o.acls {
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
}

// LOCKS_REQUIRED(s.mu)
func (s *Server) serveObjectACLEntry(
	w http.ResponseWriter,
	r *http.Request,
	b *bucketState,
	name string,
	entity gcs.ACLEntity) {
	o := b.objects[name]
	if o == nil {
		writeError(w, http.StatusNotFound, "no such object: "+name)
		return
	}

	entry := o.acls[entity]
	if entry == nil {
		writeError(w, http.StatusNotFound, "no such entity: "+string(entity))
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, entry)

	case "PUT":
		var update gcs.ObjectACL
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "bad ACL record")
			return
		}

		entry.Role = update.Role
		writeJSON(w, entry)

	case "DELETE":
		delete(o.acls, entity)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusBadRequest, "bad method: "+r.Method)
	}
}
