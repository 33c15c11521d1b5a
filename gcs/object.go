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

import "time"

// Metadata of a customer-supplied encryption key, returned when an object is
// encrypted with one.
type CustomerEncryption struct {
	EncryptionAlgorithm string `json:"encryptionAlgorithm"`
	KeySha256           string `json:"keySha256"`
}

// The owner of a bucket or object.
type Owner struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entityId,omitempty"`
}

// An object record as returned by the JSON API. The generation,
// metageneration and size fields arrive as decimal strings on the wire.
type Object struct {
	Kind                    string             `json:"kind"`
	ID                      string             `json:"id"`
	SelfLink                string             `json:"selfLink"`
	Name                    string             `json:"name"`
	Bucket                  string             `json:"bucket"`
	Generation              int64              `json:"generation,string"`
	MetaGeneration          int64              `json:"metageneration,string"`
	ContentType             string             `json:"contentType,omitempty"`
	TimeCreated             time.Time          `json:"timeCreated"`
	Updated                 time.Time          `json:"updated"`
	TimeDeleted             *time.Time         `json:"timeDeleted,omitempty"`
	TemporaryHold           bool               `json:"temporaryHold,omitempty"`
	EventBasedHold          bool               `json:"eventBasedHold,omitempty"`
	RetentionExpirationTime *time.Time         `json:"retentionExpirationTime,omitempty"`
	StorageClass            string             `json:"storageClass"`
	TimeStorageClassUpdated time.Time          `json:"timeStorageClassUpdated"`
	Size                    uint64             `json:"size,string"`
	MD5Hash                 string             `json:"md5Hash,omitempty"`
	MediaLink               string             `json:"mediaLink"`
	ContentEncoding         string             `json:"contentEncoding,omitempty"`
	ContentDisposition      string             `json:"contentDisposition,omitempty"`
	ContentLanguage         string             `json:"contentLanguage,omitempty"`
	CacheControl            string             `json:"cacheControl,omitempty"`
	Metadata                map[string]string  `json:"metadata,omitempty"`
	ACL                     []*ObjectACL       `json:"acl,omitempty"`
	Owner                   *Owner             `json:"owner,omitempty"`
	CRC32C                  string             `json:"crc32c"`
	ComponentCount          int32              `json:"componentCount,omitempty"`
	Etag                    string             `json:"etag"`
	CustomerEncryption      *CustomerEncryption `json:"customerEncryption,omitempty"`
	KmsKeyName              string             `json:"kmsKeyName,omitempty"`
}

// One page of an object listing.
type ObjectList struct {
	Kind          string    `json:"kind"`
	Items         []*Object `json:"items"`
	Prefixes      []string  `json:"prefixes"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// A precondition for one source object of a compose request.
type ObjectPrecondition struct {
	IfGenerationMatch int64 `json:"ifGenerationMatch"`
}

// One source object of a compose request.
type ComposeSource struct {
	Name                string              `json:"name"`
	Generation          int64               `json:"generation,omitempty"`
	ObjectPreconditions *ObjectPrecondition `json:"objectPreconditions,omitempty"`
}

// The body of a compose call. Destination, when non-nil, supplies metadata
// for the composite object.
type ComposeRequest struct {
	Kind          string           `json:"kind"`
	SourceObjects []ComposeSource  `json:"sourceObjects"`
	Destination   *Object          `json:"destination,omitempty"`
}

// The body of a rewrite response. Rewrites within a region, storage class
// and encryption configuration complete in one shot, so Done is always true
// for the supported subset.
type RewriteResponse struct {
	Kind                string  `json:"kind"`
	TotalBytesRewritten uint64  `json:"totalBytesRewritten,string"`
	ObjectSize          uint64  `json:"objectSize,string"`
	Done                bool    `json:"done"`
	RewriteToken        string  `json:"rewriteToken,omitempty"`
	Resource            *Object `json:"resource"`
}
