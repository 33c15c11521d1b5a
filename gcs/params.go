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
	"net/url"
	"strconv"
)

// Optional query parameters. Each struct mirrors the documented parameters
// of the corresponding endpoint; nil pointers and zero values are omitted
// from the wire. All of these are threaded onto the request URL.

func setStr(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}

func setInt64(q url.Values, k string, v *int64) {
	if v != nil {
		q.Set(k, strconv.FormatInt(*v, 10))
	}
}

func setBool(q url.Values, k string, v *bool) {
	if v != nil {
		q.Set(k, strconv.FormatBool(*v))
	}
}

// Optional parameters for creating an object.
type CreateObjectParams struct {
	ContentEncoding         string
	IfGenerationMatch       *int64
	IfGenerationNotMatch    *int64
	IfMetaGenerationMatch   *int64
	IfMetaGenerationNotMatch *int64
	KmsKeyName              string
	PredefinedACL           string
	Projection              string
}

func (p *CreateObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setStr(q, "contentEncoding", p.ContentEncoding)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
	setStr(q, "kmsKeyName", p.KmsKeyName)
	setStr(q, "predefinedAcl", p.PredefinedACL)
	setStr(q, "projection", p.Projection)
}

// Optional parameters for reading or downloading an object.
type ReadObjectParams struct {
	Generation              *int64
	IfGenerationMatch       *int64
	IfGenerationNotMatch    *int64
	IfMetaGenerationMatch   *int64
	IfMetaGenerationNotMatch *int64
	Projection              string
}

func (p *ReadObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setInt64(q, "generation", p.Generation)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
	setStr(q, "projection", p.Projection)
}

// Optional parameters for updating an object's metadata.
type UpdateObjectParams struct {
	Generation              *int64
	IfGenerationMatch       *int64
	IfGenerationNotMatch    *int64
	IfMetaGenerationMatch   *int64
	IfMetaGenerationNotMatch *int64
	PredefinedACL           string
	Projection              string
}

func (p *UpdateObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setInt64(q, "generation", p.Generation)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
	setStr(q, "predefinedAcl", p.PredefinedACL)
	setStr(q, "projection", p.Projection)
}

// Optional parameters for deleting an object.
type DeleteObjectParams struct {
	Generation              *int64
	IfGenerationMatch       *int64
	IfGenerationNotMatch    *int64
	IfMetaGenerationMatch   *int64
	IfMetaGenerationNotMatch *int64
}

func (p *DeleteObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setInt64(q, "generation", p.Generation)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
}

// Optional parameters for composing objects.
type ComposeObjectParams struct {
	DestinationPredefinedACL string
	IfGenerationMatch        *int64
	IfMetaGenerationMatch    *int64
	KmsKeyName               string
}

func (p *ComposeObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setStr(q, "destinationPredefinedAcl", p.DestinationPredefinedACL)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setStr(q, "kmsKeyName", p.KmsKeyName)
}

// Optional parameters for copying an object.
type CopyObjectParams struct {
	DestinationKmsKeyName         string
	DestinationPredefinedACL      string
	IfGenerationMatch             *int64
	IfGenerationNotMatch          *int64
	IfMetaGenerationMatch         *int64
	IfMetaGenerationNotMatch      *int64
	IfSourceGenerationMatch       *int64
	IfSourceGenerationNotMatch    *int64
	IfSourceMetaGenerationMatch   *int64
	IfSourceMetaGenerationNotMatch *int64
	Projection                    string
	SourceGeneration              *int64
}

func (p *CopyObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setStr(q, "destinationKmsKeyName", p.DestinationKmsKeyName)
	setStr(q, "destinationPredefinedAcl", p.DestinationPredefinedACL)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
	setInt64(q, "ifSourceGenerationMatch", p.IfSourceGenerationMatch)
	setInt64(q, "ifSourceGenerationNotMatch", p.IfSourceGenerationNotMatch)
	setInt64(q, "ifSourceMetagenerationMatch", p.IfSourceMetaGenerationMatch)
	setInt64(q, "ifSourceMetagenerationNotMatch", p.IfSourceMetaGenerationNotMatch)
	setStr(q, "projection", p.Projection)
	setInt64(q, "sourceGeneration", p.SourceGeneration)
}

// Optional parameters for rewriting an object.
type RewriteObjectParams struct {
	DestinationKmsKeyName         string
	DestinationPredefinedACL      string
	IfGenerationMatch             *int64
	IfGenerationNotMatch          *int64
	IfMetaGenerationMatch         *int64
	IfMetaGenerationNotMatch      *int64
	IfSourceGenerationMatch       *int64
	IfSourceGenerationNotMatch    *int64
	IfSourceMetaGenerationMatch   *int64
	IfSourceMetaGenerationNotMatch *int64
	MaxBytesRewrittenPerCall      *int64
	Projection                    string
	RewriteToken                  string
	SourceGeneration              *int64
}

func (p *RewriteObjectParams) addTo(q url.Values) {
	if p == nil {
		return
	}

	setStr(q, "destinationKmsKeyName", p.DestinationKmsKeyName)
	setStr(q, "destinationPredefinedAcl", p.DestinationPredefinedACL)
	setInt64(q, "ifGenerationMatch", p.IfGenerationMatch)
	setInt64(q, "ifGenerationNotMatch", p.IfGenerationNotMatch)
	setInt64(q, "ifMetagenerationMatch", p.IfMetaGenerationMatch)
	setInt64(q, "ifMetagenerationNotMatch", p.IfMetaGenerationNotMatch)
	setInt64(q, "ifSourceGenerationMatch", p.IfSourceGenerationMatch)
	setInt64(q, "ifSourceGenerationNotMatch", p.IfSourceGenerationNotMatch)
	setInt64(q, "ifSourceMetagenerationMatch", p.IfSourceMetaGenerationMatch)
	setInt64(q, "ifSourceMetagenerationNotMatch", p.IfSourceMetaGenerationNotMatch)
	setInt64(q, "maxBytesRewrittenPerCall", p.MaxBytesRewrittenPerCall)
	setStr(q, "projection", p.Projection)
	setStr(q, "rewriteToken", p.RewriteToken)
	setInt64(q, "sourceGeneration", p.SourceGeneration)
}

// Parameters of an object listing. MaxResults, when non-nil, is a global cap
// on the number of items streamed across all pages, not a per-page limit.
type ListObjectsRequest struct {
	Delimiter                 string
	EndOffset                 string
	IncludeTrailingDelimiter  *bool
	MaxResults                *int64
	PageToken                 string
	Prefix                    string
	Projection                string
	StartOffset               string
	Versions                  *bool
}

func (r *ListObjectsRequest) addTo(q url.Values) {
	if r == nil {
		return
	}

	setStr(q, "delimiter", r.Delimiter)
	setStr(q, "endOffset", r.EndOffset)
	setBool(q, "includeTrailingDelimiter", r.IncludeTrailingDelimiter)
	setInt64(q, "maxResults", r.MaxResults)
	setStr(q, "pageToken", r.PageToken)
	setStr(q, "prefix", r.Prefix)
	setStr(q, "projection", r.Projection)
	setStr(q, "startOffset", r.StartOffset)
	setBool(q, "versions", r.Versions)
}
