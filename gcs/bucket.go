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

// Storage classes accepted by the API.
const (
	StorageClassStandard            = "STANDARD"
	StorageClassNearline            = "NEARLINE"
	StorageClassColdline            = "COLDLINE"
	StorageClassArchive             = "ARCHIVE"
	StorageClassMultiRegional       = "MULTI_REGIONAL"
	StorageClassRegional            = "REGIONAL"
	StorageClassDurableReducedAvail = "DURABLE_REDUCED_AVAILABILITY"
)

type RetentionPolicy struct {
	RetentionPeriod uint64    `json:"retentionPeriod,string"`
	EffectiveTime   time.Time `json:"effectiveTime"`
	IsLocked        bool      `json:"isLocked,omitempty"`
}

type UniformBucketLevelAccess struct {
	Enabled    bool       `json:"enabled"`
	LockedTime *time.Time `json:"lockedTime,omitempty"`
}

type IamConfiguration struct {
	UniformBucketLevelAccess *UniformBucketLevelAccess `json:"uniformBucketLevelAccess,omitempty"`
	BucketPolicyOnly         *UniformBucketLevelAccess `json:"bucketPolicyOnly,omitempty"`
	PublicAccessPrevention   string                    `json:"publicAccessPrevention,omitempty"`
}

type Encryption struct {
	DefaultKmsKeyName string `json:"defaultKmsKeyName"`
}

type Website struct {
	MainPageSuffix string `json:"mainPageSuffix,omitempty"`
	NotFoundPage   string `json:"notFoundPage,omitempty"`
}

type Logging struct {
	LogBucket       string `json:"logBucket"`
	LogObjectPrefix string `json:"logObjectPrefix,omitempty"`
}

type Versioning struct {
	Enabled bool `json:"enabled"`
}

type Cors struct {
	Origin         []string `json:"origin,omitempty"`
	Method         []string `json:"method,omitempty"`
	ResponseHeader []string `json:"responseHeader,omitempty"`
	MaxAgeSeconds  int32    `json:"maxAgeSeconds,omitempty"`
}

type LifecycleAction struct {
	Type         string `json:"type"`
	StorageClass string `json:"storageClass,omitempty"`
}

type LifecycleCondition struct {
	Age                 int32      `json:"age,omitempty"`
	CreatedBefore       string     `json:"createdBefore,omitempty"`
	IsLive              *bool      `json:"isLive,omitempty"`
	MatchesStorageClass []string   `json:"matchesStorageClass,omitempty"`
	NumNewerVersions    int32      `json:"numNewerVersions,omitempty"`
}

type LifecycleRule struct {
	Action    LifecycleAction    `json:"action"`
	Condition LifecycleCondition `json:"condition"`
}

type Lifecycle struct {
	Rule []LifecycleRule `json:"rule"`
}

type Billing struct {
	RequesterPays bool `json:"requesterPays"`
}

// A bucket record as returned by the JSON API.
type Bucket struct {
	Kind                  string              `json:"kind"`
	ID                    string              `json:"id"`
	SelfLink              string              `json:"selfLink"`
	ProjectNumber         uint64              `json:"projectNumber,string"`
	Name                  string              `json:"name"`
	TimeCreated           time.Time           `json:"timeCreated"`
	Updated               time.Time           `json:"updated"`
	DefaultEventBasedHold bool                `json:"defaultEventBasedHold,omitempty"`
	RetentionPolicy       *RetentionPolicy    `json:"retentionPolicy,omitempty"`
	MetaGeneration        int64               `json:"metageneration,string"`
	ACL                   []*BucketACL        `json:"acl,omitempty"`
	DefaultObjectACL      []*DefaultObjectACL `json:"defaultObjectAcl,omitempty"`
	IamConfiguration      *IamConfiguration   `json:"iamConfiguration,omitempty"`
	Encryption            *Encryption         `json:"encryption,omitempty"`
	Owner                 *Owner              `json:"owner,omitempty"`
	Location              string              `json:"location"`
	LocationType          string              `json:"locationType"`
	Website               *Website            `json:"website,omitempty"`
	Logging               *Logging            `json:"logging,omitempty"`
	Versioning            *Versioning         `json:"versioning,omitempty"`
	Cors                  []*Cors             `json:"cors,omitempty"`
	Lifecycle             *Lifecycle          `json:"lifecycle,omitempty"`
	Labels                map[string]string   `json:"labels,omitempty"`
	StorageClass          string              `json:"storageClass"`
	Billing               *Billing            `json:"billing,omitempty"`
	Etag                  string              `json:"etag"`
}

// The caller-supplied portion of a bucket creation request. Every field the
// server computes is absent.
type CreateBucketRequest struct {
	Name                  string              `json:"name"`
	DefaultEventBasedHold bool                `json:"defaultEventBasedHold,omitempty"`
	ACL                   []*BucketACL        `json:"acl,omitempty"`
	DefaultObjectACL      []*DefaultObjectACL `json:"defaultObjectAcl,omitempty"`
	IamConfiguration      *IamConfiguration   `json:"iamConfiguration,omitempty"`
	Encryption            *Encryption         `json:"encryption,omitempty"`
	Location              string              `json:"location,omitempty"`
	Website               *Website            `json:"website,omitempty"`
	Logging               *Logging            `json:"logging,omitempty"`
	Versioning            *Versioning         `json:"versioning,omitempty"`
	Cors                  []*Cors             `json:"cors,omitempty"`
	Lifecycle             *Lifecycle          `json:"lifecycle,omitempty"`
	Labels                map[string]string   `json:"labels,omitempty"`
	StorageClass          string              `json:"storageClass,omitempty"`
	Billing               *Billing            `json:"billing,omitempty"`
}
