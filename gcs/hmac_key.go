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

// The lifecycle state of an HMAC key. Keys must be Inactive before they can
// be deleted.
type HmacKeyState string

const (
	HmacKeyActive   HmacKeyState = "ACTIVE"
	HmacKeyInactive HmacKeyState = "INACTIVE"
	HmacKeyDeleted  HmacKeyState = "DELETED"
)

// The metadata portion of an HMAC key resource. This is what every method
// other than create returns.
type HmacKeyMetadata struct {
	Kind                string       `json:"kind"`
	ID                  string       `json:"id"`
	SelfLink            string       `json:"selfLink"`
	AccessID            string       `json:"accessId"`
	ProjectID           string       `json:"projectId"`
	ServiceAccountEmail string       `json:"serviceAccountEmail"`
	State               HmacKeyState `json:"state"`
	TimeCreated         time.Time    `json:"timeCreated"`
	Updated             time.Time    `json:"updated"`
	Etag                string       `json:"etag"`
}

// A full HMAC key resource including the secret. Returned only by create;
// the secret is never shown again afterward.
type HmacKey struct {
	Kind     string          `json:"kind"`
	Metadata HmacKeyMetadata `json:"metadata"`
	Secret   string          `json:"secret"`
}
