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

// A condition restricting when an IAM binding applies, using the CEL
// expression language.
type IamCondition struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Expression  string `json:"expression"`
}

// One (role, members) binding of an IAM policy.
type IamBinding struct {
	Role      string        `json:"role"`
	Members   []string      `json:"members"`
	Condition *IamCondition `json:"condition,omitempty"`
}

// The IAM policy attached to a bucket.
type IamPolicy struct {
	Version    int          `json:"version"`
	Kind       string       `json:"kind,omitempty"`
	ResourceID string       `json:"resourceId,omitempty"`
	Bindings   []IamBinding `json:"bindings"`
	Etag       string       `json:"etag"`
}

// The response to a testPermissions call: the subset of the queried
// permissions that the caller holds.
type TestIamPermissionResponse struct {
	Kind        string   `json:"kind"`
	Permissions []string `json:"permissions"`
}
