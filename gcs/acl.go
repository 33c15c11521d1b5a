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

import "fmt"

// The grantee of an ACL entry, in the wire form the API expects, e.g.
// "user-alice@example.com" or "allUsers". Use the constructors below rather
// than assembling strings by hand.
type ACLEntity string

const (
	AllUsers              ACLEntity = "allUsers"
	AllAuthenticatedUsers ACLEntity = "allAuthenticatedUsers"
)

func UserEntity(idOrEmail string) ACLEntity {
	return ACLEntity("user-" + idOrEmail)
}

func GroupEntity(idOrEmail string) ACLEntity {
	return ACLEntity("group-" + idOrEmail)
}

func DomainEntity(domain string) ACLEntity {
	return ACLEntity("domain-" + domain)
}

// team is one of "owners", "editors", "viewers".
func ProjectEntity(team, projectID string) ACLEntity {
	return ACLEntity(fmt.Sprintf("project-%s-%s", team, projectID))
}

// The access level an ACL entry grants.
type ACLRole string

const (
	RoleOwner  ACLRole = "OWNER"
	RoleWriter ACLRole = "WRITER"
	RoleReader ACLRole = "READER"
)

// The project team associated with a project-scoped entity.
type ProjectTeam struct {
	ProjectNumber string `json:"projectNumber"`
	Team          string `json:"team"`
}

// An ACL entry at bucket scope.
type BucketACL struct {
	Kind        string       `json:"kind"`
	ID          string       `json:"id"`
	SelfLink    string       `json:"selfLink"`
	Bucket      string       `json:"bucket"`
	Entity      ACLEntity    `json:"entity"`
	Role        ACLRole      `json:"role"`
	Email       string       `json:"email,omitempty"`
	EntityID    string       `json:"entityId,omitempty"`
	Domain      string       `json:"domain,omitempty"`
	ProjectTeam *ProjectTeam `json:"projectTeam,omitempty"`
	Etag        string       `json:"etag"`
}

// An ACL entry at object scope.
type ObjectACL struct {
	Kind        string       `json:"kind"`
	ID          string       `json:"id"`
	SelfLink    string       `json:"selfLink"`
	Bucket      string       `json:"bucket"`
	Object      string       `json:"object"`
	Generation  string       `json:"generation,omitempty"`
	Entity      ACLEntity    `json:"entity"`
	Role        ACLRole      `json:"role"`
	Email       string       `json:"email,omitempty"`
	EntityID    string       `json:"entityId,omitempty"`
	Domain      string       `json:"domain,omitempty"`
	ProjectTeam *ProjectTeam `json:"projectTeam,omitempty"`
	Etag        string       `json:"etag"`
}

// A default ACL entry applied to new objects in a bucket. The server omits
// the bucket field in responses; this client back-fills it from the request
// before returning.
type DefaultObjectACL struct {
	Kind        string       `json:"kind"`
	Entity      ACLEntity    `json:"entity"`
	Role        ACLRole      `json:"role"`
	Email       string       `json:"email,omitempty"`
	EntityID    string       `json:"entityId,omitempty"`
	Domain      string       `json:"domain,omitempty"`
	ProjectTeam *ProjectTeam `json:"projectTeam,omitempty"`
	Etag        string       `json:"etag"`
	Bucket      string       `json:"bucket,omitempty"`
}

// The caller-supplied portion of an ACL creation request, shared by all
// three ACL scopes.
type NewACL struct {
	Entity ACLEntity `json:"entity"`
	Role   ACLRole   `json:"role"`
}
