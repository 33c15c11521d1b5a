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

// Utility code for turning Google service account credentials into OAuth
// bearer tokens and authorized HTTP clients.
package oauthutil

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/ThouCheese/cloud-storage-go/cryptoutil"
)

// A parsed service account credentials file, in the standard format produced
// by the Google Cloud console. Immutable after construction.
type ServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKeyPEM           string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`

	// The parsed form of PrivateKeyPEM.
	PrivateKey *rsa.PrivateKey `json:"-"`
}

// The environment variables consulted by LoadServiceAccount, in order. The
// *_JSON variants hold the credentials JSON itself; the others hold a path to
// a file containing it.
var credentialEnvVars = []struct {
	name   string
	inline bool
}{
	{"SERVICE_ACCOUNT", false},
	{"SERVICE_ACCOUNT_JSON", true},
	{"GOOGLE_APPLICATION_CREDENTIALS", false},
	{"GOOGLE_APPLICATION_CREDENTIALS_JSON", true},
}

// Parse the contents of a service account credentials file. Returns an error
// if the JSON is malformed, the type field is not "service_account", or the
// embedded private key cannot be parsed.
func ParseServiceAccount(contents []byte) (sa *ServiceAccount, err error) {
	sa = &ServiceAccount{}
	if err = json.Unmarshal(contents, sa); err != nil {
		err = fmt.Errorf("Decoding credentials JSON: %v", err)
		return
	}

	if sa.Type != "service_account" {
		err = fmt.Errorf(
			"Unexpected credential type %q; want \"service_account\".",
			sa.Type)
		return
	}

	sa.PrivateKey, err = cryptoutil.ParsePrivateKey([]byte(sa.PrivateKeyPEM))
	if err != nil {
		err = fmt.Errorf("Parsing private key: %v", err)
		return
	}

	return
}

// Load service account credentials from the environment. The first of
// SERVICE_ACCOUNT, SERVICE_ACCOUNT_JSON, GOOGLE_APPLICATION_CREDENTIALS and
// GOOGLE_APPLICATION_CREDENTIALS_JSON that is set wins; variables ending in
// _JSON are interpreted as the credentials JSON itself, the others as a path
// to a file containing it.
func LoadServiceAccount() (sa *ServiceAccount, err error) {
	for _, v := range credentialEnvVars {
		val, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}

		var contents []byte
		if v.inline {
			contents = []byte(val)
		} else {
			contents, err = ioutil.ReadFile(val)
			if err != nil {
				err = fmt.Errorf("Reading %s: %v", v.name, err)
				return
			}
		}

		sa, err = ParseServiceAccount(contents)
		if err != nil {
			err = fmt.Errorf("Parsing credentials from %s: %v", v.name, err)
		}

		return
	}

	err = fmt.Errorf(
		"No credentials found; set SERVICE_ACCOUNT or " +
			"GOOGLE_APPLICATION_CREDENTIALS.")

	return
}
