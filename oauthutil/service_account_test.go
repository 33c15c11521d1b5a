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

package oauthutil_test

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/ThouCheese/cloud-storage-go/oauthutil"
	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
)

func TestServiceAccount(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Fixtures
////////////////////////////////////////////////////////////////////////

// Serialize a credentials file with the supplied field values, using the test
// key for any field not overridden.
func credentialsJSON(overrides map[string]string) []byte {
	fields := map[string]string{
		"type":           "service_account",
		"project_id":     "dvjsmr2",
		"private_key_id": "0123456789abcdef",
		"private_key":    testKeyPEM,
		"client_email":   "foo@dvjsmr2.iam.gserviceaccount.com",
		"client_id":      "100000000000000000001",
		"auth_uri":       "https://accounts.google.com/o/oauth2/auth",
		"token_uri":      "https://oauth2.googleapis.com/token",
	}

	for k, v := range overrides {
		fields[k] = v
	}

	contents, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}

	return contents
}

var allCredentialEnvVars = []string{
	"SERVICE_ACCOUNT",
	"SERVICE_ACCOUNT_JSON",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"GOOGLE_APPLICATION_CREDENTIALS_JSON",
}

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type ServiceAccountTest struct {
}

func init() { RegisterTestSuite(&ServiceAccountTest{}) }

func (t *ServiceAccountTest) SetUp(ti *TestInfo) {
	for _, v := range allCredentialEnvVars {
		err := os.Unsetenv(v)
		AssertEq(nil, err)
	}
}

////////////////////////////////////////////////////////////////////////
// Parsing
////////////////////////////////////////////////////////////////////////

func (t *ServiceAccountTest) ParsesValidCredentials() {
	sa, err := oauthutil.ParseServiceAccount(credentialsJSON(nil))

	AssertEq(nil, err)
	ExpectEq("service_account", sa.Type)
	ExpectEq("dvjsmr2", sa.ProjectID)
	ExpectEq("foo@dvjsmr2.iam.gserviceaccount.com", sa.ClientEmail)
	ExpectEq("https://oauth2.googleapis.com/token", sa.TokenURI)

	AssertNe(nil, sa.PrivateKey)
	ExpectEq(2048, sa.PrivateKey.N.BitLen())
}

func (t *ServiceAccountTest) MalformedJSON() {
	_, err := oauthutil.ParseServiceAccount([]byte("{"))

	ExpectThat(err, Error(HasSubstr("Decoding")))
}

func (t *ServiceAccountTest) WrongType() {
	contents := credentialsJSON(map[string]string{"type": "authorized_user"})
	_, err := oauthutil.ParseServiceAccount(contents)

	ExpectThat(err, Error(HasSubstr("authorized_user")))
	ExpectThat(err, Error(HasSubstr("service_account")))
}

func (t *ServiceAccountTest) GarbagePrivateKey() {
	contents := credentialsJSON(map[string]string{"private_key": "burrito"})
	_, err := oauthutil.ParseServiceAccount(contents)

	ExpectThat(err, Error(HasSubstr("private key")))
}

////////////////////////////////////////////////////////////////////////
// Loading from the environment
////////////////////////////////////////////////////////////////////////

func (t *ServiceAccountTest) NoVariablesSet() {
	_, err := oauthutil.LoadServiceAccount()

	ExpectThat(err, Error(HasSubstr("SERVICE_ACCOUNT")))
	ExpectThat(err, Error(HasSubstr("GOOGLE_APPLICATION_CREDENTIALS")))
}

func (t *ServiceAccountTest) LoadFromFilePath() {
	// Write the credentials to a file.
	dir, err := ioutil.TempDir("", "oauthutil_test")
	AssertEq(nil, err)
	defer os.RemoveAll(dir)

	p := path.Join(dir, "creds.json")
	err = ioutil.WriteFile(p, credentialsJSON(nil), 0600)
	AssertEq(nil, err)

	err = os.Setenv("SERVICE_ACCOUNT", p)
	AssertEq(nil, err)

	sa, err := oauthutil.LoadServiceAccount()

	AssertEq(nil, err)
	ExpectEq("dvjsmr2", sa.ProjectID)
}

func (t *ServiceAccountTest) LoadFromInlineJSON() {
	err := os.Setenv(
		"GOOGLE_APPLICATION_CREDENTIALS_JSON",
		string(credentialsJSON(nil)))

	AssertEq(nil, err)

	sa, err := oauthutil.LoadServiceAccount()

	AssertEq(nil, err)
	ExpectEq("dvjsmr2", sa.ProjectID)
}

func (t *ServiceAccountTest) FirstVariableWins() {
	// An inline variant with a recognizable project ID.
	contents := credentialsJSON(map[string]string{"project_id": "other"})
	err := os.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", string(contents))
	AssertEq(nil, err)

	// SERVICE_ACCOUNT_JSON is consulted earlier.
	err = os.Setenv("SERVICE_ACCOUNT_JSON", string(credentialsJSON(nil)))
	AssertEq(nil, err)

	sa, err := oauthutil.LoadServiceAccount()

	AssertEq(nil, err)
	ExpectEq("dvjsmr2", sa.ProjectID)
}

func (t *ServiceAccountTest) UnreadableFilePath() {
	err := os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/does/not/exist")
	AssertEq(nil, err)

	_, err = oauthutil.LoadServiceAccount()

	ExpectThat(err, Error(HasSubstr("GOOGLE_APPLICATION_CREDENTIALS")))
}
