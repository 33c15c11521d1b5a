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

package httputil_test

import (
	"testing"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	. "github.com/jacobsa/ogletest"
)

func TestEncoding(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type EncodingTest struct {
}

func init() { RegisterTestSuite(&EncodingTest{}) }

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (t *EncodingTest) EmptyString() {
	ExpectEq("", httputil.PercentEncode(""))
	ExpectEq("", httputil.PercentEncodeNoSlash(""))
}

func (t *EncodingTest) UnreservedCharacters() {
	ExpectEq(
		"abcdefghijklmnopqrstuvwxyz",
		httputil.PercentEncode("abcdefghijklmnopqrstuvwxyz"))

	ExpectEq(
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		httputil.PercentEncode("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))

	ExpectEq("0123456789", httputil.PercentEncode("0123456789"))
	ExpectEq("-._*", httputil.PercentEncode("-._*"))
}

func (t *EncodingTest) TildeAndSlash() {
	// The tight encoder escapes both.
	ExpectEq("*-._%7Ea0", httputil.PercentEncode("*-._~a0"))
	ExpectEq("a%2Fb%7Ec", httputil.PercentEncode("a/b~c"))

	// The no-slash variant keeps both.
	ExpectEq("a/b~c", httputil.PercentEncodeNoSlash("a/b~c"))
}

func (t *EncodingTest) ReservedCharacters() {
	ExpectEq("hello%20world%21", httputil.PercentEncode("hello world!"))
	ExpectEq("%3D%26%3F%23", httputil.PercentEncode("=&?#"))
	ExpectEq("%3D%26%3F%23", httputil.PercentEncodeNoSlash("=&?#"))
}

func (t *EncodingTest) UppercaseHexDigits() {
	ExpectEq("%0A%FF", httputil.PercentEncode("\n\xff"))
}

func (t *EncodingTest) NonASCIIBytes() {
	// Each byte of the UTF-8 encoding is escaped individually.
	ExpectEq("%C3%A9", httputil.PercentEncode("é"))
	ExpectEq("%E4%BD%A0%E5%A5%BD", httputil.PercentEncode("你好"))
}

func (t *EncodingTest) ObjectNameWithDirectories() {
	ExpectEq(
		"folder%2Fimage%20%281%29.png",
		httputil.PercentEncode("folder/image (1).png"))

	ExpectEq(
		"folder/image%20%281%29.png",
		httputil.PercentEncodeNoSlash("folder/image (1).png"))
}
