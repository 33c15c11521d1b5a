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

package httputil

const upperhex = "0123456789ABCDEF"

// Decide whether the byte survives percent-encoding verbatim. The unreserved
// alphabet here is the one Google's V4 signing scheme expects, which is not
// the same set that net/url uses for any of its encoding modes; in particular
// '*' is kept and '~' is escaped.
func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z':
		return true
	case 'a' <= c && c <= 'z':
		return true
	case '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '*':
		return true
	}

	return false
}

func escape(s string, keep func(byte) bool) string {
	// Count how many bytes need escaping, so that the common all-clean case
	// allocates nothing.
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if !keep(s[i]) {
			hexCount++
		}
	}

	if hexCount == 0 {
		return s
	}

	out := make([]byte, len(s)+2*hexCount)
	j := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			out[j] = c
			j++
			continue
		}

		out[j] = '%'
		out[j+1] = upperhex[c>>4]
		out[j+2] = upperhex[c&0xf]
		j += 3
	}

	return string(out)
}

// Percent-encode the supplied string, escaping every byte outside of
// A-Z, a-z, 0-9, '-', '.', '_' and '*' as %HH. This is the encoding used for
// path segments and query string components throughout the GCS JSON API.
func PercentEncode(s string) string {
	return escape(s, isUnreserved)
}

// Like PercentEncode, but additionally leave '/' and '~' untouched. This is
// the encoding used for the path-to-resource portion of a V4 signed URL,
// where the slashes inside an object name must remain visible.
func PercentEncodeNoSlash(s string) string {
	return escape(s, func(c byte) bool {
		return isUnreserved(c) || c == '/' || c == '~'
	})
}
