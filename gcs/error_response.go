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

// One entry in the errors array of a Google error envelope.
type GoogleError struct {
	Domain       string `json:"domain"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
	LocationType string `json:"locationType,omitempty"`
	Location     string `json:"location,omitempty"`
}

// The payload of an error envelope.
type ErrorList struct {
	Errors  []GoogleError `json:"errors"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
}

// The `{"error": ...}` envelope that the JSON API uses to report failures.
// The server may emit this shape even with a 2xx status line.
type ErrorResponse struct {
	Err ErrorList `json:"error"`
}

func (r *ErrorResponse) Error() string {
	return fmt.Sprintf("googleapi error %d: %s", r.Err.Code, r.Err.Message)
}

// Does any entry in the envelope carry the supplied reason string (e.g.
// "notFound", "rateLimitExceeded")?
func (r *ErrorResponse) HasReason(reason string) bool {
	for _, e := range r.Err.Errors {
		if e.Reason == reason {
			return true
		}
	}

	return false
}
