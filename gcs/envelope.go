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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Decode a JSON API response into out, which may be nil for operations whose
// success body is irrelevant. The body is classified by shape before status:
// a response carrying the `{"error": ...}` envelope is an API error even when
// the status line says 2xx.
func decodeResponse(res *http.Response, out interface{}) error {
	defer googleapi.CloseBody(res)

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return newTransportError(err)
	}

	// Probe for the error envelope.
	var probe struct {
		Error *json.RawMessage `json:"error"`
	}

	if json.Unmarshal(body, &probe) == nil && probe.Error != nil {
		var er ErrorResponse
		if err := json.Unmarshal(body, &er); err != nil {
			return newSerializationError(err)
		}

		return newGoogleAPIError(&er)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newOtherError(
			fmt.Sprintf("unexpected HTTP %d: %q", res.StatusCode, body))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newSerializationError(err)
	}

	return nil
}

// Check the status of a media response, whose success body is raw object
// data rather than JSON. On failure the error envelope is parsed and the
// body consumed; on success the body is left untouched for the caller.
func checkMediaResponse(res *http.Response) error {
	err := googleapi.CheckResponse(res)
	if err == nil {
		return nil
	}

	gerr, ok := err.(*googleapi.Error)
	if !ok {
		return newTransportError(err)
	}

	er := &ErrorResponse{
		Err: ErrorList{
			Code:    gerr.Code,
			Message: gerr.Message,
		},
	}

	for _, item := range gerr.Errors {
		er.Err.Errors = append(er.Err.Errors, GoogleError{
			Reason:  item.Reason,
			Message: item.Message,
		})
	}

	if er.Err.Message == "" {
		er.Err.Message = gerr.Body
	}

	return newGoogleAPIError(er)
}
