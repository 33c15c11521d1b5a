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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ThouCheese/cloud-storage-go/cryptoutil"
	"github.com/ThouCheese/cloud-storage-go/httputil"
)

// Signed URLs may be valid for at most seven days.
const maxSignedURLDuration = 604800 * time.Second

const signingAlgorithm = "GOOG4-RSA-SHA256"

// Go layouts for the ISO 8601 "basic" timestamp and date the V4 signing
// scheme uses.
const (
	iso8601Basic     = "20060102T150405Z"
	iso8601BasicDate = "20060102"
)

// Options for DownloadURLWith.
type DownloadOptions struct {
	// When set, the signed URL instructs the browser how to present the
	// response, e.g. `attachment; filename="f.txt"`.
	ContentDisposition string
}

// Create a V4 signed URL that lets its possessor download the named object
// without authentication for the supplied duration.
func (oc *ObjectClient) DownloadURL(name string, duration time.Duration) (
	url string, err error) {
	return oc.sign(name, duration, "GET", "", nil)
}

// DownloadURL with download options applied.
func (oc *ObjectClient) DownloadURLWith(
	name string,
	duration time.Duration,
	opts DownloadOptions) (url string, err error) {
	return oc.sign(name, duration, "GET", opts.ContentDisposition, nil)
}

// Create a V4 signed URL that lets its possessor upload data to the named
// object without authentication for the supplied duration.
func (oc *ObjectClient) UploadURL(name string, duration time.Duration) (
	url string, err error) {
	return oc.sign(name, duration, "PUT", "", nil)
}

// UploadURL with custom metadata bound into the signature. The uploader must
// send the returned headers verbatim with the PUT request.
func (oc *ObjectClient) UploadURLWith(
	name string,
	duration time.Duration,
	customMetadata map[string]string) (
	url string, headers map[string]string, err error) {
	url, err = oc.sign(name, duration, "PUT", "", customMetadata)
	if err != nil {
		return
	}

	headers = make(map[string]string)
	for k, v := range customMetadata {
		headers["x-goog-meta-"+k] = v
	}

	return
}

func (oc *ObjectClient) sign(
	name string,
	duration time.Duration,
	httpVerb string,
	contentDisposition string,
	customMetadata map[string]string) (url string, err error) {
	sa := oc.client.sa
	if duration > maxSignedURLDuration {
		err = newOtherError(fmt.Sprintf(
			"duration may not be greater than %v, but was %v",
			maxSignedURLDuration,
			duration))

		return
	}

	// Sort and construct the canonical headers. Both names and values are
	// lowercased.
	headers := [][2]string{
		{"host", "storage.googleapis.com"},
	}

	for k, v := range customMetadata {
		headers = append(headers, [2]string{"x-goog-meta-" + k, v})
	}

	sort.Slice(headers, func(i, j int) bool {
		return headers[i][0] < headers[j][0]
	})

	var headerLines []string
	var headerNames []string
	for _, h := range headers {
		headerLines = append(
			headerLines,
			strings.ToLower(h[0])+":"+strings.ToLower(h[1]))

		headerNames = append(headerNames, strings.ToLower(h[0]))
	}

	canonicalHeaders := strings.Join(headerLines, "\n")
	signedHeaders := strings.Join(headerNames, ";")

	issueDate := oc.client.clock.Now().UTC()
	scope := issueDate.Format(iso8601BasicDate) + "/auto/storage/goog4_request"

	resourcePath := fmt.Sprintf(
		"/%s/%s",
		oc.bucket,
		httputil.PercentEncodeNoSlash(name))

	query := fmt.Sprintf(
		"X-Goog-Algorithm=%s"+
			"&X-Goog-Credential=%s"+
			"&X-Goog-Date=%s"+
			"&X-Goog-Expires=%d"+
			"&X-Goog-SignedHeaders=%s",
		signingAlgorithm,
		httputil.PercentEncode(sa.ClientEmail+"/"+scope),
		issueDate.Format(iso8601Basic),
		int64(duration/time.Second),
		httputil.PercentEncode(signedHeaders))

	if contentDisposition != "" {
		query += "&response-content-disposition=" + contentDisposition
	}

	canonicalRequest := strings.Join(
		[]string{
			httpVerb,
			resourcePath,
			query,
			canonicalHeaders,
			"",
			signedHeaders,
			"UNSIGNED-PAYLOAD",
		},
		"\n")

	stringToSign := strings.Join(
		[]string{
			signingAlgorithm,
			issueDate.Format(iso8601Basic),
			scope,
			cryptoutil.SHA256Hex([]byte(canonicalRequest)),
		},
		"\n")

	signature, err := cryptoutil.SignSHA256(
		sa.PrivateKey,
		[]byte(stringToSign))

	if err != nil {
		err = newCryptoError("signing URL", err)
		return
	}

	url = fmt.Sprintf(
		"https://storage.googleapis.com%s?%s&X-Goog-Signature=%x",
		resourcePath,
		query,
		signature)

	return
}
