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

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"strings"
)

var fDebugHTTP = flag.Bool(
	"httputil.debug",
	false,
	"Dump information about HTTP requests and responses.")

// When the flag --httputil.debug is set, wrap the supplied round tripper in a
// layer that dumps information about HTTP requests. Otherwise, return it
// unmodified.
//
// Bearer tokens in the Authorization header are redacted before printing.
func DebuggingRoundTripper(in http.RoundTripper) (out http.RoundTripper) {
	out = in
	if *fDebugHTTP {
		out = &debuggingRoundTripper{wrapped: in}
	}

	return
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Read everything from *rc, then replace it with a copy.
func snarfBody(rc *io.ReadCloser) string {
	contents, err := ioutil.ReadAll(*rc)
	if err != nil {
		panic(err)
	}

	if err := (*rc).Close(); err != nil {
		panic(err)
	}

	*rc = ioutil.NopCloser(bytes.NewReader(contents))
	return string(contents)
}

func redact(k, v string) string {
	if strings.EqualFold(k, "Authorization") {
		return "[REDACTED]"
	}

	return v
}

////////////////////////////////////////////////////////////////////////
// debuggingRoundTripper
////////////////////////////////////////////////////////////////////////

type debuggingRoundTripper struct {
	wrapped http.RoundTripper
}

func (t *debuggingRoundTripper) RoundTrip(
	req *http.Request) (*http.Response, error) {
	var b bytes.Buffer

	// Print information about the request.
	fmt.Fprintln(&b, "========== REQUEST ===========")
	fmt.Fprintln(&b, req.Method, req.URL, req.Proto)
	for k, vs := range req.Header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\n", k, redact(k, v))
		}
	}

	if req.Body != nil {
		fmt.Fprintf(&b, "\n%s\n", snarfBody(&req.Body))
	}

	// Execute the request.
	res, err := t.wrapped.RoundTrip(req)
	if err != nil {
		fmt.Fprintln(&b, "========== ERROR =============")
		fmt.Fprintln(&b, err)
		log.Print(b.String())
		return res, err
	}

	// Print the response.
	fmt.Fprintln(&b, "========== RESPONSE ==========")
	fmt.Fprintln(&b, res.Proto, res.Status)
	for k, vs := range res.Header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}

	if res.Body != nil {
		fmt.Fprintf(&b, "\n%s\n", snarfBody(&res.Body))
	}
	fmt.Fprintln(&b, "==============================")

	log.Print(b.String())
	return res, err
}
