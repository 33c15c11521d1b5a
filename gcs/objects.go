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
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"github.com/jacobsa/reqtrace"
	"golang.org/x/net/context"
)

// A client for the objects in one bucket. Obtain via Client.Objects.
type ObjectClient struct {
	client *Client
	bucket string
}

// A readable stream of object data whose total size, when the server
// reported one, is exposed up front. Size is negative if unknown. The caller
// must close the stream.
type SizedReadCloser struct {
	io.ReadCloser

	// Taken from the response Content-Length header.
	Size int64
}

func (oc *ObjectClient) objectURL(name string, q url.Values) string {
	return buildURL(
		oc.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s",
			httputil.PercentEncode(oc.bucket),
			httputil.PercentEncode(name)),
		q)
}

// Upload contents as a new object, replacing any existing object with the
// same name.
func (oc *ObjectClient) Create(
	ctx context.Context,
	name string,
	contents []byte,
	contentType string,
	params *CreateObjectParams) (o *Object, err error) {
	return oc.CreateStreamed(
		ctx,
		name,
		bytes.NewReader(contents),
		int64(len(contents)),
		contentType,
		params)
}

// Upload an object from a reader. Pass a negative length when the total is
// not known up front; the request is then sent with chunked encoding, which
// the media endpoint accepts.
func (oc *ObjectClient) CreateStreamed(
	ctx context.Context,
	name string,
	contents io.Reader,
	length int64,
	contentType string,
	params *CreateObjectParams) (o *Object, err error) {
	desc := fmt.Sprintf("CreateObject: %s/%s", oc.bucket, name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", name)
	params.addTo(q)

	urlStr := buildURL(
		oc.client.uploadBaseURL,
		fmt.Sprintf("/b/%s/o", httputil.PercentEncode(oc.bucket)),
		q)

	req, err := oc.client.newRequest(ctx, "POST", urlStr, contents, length)
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", contentType)

	res, err := oc.client.do(ctx, req)
	if err != nil {
		return
	}

	o = &Object{}
	err = decodeResponse(res, o)
	if err != nil {
		o = nil
	}

	return
}

// Fetch an object's metadata record.
func (oc *ObjectClient) Read(
	ctx context.Context,
	name string,
	params *ReadObjectParams) (o *Object, err error) {
	desc := fmt.Sprintf("ReadObject: %s/%s", oc.bucket, name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	o = &Object{}
	err = oc.client.jsonCall(ctx, "GET", oc.objectURL(name, q), nil, o)
	if err != nil {
		o = nil
	}

	return
}

// Download an object's contents in full.
func (oc *ObjectClient) Download(
	ctx context.Context,
	name string,
	params *ReadObjectParams) (contents []byte, err error) {
	rc, err := oc.DownloadStreamed(ctx, name, params)
	if err != nil {
		return
	}

	defer rc.Close()

	contents, err = ioutil.ReadAll(rc)
	if err != nil {
		err = newTransportError(err)
		return
	}

	return
}

// Download an object's contents as a stream. The returned stream's Size is
// the response Content-Length, or negative when the server streamed the
// response without one.
func (oc *ObjectClient) DownloadStreamed(
	ctx context.Context,
	name string,
	params *ReadObjectParams) (rc *SizedReadCloser, err error) {
	desc := fmt.Sprintf("DownloadObject: %s/%s", oc.bucket, name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	q.Set("alt", "media")
	params.addTo(q)

	req, err := oc.client.newRequest(
		ctx,
		"GET",
		oc.objectURL(name, q),
		nil,
		-1)

	if err != nil {
		return
	}

	res, err := oc.client.do(ctx, req)
	if err != nil {
		return
	}

	if err = checkMediaResponse(res); err != nil {
		return
	}

	rc = &SizedReadCloser{
		ReadCloser: res.Body,
		Size:       res.ContentLength,
	}

	return
}

// Replace an object's metadata record. The object is addressed by the
// record's own bucket and name fields.
func (oc *ObjectClient) Update(
	ctx context.Context,
	o *Object,
	params *UpdateObjectParams) (updated *Object, err error) {
	desc := fmt.Sprintf("UpdateObject: %s/%s", o.Bucket, o.Name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	urlStr := buildURL(
		oc.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s",
			httputil.PercentEncode(o.Bucket),
			httputil.PercentEncode(o.Name)),
		q)

	updated = &Object{}
	err = oc.client.jsonCall(ctx, "PUT", urlStr, o, updated)
	if err != nil {
		updated = nil
	}

	return
}

// Delete an object.
func (oc *ObjectClient) Delete(
	ctx context.Context,
	name string,
	params *DeleteObjectParams) (err error) {
	desc := fmt.Sprintf("DeleteObject: %s/%s", oc.bucket, name)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	err = oc.client.jsonCall(ctx, "DELETE", oc.objectURL(name, q), nil, nil)
	return
}

// Concatenate the request's source objects, in order, into dstName.
func (oc *ObjectClient) Compose(
	ctx context.Context,
	dstName string,
	req *ComposeRequest,
	params *ComposeObjectParams) (o *Object, err error) {
	desc := fmt.Sprintf("ComposeObjects: %s/%s", oc.bucket, dstName)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	urlStr := buildURL(
		oc.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s/compose",
			httputil.PercentEncode(oc.bucket),
			httputil.PercentEncode(dstName)),
		q)

	o = &Object{}
	err = oc.client.jsonCall(ctx, "POST", urlStr, req, o)
	if err != nil {
		o = nil
	}

	return
}

// Copy src to the supplied destination. Source and destination may live in
// different buckets.
func (oc *ObjectClient) Copy(
	ctx context.Context,
	src *Object,
	dstBucket string,
	dstName string,
	params *CopyObjectParams) (o *Object, err error) {
	desc := fmt.Sprintf(
		"CopyObject: %s/%s -> %s/%s",
		src.Bucket, src.Name, dstBucket, dstName)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	urlStr := buildURL(
		oc.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s/copyTo/b/%s/o/%s",
			httputil.PercentEncode(src.Bucket),
			httputil.PercentEncode(src.Name),
			httputil.PercentEncode(dstBucket),
			httputil.PercentEncode(dstName)),
		q)

	o = &Object{}
	err = oc.client.jsonCall(ctx, "POST", urlStr, nil, o)
	if err != nil {
		o = nil
	}

	return
}

// Rewrite src to the supplied destination. For the supported subset (same
// region, storage class and encryption) this completes in a single call, so
// the result is the destination object rather than a continuation token.
func (oc *ObjectClient) Rewrite(
	ctx context.Context,
	src *Object,
	dstBucket string,
	dstName string,
	params *RewriteObjectParams) (o *Object, err error) {
	desc := fmt.Sprintf(
		"RewriteObject: %s/%s -> %s/%s",
		src.Bucket, src.Name, dstBucket, dstName)
	defer reqtrace.StartSpanWithError(&ctx, &err, desc)()

	q := url.Values{}
	params.addTo(q)

	urlStr := buildURL(
		oc.client.baseURL,
		fmt.Sprintf(
			"/b/%s/o/%s/rewriteTo/b/%s/o/%s",
			httputil.PercentEncode(src.Bucket),
			httputil.PercentEncode(src.Name),
			httputil.PercentEncode(dstBucket),
			httputil.PercentEncode(dstName)),
		q)

	var rr RewriteResponse
	err = oc.client.jsonCall(ctx, "POST", urlStr, nil, &rr)
	if err != nil {
		return
	}

	if rr.Resource == nil {
		err = newOtherError("rewrite response carried no resource")
		return
	}

	o = rr.Resource
	return
}
