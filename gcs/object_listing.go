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
	"errors"
	"fmt"
	"net/url"

	"github.com/ThouCheese/cloud-storage-go/httputil"
	"golang.org/x/net/context"
)

// Returned by ObjectPageIterator.Next once the listing has been exhausted.
var ErrIteratorDone = errors.New("no more pages")

// List the bucket's objects, one page per call to Next. A nil request lists
// everything.
func (oc *ObjectClient) List(req *ListObjectsRequest) *ObjectPageIterator {
	if req == nil {
		req = &ListObjectsRequest{}
	} else {
		// The iterator mutates its copy of the request as it pages.
		tmp := *req
		req = &tmp
	}

	if req.MaxResults != nil {
		remaining := *req.MaxResults
		req.MaxResults = &remaining
	}

	return &ObjectPageIterator{
		client: oc.client,
		bucket: oc.bucket,
		req:    req,
	}
}

// An iterator over pages of an object listing. Not safe for concurrent use.
//
// When the originating request set MaxResults, it caps the total number of
// records yielded across all pages, not the size of each page.
type ObjectPageIterator struct {
	client *Client
	bucket string
	req    *ListObjectsRequest
	done   bool
}

// Fetch the next page. Returns ErrIteratorDone once the listing has been
// exhausted. A request error ends the iteration; subsequent calls return
// ErrIteratorDone.
func (it *ObjectPageIterator) Next(ctx context.Context) (
	list *ObjectList, err error) {
	if it.done {
		err = ErrIteratorDone
		return
	}

	if it.req.MaxResults != nil && *it.req.MaxResults <= 0 {
		it.done = true
		err = ErrIteratorDone
		return
	}

	q := url.Values{}
	it.req.addTo(q)

	urlStr := buildURL(
		it.client.baseURL,
		fmt.Sprintf("/b/%s/o", httputil.PercentEncode(it.bucket)),
		q)

	list = &ObjectList{}
	err = it.client.jsonCall(ctx, "GET", urlStr, nil, list)
	if err != nil {
		list = nil
		it.done = true
		return
	}

	// Charge the page against the overall cap, saturating at zero.
	if it.req.MaxResults != nil {
		*it.req.MaxResults -= int64(len(list.Items))
		if *it.req.MaxResults < 0 {
			*it.req.MaxResults = 0
		}
	}

	if list.NextPageToken == "" {
		it.done = true
	} else {
		it.req.PageToken = list.NextPageToken
	}

	return
}

// Fetch all remaining pages and concatenate their records.
func (it *ObjectPageIterator) All(ctx context.Context) (
	objects []*Object, err error) {
	for {
		var page *ObjectList
		page, err = it.Next(ctx)
		if err == ErrIteratorDone {
			err = nil
			return
		}

		if err != nil {
			return
		}

		objects = append(objects, page.Items...)
	}
}
