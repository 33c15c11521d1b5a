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

// Package gcsutil contains convenience helpers layered on top of package
// gcs.
package gcsutil

import (
	"github.com/ThouCheese/cloud-storage-go/gcs"
	"github.com/jacobsa/syncutil"
	"golang.org/x/net/context"
)

// A name and contents pair for CreateObjects.
type ObjectInfo struct {
	Name        string
	ContentType string
	Contents    []byte
}

// List all objects matching the request, paging until the listing is
// exhausted. Prefixes collapsed by a delimiter are returned alongside.
func ListAll(
	ctx context.Context,
	objects *gcs.ObjectClient,
	req *gcs.ListObjectsRequest) (
	records []*gcs.Object, prefixes []string, err error) {
	it := objects.List(req)
	for {
		var page *gcs.ObjectList
		page, err = it.Next(ctx)
		if err == gcs.ErrIteratorDone {
			err = nil
			return
		}

		if err != nil {
			return
		}

		records = append(records, page.Items...)
		prefixes = append(prefixes, page.Prefixes...)
	}
}

// Create an object with the supplied contents and a generic content type.
func CreateObject(
	ctx context.Context,
	objects *gcs.ObjectClient,
	name string,
	contents []byte) (*gcs.Object, error) {
	return objects.Create(
		ctx,
		name,
		contents,
		"application/octet-stream",
		nil)
}

// Create multiple objects with some parallelism, returning corresponding
// records for the objects created.
func CreateObjects(
	ctx context.Context,
	objects *gcs.ObjectClient,
	input []*ObjectInfo) (created []*gcs.Object, err error) {
	bundle := syncutil.NewBundle(ctx)

	// Size the output slice.
	created = make([]*gcs.Object, len(input))

	// Feed ObjectInfo records into a channel.
	type record struct {
		index      int
		objectInfo *ObjectInfo
	}

	recordChan := make(chan record, len(input))
	for i, o := range input {
		recordChan <- record{i, o}
	}

	close(recordChan)

	// Create the objects in parallel, writing to the output slice as we go.
	const parallelism = 16
	for i := 0; i < parallelism; i++ {
		bundle.Add(func(ctx context.Context) error {
			for r := range recordChan {
				contentType := r.objectInfo.ContentType
				if contentType == "" {
					contentType = "application/octet-stream"
				}

				o, err := objects.Create(
					ctx,
					r.objectInfo.Name,
					r.objectInfo.Contents,
					contentType,
					nil)

				if err != nil {
					return err
				}

				created[r.index] = o
			}

			return nil
		})
	}

	err = bundle.Join()
	return
}

// Create empty objects for all of the supplied names.
func CreateEmptyObjects(
	ctx context.Context,
	objects *gcs.ObjectClient,
	names []string) ([]*gcs.Object, error) {
	infoStructs := make([]*ObjectInfo, len(names))
	for i, name := range names {
		infoStructs[i] = &ObjectInfo{
			Name: name,
		}
	}

	return CreateObjects(ctx, objects, infoStructs)
}

// List all object names into the supplied channel. Responsibility for
// closing the channel is not transferred.
func listIntoChannel(
	ctx context.Context,
	objects *gcs.ObjectClient,
	objectNames chan<- string) error {
	it := objects.List(nil)
	for {
		page, err := it.Next(ctx)
		if err == gcs.ErrIteratorDone {
			return nil
		}

		if err != nil {
			return err
		}

		for _, o := range page.Items {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case objectNames <- o.Name:
			}
		}
	}
}

// Delete all objects in the bucket. Results are undefined if the bucket is
// being concurrently updated.
func DeleteAllObjects(
	ctx context.Context,
	objects *gcs.ObjectClient) error {
	bundle := syncutil.NewBundle(ctx)

	// List all of the objects in the bucket.
	objectNames := make(chan string, 100)
	bundle.Add(func(ctx context.Context) error {
		defer close(objectNames)
		return listIntoChannel(ctx, objects, objectNames)
	})

	// Delete the objects in parallel.
	const parallelism = 16
	for i := 0; i < parallelism; i++ {
		bundle.Add(func(ctx context.Context) error {
			for objectName := range objectNames {
				err := objects.Delete(ctx, objectName, nil)
				if err != nil {
					return err
				}
			}

			return nil
		})
	}

	return bundle.Join()
}
