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

// List the objects in a bucket, using credentials from the environment.
//
// Usage:
//
//	lsobjects --bucket my-bucket [--prefix photos/] [--delimiter /]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/ThouCheese/cloud-storage-go/gcs"
	"github.com/ThouCheese/cloud-storage-go/gcs/gcsutil"
	"golang.org/x/net/context"
)

var fBucket = flag.String("bucket", "", "Bucket to list.")
var fPrefix = flag.String("prefix", "", "Only list objects with this prefix.")

var fDelimiter = flag.String(
	"delimiter",
	"",
	"Collapse names containing this string into prefixes, like directories.")

var fLong = flag.Bool("l", false, "Show size and update time.")

func run(ctx context.Context) (err error) {
	if *fBucket == "" {
		err = errors.New("You must set --bucket.")
		return
	}

	client, err := gcs.NewClient()
	if err != nil {
		err = fmt.Errorf("NewClient: %v", err)
		return
	}

	objects, prefixes, err := gcsutil.ListAll(
		ctx,
		client.Objects(*fBucket),
		&gcs.ListObjectsRequest{
			Prefix:    *fPrefix,
			Delimiter: *fDelimiter,
		})

	if err != nil {
		err = fmt.Errorf("ListAll: %v", err)
		return
	}

	for _, p := range prefixes {
		fmt.Println(p)
	}

	for _, o := range objects {
		if *fLong {
			fmt.Printf(
				"%12d  %s  %s\n",
				o.Size,
				o.Updated.Format("2006-01-02 15:04:05"),
				o.Name)

			continue
		}

		fmt.Println(o.Name)
	}

	return
}

func main() {
	flag.Parse()

	err := run(context.Background())
	if err != nil {
		log.Fatalln(err)
	}
}
