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

// Mint a V4 signed URL for an object, using credentials from the
// environment.
//
// Usage:
//
//	signurl --bucket my-bucket --object path/to/file [--method PUT]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ThouCheese/cloud-storage-go/gcs"
)

var fBucket = flag.String("bucket", "", "Bucket containing the object.")
var fObject = flag.String("object", "", "Name of the object.")
var fMethod = flag.String("method", "GET", "GET or PUT.")

var fDuration = flag.Duration(
	"duration",
	15*time.Minute,
	"How long the URL remains valid. At most 168h.")

var fDisposition = flag.String(
	"disposition",
	"",
	"Optional Content-Disposition to impose on GET responses.")

func run() (err error) {
	if *fBucket == "" {
		err = errors.New("You must set --bucket.")
		return
	}

	if *fObject == "" {
		err = errors.New("You must set --object.")
		return
	}

	client, err := gcs.NewClient()
	if err != nil {
		err = fmt.Errorf("NewClient: %v", err)
		return
	}

	objects := client.Objects(*fBucket)

	var url string
	switch *fMethod {
	case "GET":
		url, err = objects.DownloadURLWith(
			*fObject,
			*fDuration,
			gcs.DownloadOptions{ContentDisposition: *fDisposition})

	case "PUT":
		url, err = objects.UploadURL(*fObject, *fDuration)

	default:
		err = fmt.Errorf("Unsupported method: %q", *fMethod)
	}

	if err != nil {
		return
	}

	fmt.Println(url)
	return
}

func main() {
	flag.Parse()

	err := run()
	if err != nil {
		log.Fatalln(err)
	}
}
