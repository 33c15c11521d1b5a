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

package gcs_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThouCheese/cloud-storage-go/gcs"
	"github.com/ThouCheese/cloud-storage-go/gcs/gcsfake"
	"github.com/ThouCheese/cloud-storage-go/oauthutil"
	"github.com/ThouCheese/cloud-storage-go/oauthutil/mock_oauthutil"
	"github.com/jacobsa/timeutil"
	"golang.org/x/net/context"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/oglemock"
	. "github.com/jacobsa/ogletest"
)

func TestClient(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Fixtures
////////////////////////////////////////////////////////////////////////

const testProject = "test-project"
const testBucket = "some-bucket"

// A token source that always hands out the same token without touching the
// network.
type staticTokenSource string

func (ts staticTokenSource) Token(
	ctx context.Context,
	client *http.Client) (string, error) {
	return string(ts), nil
}

// An io.Reader wrapper that hides the underlying type, so that the HTTP
// layer cannot sniff a length from it.
type opaqueReader struct {
	wrapped io.Reader
}

func (r *opaqueReader) Read(p []byte) (int, error) {
	return r.wrapped.Read(p)
}

type ClientTest struct {
	ctx    context.Context
	clock  timeutil.SimulatedClock
	fake   *gcsfake.Server
	server *httptest.Server
	client *gcs.Client

	objects *gcs.ObjectClient
	buckets *gcs.BucketClient

	mockController Controller
}

func init() { RegisterTestSuite(&ClientTest{}) }

func (t *ClientTest) SetUp(ti *TestInfo) {
	t.ctx = ti.Ctx
	t.mockController = ti.MockController
	t.clock.SetTime(time.Date(2020, 7, 1, 12, 0, 0, 0, time.UTC))

	t.fake = gcsfake.NewServer(testProject, &t.clock)
	t.server = httptest.NewServer(t.fake)

	var err error
	t.client, err = gcs.NewClientBuilder().
		ServiceAccount(&oauthutil.ServiceAccount{
			ProjectID:   testProject,
			ClientEmail: "svc@test-project.iam.gserviceaccount.com",
		}).
		TokenSource(staticTokenSource("fake-token")).
		Clock(&t.clock).
		Endpoints(
			t.server.URL+"/storage/v1",
			t.server.URL+"/upload/storage/v1").
		Build()

	AssertEq(nil, err)

	t.objects = t.client.Objects(testBucket)
	t.buckets = t.client.Buckets()

	// Most tests operate on a pre-made bucket.
	_, err = t.buckets.Create(
		t.ctx,
		&gcs.CreateBucketRequest{Name: testBucket})

	AssertEq(nil, err)
}

func (t *ClientTest) TearDown() {
	t.server.Close()
}

func (t *ClientTest) create(name string, contents string) *gcs.Object {
	o, err := t.objects.Create(
		t.ctx,
		name,
		[]byte(contents),
		"text/plain",
		nil)

	AssertEq(nil, err)
	return o
}

////////////////////////////////////////////////////////////////////////
// Objects
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) CreateThenReadObject() {
	created := t.create("foo/bar.txt", "taco")

	ExpectEq("foo/bar.txt", created.Name)
	ExpectEq(testBucket, created.Bucket)
	ExpectEq("text/plain", created.ContentType)
	ExpectEq(4, created.Size)
	ExpectLt(0, created.Generation)
	ExpectEq(1, created.MetaGeneration)
	ExpectThat(created.Updated, timeutil.TimeEq(t.clock.Now().UTC()))

	read, err := t.objects.Read(t.ctx, "foo/bar.txt", nil)
	AssertEq(nil, err)

	ExpectEq(created.Generation, read.Generation)
	ExpectEq(created.Size, read.Size)
	ExpectEq(created.MD5Hash, read.MD5Hash)
	ExpectEq(created.CRC32C, read.CRC32C)
}

func (t *ClientTest) DownloadObject() {
	t.create("foo", "burrito")

	contents, err := t.objects.Download(t.ctx, "foo", nil)
	AssertEq(nil, err)
	ExpectEq("burrito", string(contents))
}

func (t *ClientTest) DownloadStreamedReportsSize() {
	t.create("foo", "burrito")

	rc, err := t.objects.DownloadStreamed(t.ctx, "foo", nil)
	AssertEq(nil, err)
	defer rc.Close()

	ExpectEq(7, rc.Size)

	var buf strings.Builder
	_, err = io.Copy(&buf, rc)
	AssertEq(nil, err)
	ExpectEq("burrito", buf.String())
}

func (t *ClientTest) CreateStreamedWithUnknownLength() {
	contents := strings.Repeat("x", 1<<16)
	o, err := t.objects.CreateStreamed(
		t.ctx,
		"big",
		&opaqueReader{wrapped: strings.NewReader(contents)},
		-1,
		"application/octet-stream",
		nil)

	AssertEq(nil, err)
	ExpectEq(uint64(1<<16), o.Size)

	readBack, err := t.objects.Download(t.ctx, "big", nil)
	AssertEq(nil, err)
	ExpectEq(contents, string(readBack))
}

func (t *ClientTest) ObjectNamesWithSlashesSurviveEncoding() {
	t.create("dir/sub dir/file+struct.txt", "contents")

	o, err := t.objects.Read(t.ctx, "dir/sub dir/file+struct.txt", nil)
	AssertEq(nil, err)
	ExpectEq("dir/sub dir/file+struct.txt", o.Name)
}

func (t *ClientTest) UpdateObject() {
	created := t.create("foo", "taco")

	created.ContentType = "image/png"
	created.Metadata = map[string]string{"k": "v"}

	updated, err := t.objects.Update(t.ctx, created, nil)
	AssertEq(nil, err)

	ExpectEq("image/png", updated.ContentType)
	ExpectEq("v", updated.Metadata["k"])
	ExpectEq(2, updated.MetaGeneration)
}

func (t *ClientTest) DeleteObject() {
	t.create("foo", "taco")

	err := t.objects.Delete(t.ctx, "foo", nil)
	AssertEq(nil, err)

	_, err = t.objects.Read(t.ctx, "foo", nil)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindGoogleAPI, gerr.Kind)
	ExpectEq(404, gerr.Response.Err.Code)
}

func (t *ClientTest) GenerationPreconditionFailure() {
	created := t.create("foo", "taco")

	wrongGen := created.Generation + 17
	err := t.objects.Delete(
		t.ctx,
		"foo",
		&gcs.DeleteObjectParams{IfGenerationMatch: &wrongGen})

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindGoogleAPI, gerr.Kind)
	ExpectEq(412, gerr.Response.Err.Code)
	ExpectTrue(gerr.Response.HasReason("conditionNotMet"))
}

func (t *ClientTest) ComposeObjects() {
	t.create("src_0", "ab")
	t.create("src_1", "cd")

	o, err := t.objects.Compose(
		t.ctx,
		"dst",
		&gcs.ComposeRequest{
			Kind: "storage#composeRequest",
			SourceObjects: []gcs.ComposeSource{
				{Name: "src_0"},
				{Name: "src_1"},
			},
		},
		nil)

	AssertEq(nil, err)
	ExpectEq("dst", o.Name)
	ExpectEq(2, o.ComponentCount)

	contents, err := t.objects.Download(t.ctx, "dst", nil)
	AssertEq(nil, err)
	ExpectEq("abcd", string(contents))
}

func (t *ClientTest) CopyObject() {
	src := t.create("src", "enchilada")

	_, err := t.buckets.Create(
		t.ctx,
		&gcs.CreateBucketRequest{Name: "other-bucket"})

	AssertEq(nil, err)

	copied, err := t.objects.Copy(t.ctx, src, "other-bucket", "dst", nil)
	AssertEq(nil, err)

	ExpectEq("other-bucket", copied.Bucket)
	ExpectEq("dst", copied.Name)

	contents, err := t.client.Objects("other-bucket").Download(
		t.ctx, "dst", nil)

	AssertEq(nil, err)
	ExpectEq("enchilada", string(contents))
}

func (t *ClientTest) RewriteObject() {
	src := t.create("src", "enchilada")

	rewritten, err := t.objects.Rewrite(t.ctx, src, testBucket, "dst", nil)
	AssertEq(nil, err)

	ExpectEq("dst", rewritten.Name)
	ExpectEq(src.Size, rewritten.Size)

	contents, err := t.objects.Download(t.ctx, "dst", nil)
	AssertEq(nil, err)
	ExpectEq("enchilada", string(contents))
}

////////////////////////////////////////////////////////////////////////
// Listing
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) ListAllObjects() {
	for i := 0; i < 5; i++ {
		t.create(fmt.Sprintf("obj_%d", i), "x")
	}

	it := t.objects.List(nil)
	all, err := it.All(t.ctx)
	AssertEq(nil, err)

	AssertEq(5, len(all))
	for i, o := range all {
		ExpectEq(fmt.Sprintf("obj_%d", i), o.Name)
	}
}

func (t *ClientTest) ListPagesWithGlobalCap() {
	for i := 0; i < 5; i++ {
		t.create(fmt.Sprintf("obj_%d", i), "x")
	}

	// The cap applies across pages, not per page.
	maxResults := int64(3)
	it := t.objects.List(&gcs.ListObjectsRequest{MaxResults: &maxResults})

	all, err := it.All(t.ctx)
	AssertEq(nil, err)
	ExpectEq(3, len(all))
}

func (t *ClientTest) ListWithZeroCapIssuesNoRequest() {
	// Poison the server; the iterator must not touch it.
	t.fake.InjectResponse(500, []byte("boom"))

	maxResults := int64(0)
	it := t.objects.List(&gcs.ListObjectsRequest{MaxResults: &maxResults})

	_, err := it.Next(t.ctx)
	ExpectEq(gcs.ErrIteratorDone, err)
}

func (t *ClientTest) ListWithDelimiter() {
	t.create("a/one", "x")
	t.create("a/two", "x")
	t.create("b", "x")

	page, err := t.objects.List(&gcs.ListObjectsRequest{
		Delimiter: "/",
	}).Next(t.ctx)

	AssertEq(nil, err)

	AssertEq(1, len(page.Items))
	ExpectEq("b", page.Items[0].Name)
	ExpectThat(page.Prefixes, ElementsAre("a/"))
}

func (t *ClientTest) IteratorExhaustionIsSticky() {
	it := t.objects.List(nil)

	_, err := it.Next(t.ctx)
	AssertEq(nil, err)

	_, err = it.Next(t.ctx)
	ExpectEq(gcs.ErrIteratorDone, err)

	_, err = it.Next(t.ctx)
	ExpectEq(gcs.ErrIteratorDone, err)
}

func (t *ClientTest) IteratorErrorEndsIteration() {
	t.fake.InjectResponse(503, []byte(`{"error": {"code": 503}}`))

	it := t.objects.List(nil)

	_, err := it.Next(t.ctx)
	ExpectNe(nil, err)

	_, err = it.Next(t.ctx)
	ExpectEq(gcs.ErrIteratorDone, err)
}

////////////////////////////////////////////////////////////////////////
// Buckets and IAM
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) BucketLifecycle() {
	b, err := t.buckets.Create(
		t.ctx,
		&gcs.CreateBucketRequest{
			Name:     "new-bucket",
			Location: "EU",
		})

	AssertEq(nil, err)
	ExpectEq("new-bucket", b.Name)
	ExpectEq("EU", b.Location)
	ExpectEq(gcs.StorageClassStandard, b.StorageClass)

	all, err := t.buckets.List(t.ctx)
	AssertEq(nil, err)
	AssertEq(2, len(all))
	ExpectEq("new-bucket", all[0].Name)
	ExpectEq(testBucket, all[1].Name)

	b.Labels = map[string]string{"env": "test"}
	updated, err := t.buckets.Update(t.ctx, b)
	AssertEq(nil, err)
	ExpectEq("test", updated.Labels["env"])
	ExpectEq(2, updated.MetaGeneration)

	err = t.buckets.Delete(t.ctx, "new-bucket")
	AssertEq(nil, err)

	_, err = t.buckets.Read(t.ctx, "new-bucket")
	ExpectThat(err, Error(HasSubstr("new-bucket")))
}

func (t *ClientTest) DeleteNonEmptyBucket() {
	t.create("foo", "x")

	err := t.buckets.Delete(t.ctx, testBucket)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindGoogleAPI, gerr.Kind)
	ExpectEq(409, gerr.Response.Err.Code)
}

func (t *ClientTest) IamPolicyRoundTrip() {
	policy, err := t.buckets.GetIamPolicy(t.ctx, testBucket)
	AssertEq(nil, err)
	ExpectEq("storage#policy", policy.Kind)

	policy.Bindings = append(policy.Bindings, gcs.IamBinding{
		Role:    "roles/storage.objectViewer",
		Members: []string{"allUsers"},
	})

	stored, err := t.buckets.SetIamPolicy(t.ctx, testBucket, policy)
	AssertEq(nil, err)
	AssertEq(1, len(stored.Bindings))
	ExpectEq("roles/storage.objectViewer", stored.Bindings[0].Role)
}

func (t *ClientTest) TestIamPermission() {
	resp, err := t.buckets.TestIamPermission(
		t.ctx, testBucket, "storage.objects.get")

	AssertEq(nil, err)
	ExpectThat(resp.Permissions, ElementsAre("storage.objects.get"))
}

func (t *ClientTest) ProjectPermissionsAreRejectedLocally() {
	// These must fail without a request being issued.
	t.fake.InjectResponse(500, []byte("boom"))

	for _, p := range []string{
		"storage.buckets.list",
		"storage.buckets.create",
	} {
		_, err := t.buckets.TestIamPermission(t.ctx, testBucket, p)

		var gerr *gcs.Error
		AssertTrue(errors.As(err, &gerr))
		ExpectEq(gcs.KindOther, gerr.Kind)
		ExpectThat(err, Error(HasSubstr(p)))
	}
}

////////////////////////////////////////////////////////////////////////
// ACLs
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) BucketACLLifecycle() {
	acls := t.client.BucketACLs(testBucket)

	entry, err := acls.Create(t.ctx, &gcs.NewACL{
		Entity: gcs.AllUsers,
		Role:   gcs.RoleReader,
	})

	AssertEq(nil, err)
	ExpectEq(gcs.AllUsers, entry.Entity)
	ExpectEq(gcs.RoleReader, entry.Role)

	entry.Role = gcs.RoleWriter
	updated, err := acls.Update(t.ctx, entry)
	AssertEq(nil, err)
	ExpectEq(gcs.RoleWriter, updated.Role)

	entries, err := acls.List(t.ctx)
	AssertEq(nil, err)
	AssertEq(1, len(entries))

	err = acls.Delete(t.ctx, gcs.AllUsers)
	AssertEq(nil, err)

	_, err = acls.Read(t.ctx, gcs.AllUsers)
	ExpectNe(nil, err)
}

func (t *ClientTest) ObjectACLLifecycle() {
	t.create("foo", "x")
	acls := t.client.ObjectACLs(testBucket, "foo")

	entity := gcs.UserEntity("alice@example.com")
	entry, err := acls.Create(t.ctx, &gcs.NewACL{
		Entity: entity,
		Role:   gcs.RoleOwner,
	})

	AssertEq(nil, err)
	ExpectEq(testBucket, entry.Bucket)
	ExpectEq("foo", entry.Object)
	ExpectEq(entity, entry.Entity)

	read, err := acls.Read(t.ctx, entity)
	AssertEq(nil, err)
	ExpectEq(gcs.RoleOwner, read.Role)

	err = acls.Delete(t.ctx, entity)
	AssertEq(nil, err)
}

func (t *ClientTest) DefaultObjectACLBucketIsBackFilled() {
	acls := t.client.DefaultObjectACLs(testBucket)

	// The server omits the bucket field; the client must supply it.
	entry, err := acls.Create(t.ctx, &gcs.NewACL{
		Entity: gcs.AllAuthenticatedUsers,
		Role:   gcs.RoleReader,
	})

	AssertEq(nil, err)
	ExpectEq(testBucket, entry.Bucket)

	entries, err := acls.List(t.ctx)
	AssertEq(nil, err)
	AssertEq(1, len(entries))
	ExpectEq(testBucket, entries[0].Bucket)

	read, err := acls.Read(t.ctx, gcs.AllAuthenticatedUsers)
	AssertEq(nil, err)
	ExpectEq(testBucket, read.Bucket)
}

////////////////////////////////////////////////////////////////////////
// HMAC keys
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) HmacKeyLifecycle() {
	hmac := t.client.HmacKeys()

	// An empty project yields an empty list, even though the server sends a
	// bare kind record.
	keys, err := hmac.List(t.ctx)
	AssertEq(nil, err)
	ExpectEq(0, len(keys))

	key, err := hmac.Create(t.ctx)
	AssertEq(nil, err)
	ExpectNe("", key.Secret)
	ExpectEq(gcs.HmacKeyActive, key.Metadata.State)

	accessID := key.Metadata.AccessID

	keys, err = hmac.List(t.ctx)
	AssertEq(nil, err)
	AssertEq(1, len(keys))
	ExpectEq(accessID, keys[0].AccessID)

	// Active keys cannot be deleted.
	err = hmac.Delete(t.ctx, accessID)
	ExpectThat(err, Error(HasSubstr("inactive")))

	meta, err := hmac.Update(t.ctx, accessID, gcs.HmacKeyInactive)
	AssertEq(nil, err)
	ExpectEq(gcs.HmacKeyInactive, meta.State)

	err = hmac.Delete(t.ctx, accessID)
	AssertEq(nil, err)

	_, err = hmac.Read(t.ctx, accessID)
	ExpectNe(nil, err)
}

////////////////////////////////////////////////////////////////////////
// Error handling
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) ErrorEnvelopeWithOkStatus() {
	// Some endpoints return an error envelope with a 200 status. The body
	// shape wins over the status code.
	t.fake.InjectResponse(200, []byte(`{
		"error": {
			"code": 403,
			"message": "forbidden",
			"errors": [{"domain": "global", "reason": "forbidden"}]
		}
	}`))

	_, err := t.objects.Read(t.ctx, "foo", nil)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindGoogleAPI, gerr.Kind)
	ExpectEq(403, gerr.Response.Err.Code)
	ExpectTrue(gerr.Response.HasReason("forbidden"))
}

func (t *ClientTest) NonJSONErrorBody() {
	t.fake.InjectResponse(502, []byte("<html>bad gateway</html>"))

	_, err := t.objects.Read(t.ctx, "foo", nil)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindOther, gerr.Kind)
	ExpectThat(err, Error(HasSubstr("502")))
}

func (t *ClientTest) GarbageSuccessBody() {
	t.fake.InjectResponse(200, []byte("not json"))

	_, err := t.objects.Read(t.ctx, "foo", nil)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindSerialization, gerr.Kind)
}

////////////////////////////////////////////////////////////////////////
// Concurrency
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) ParallelDownloads() {
	t.create("foo", "taco")

	const parallelism = 50

	var wg sync.WaitGroup
	errs := make([]error, parallelism)
	bodies := make([][]byte, parallelism)

	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bodies[i], errs[i] = t.objects.Download(t.ctx, "foo", nil)
		}(i)
	}

	wg.Wait()

	for i := 0; i < parallelism; i++ {
		AssertEq(nil, errs[i])
		ExpectEq("taco", string(bodies[i]))
	}
}

////////////////////////////////////////////////////////////////////////
// Token source plumbing
////////////////////////////////////////////////////////////////////////

func (t *ClientTest) TokenErrorsAreClassified() {
	ts := mock_oauthutil.NewMockTokenSource(t.mockController, "token source")

	client, err := gcs.NewClientBuilder().
		ServiceAccount(&oauthutil.ServiceAccount{ProjectID: testProject}).
		TokenSource(ts).
		Clock(&t.clock).
		Endpoints(
			t.server.URL+"/storage/v1",
			t.server.URL+"/upload/storage/v1").
		Build()

	AssertEq(nil, err)

	ExpectCall(ts, "Token")(Any(), Any()).
		WillOnce(Return("", errors.New("taco")))

	_, err = client.Objects(testBucket).Read(t.ctx, "foo", nil)

	var gerr *gcs.Error
	AssertTrue(errors.As(err, &gerr))
	ExpectEq(gcs.KindTransport, gerr.Kind)
	ExpectThat(err, Error(HasSubstr("taco")))
}
