// This file was auto-generated using createmock. See the following page for
// more information:
//
//     https://github.com/jacobsa/oglemock
//

package mock_oauthutil

import (
	fmt "fmt"
	http "net/http"
	runtime "runtime"
	unsafe "unsafe"

	oauthutil "github.com/ThouCheese/cloud-storage-go/oauthutil"
	oglemock "github.com/jacobsa/oglemock"
	context "golang.org/x/net/context"
)

type MockTokenSource interface {
	oauthutil.TokenSource
	oglemock.MockObject
}

type mockTokenSource struct {
	controller  oglemock.Controller
	description string
}

func NewMockTokenSource(
	c oglemock.Controller,
	desc string) MockTokenSource {
	return &mockTokenSource{
		controller:  c,
		description: desc,
	}
}

func (m *mockTokenSource) Oglemock_Id() uintptr {
	return uintptr(unsafe.Pointer(m))
}

func (m *mockTokenSource) Oglemock_Description() string {
	return m.description
}

func (m *mockTokenSource) Token(p0 context.Context, p1 *http.Client) (o0 string, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"Token",
		file,
		line,
		[]interface{}{p0, p1})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockTokenSource.Token: invalid return values: %v", retVals))
	}

	// o0 string
	if retVals[0] != nil {
		o0 = retVals[0].(string)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}
