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

// Package cryptoutil contains the signing and hashing primitives used when
// minting OAuth tokens and V4 signed URLs.
package cryptoutil

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// Parse a PEM-encoded RSA private key. Both PKCS #8 ("PRIVATE KEY") and
// PKCS #1 ("RSA PRIVATE KEY") blocks are accepted; Google hands out the
// former in service account JSON files, but keys converted by hand are often
// the latter.
func ParsePrivateKey(pemBytes []byte) (key *rsa.PrivateKey, err error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		err = fmt.Errorf("No PEM block found in private key material.")
		return
	}

	// Try PKCS #8 first.
	if parsed, p8Err := x509.ParsePKCS8PrivateKey(block.Bytes); p8Err == nil {
		var ok bool
		key, ok = parsed.(*rsa.PrivateKey)
		if !ok {
			err = fmt.Errorf("Private key is %T, not RSA.", parsed)
		}

		return
	}

	// Fall back to PKCS #1.
	key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		err = fmt.Errorf("ParsePKCS1PrivateKey: %v", err)
		return
	}

	return
}

// Sign the SHA-256 digest of data with the supplied key, using RSASSA-PKCS1
// v1.5. This is the signature scheme Google's V4 signed URL format calls
// GOOG4-RSA-SHA256.
func SignSHA256(key *rsa.PrivateKey, data []byte) (sig []byte, err error) {
	digest := sha256.Sum256(data)

	sig, err = rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		err = fmt.Errorf("SignPKCS1v15: %v", err)
		return
	}

	return
}

// Return the lowercase hex encoding of the SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
