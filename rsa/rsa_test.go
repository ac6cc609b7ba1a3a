// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rsa

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	priv, err := GenerateKey(rand.Reader, 768)
	if err != nil {
		t.Fatal(err)
	}
	if err := priv.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := priv.Size(); got != 96 {
		t.Errorf("Size() = %d, want 96", got)
	}

	msg := []byte("generated key round trip")
	ciphertext, err := EncryptPKCS1v15(rand.Reader, &priv.PublicKey, msg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecryptPKCS1v15(priv, ciphertext, []byte("sentinel"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("got %x, want %x", got, msg)
	}
}

func TestKeyEqual(t *testing.T) {
	priv, _ := testKeyPair(t)
	other, _ := testKeyPair(t)

	if !priv.Equal(priv) {
		t.Error("key should equal itself")
	}
	if !priv.PublicKey.Equal(&priv.PublicKey) {
		t.Error("public key should equal itself")
	}
	if priv.Equal(other) {
		t.Error("distinct keys compared equal")
	}
}

func TestCheckPub(t *testing.T) {
	priv, _ := testKeyPair(t)

	if err := checkPub(&priv.PublicKey); err != nil {
		t.Error(err)
	}
	if err := checkPub(&PublicKey{N: nil, E: 65537}); err != errPublicModulus {
		t.Errorf("got %v, want errPublicModulus", err)
	}
	if err := checkPub(&PublicKey{N: priv.N, E: 1}); err != errPublicExponentSmall {
		t.Errorf("got %v, want errPublicExponentSmall", err)
	}
}
