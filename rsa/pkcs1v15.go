// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rsa

import (
	"crypto/subtle"
	"io"

	"github.com/beaqu/ctrsa/internal/randutil"
	"github.com/beaqu/ctrsa/pkcs1"
	"github.com/cronokirby/safenum"
)

// EncryptPKCS1v15 encrypts the given message with RSA and the padding scheme
// from PKCS #1 v1.5. The message must be no longer than the length of the
// public modulus minus 11 bytes.
//
// The random parameter is used as a source of entropy to ensure that
// encrypting the same message twice doesn't result in the same ciphertext.
//
// WARNING: use of this function to encrypt plaintexts other than session
// keys is dangerous. Use RSA OAEP in new protocols.
func EncryptPKCS1v15(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	randutil.MaybeReadByte(random)

	if err := checkPub(pub); err != nil {
		return nil, err
	}
	k := pub.Size()
	if len(msg) > k-11 {
		return nil, ErrMessageTooLong
	}

	// EM = 0x00 || 0x02 || PS || 0x00 || M
	em := make([]byte, k)
	em[1] = 2
	ps, mm := em[2:len(em)-len(msg)-1], em[len(em)-len(msg):]
	if err := nonZeroRandomBytes(ps, random); err != nil {
		return nil, err
	}
	em[len(em)-len(msg)-1] = 0
	copy(mm, msg)

	m := new(safenum.Nat).SetBytes(em)
	c := encrypt(new(safenum.Nat), pub, m)
	return c.FillBytes(make([]byte, k)), nil
}

// nonZeroRandomBytes fills the given slice with non-zero random octets.
func nonZeroRandomBytes(s []byte, random io.Reader) error {
	if _, err := io.ReadFull(random, s); err != nil {
		return err
	}
	for i := range s {
		for s[i] == 0 {
			if _, err := io.ReadFull(random, s[i:i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecryptPKCS1v15 decrypts a PKCS #1 v1.5 ciphertext and validates its
// padding in constant time. On valid padding it returns the message; on
// invalid padding it returns sentinel instead, through the identical
// sequence of operations, so that the two outcomes cannot be told apart
// by timing. A caller that needs to distinguish them can only do so by
// comparing the result against the sentinel value it supplied, and must
// take care that whatever it does next does not reopen the oracle this
// function closes.
//
// The sentinel must be no longer than the public modulus. Errors are
// returned only for malformed keys or ciphertexts whose properties are
// public (wrong length, value out of range); never for bad padding.
//
// WARNING: in protocols where an attacker can submit ciphertexts and
// observe the outcome, prefer DecryptPKCS1v15SessionKey with a random
// session key, per RFC 3218.
func DecryptPKCS1v15(priv *PrivateKey, ciphertext, sentinel []byte) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}
	k := priv.Size()
	if k < 11 {
		return nil, ErrDecryption
	}

	em, err := decryptRaw(priv, ciphertext)
	if err != nil {
		return nil, err
	}

	output := make([]byte, k)
	skip, err := pkcs1.Decode(em, sentinel, output)
	if err != nil {
		return nil, err
	}
	return output[skip:], nil
}

// DecryptPKCS1v15SessionKey decrypts a session key using RSA and the
// padding scheme from PKCS #1 v1.5. key must be a random session key of
// the expected length, generated before the call. If the ciphertext
// carries valid padding and a message of exactly len(key) bytes, that
// message replaces key; otherwise key is left untouched. Both outcomes
// take the same time, so an attacker submitting ciphertexts learns
// nothing from this function: the protocol simply proceeds with a key
// the attacker cannot predict (see RFC 3218).
func DecryptPKCS1v15SessionKey(priv *PrivateKey, ciphertext, key []byte) error {
	if err := checkPub(&priv.PublicKey); err != nil {
		return err
	}
	k := priv.Size()
	if k-(len(key)+3+8) < 0 {
		return ErrDecryption
	}

	em, err := decryptRaw(priv, ciphertext)
	if err != nil {
		return err
	}

	// The session key doubles as the decoder's sentinel: on invalid
	// padding the tail of output already holds key, and the guarded
	// copy below changes nothing.
	output := make([]byte, k)
	skip, err := pkcs1.Decode(em, key, output)
	if err != nil {
		return err
	}

	valid := subtle.ConstantTimeEq(int32(k-skip), int32(len(key)))
	subtle.ConstantTimeCopy(valid, key, output[k-len(key):])
	return nil
}

// decryptRaw performs the private-key operation and left-pads the result
// to the size of the modulus, the fixed-length encoded message the
// constant-time decoder expects.
func decryptRaw(priv *PrivateKey, ciphertext []byte) ([]byte, error) {
	k := priv.Size()
	if len(ciphertext) > k {
		return nil, ErrDecryption
	}
	c := new(safenum.Nat).SetBytes(ciphertext)
	m, err := decryptAndCheck(priv, c)
	if err != nil {
		return nil, err
	}
	return m.FillBytes(make([]byte, k)), nil
}
