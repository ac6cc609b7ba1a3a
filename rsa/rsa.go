// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rsa implements RSA encryption with PKCS #1 v1.5 padding, as
// specified in PKCS #1 and RFC 8017.
//
// Modular arithmetic on key material is performed with constant-time
// operations from github.com/cronokirby/safenum, and the padding of a
// decrypted message is validated by the pkcs1 package without branching
// on its contents. Together these close the timing side channels that
// make textbook PKCS #1 v1.5 decryption exploitable.
package rsa

import (
	"crypto"
	"crypto/rand"
	"errors"
	"io"

	"github.com/beaqu/ctrsa/internal/randutil"
	"github.com/cronokirby/safenum"
)

// A PublicKey represents the public part of an RSA key.
type PublicKey struct {
	N *safenum.Modulus // modulus
	E int              // public exponent
}

// Size returns the modulus size in bytes. Raw ciphertexts for or by this
// public key will have the same size.
func (pub *PublicKey) Size() int {
	return int((pub.N.BitLen() + 7) / 8)
}

// Equal reports whether pub and x have the same value.
func (pub *PublicKey) Equal(x crypto.PublicKey) bool {
	xx, ok := x.(*PublicKey)
	if !ok {
		return false
	}
	return pub.N.Cmp(xx.N) == 0 && pub.E == xx.E
}

var (
	errPublicModulus       = errors.New("rsa: missing public modulus")
	errPublicExponentSmall = errors.New("rsa: public exponent too small")
	errPublicExponentLarge = errors.New("rsa: public exponent too large")
)

// checkPub sanity checks the public key before we use it.
// We require pub.E to fit into a 32-bit integer so that we
// do not have different behavior depending on whether
// int is 32 or 64 bits. See also
// https://www.imperialviolet.org/2012/03/16/rsae.html.
func checkPub(pub *PublicKey) error {
	if pub.N == nil {
		return errPublicModulus
	}
	if pub.E < 2 {
		return errPublicExponentSmall
	}
	if pub.E > 1<<31-1 {
		return errPublicExponentLarge
	}
	return nil
}

// A PrivateKey represents an RSA key.
type PrivateKey struct {
	PublicKey                // public part.
	D         *safenum.Nat   // private exponent
	Primes    []*safenum.Nat // the two prime factors of N

	// Precomputed contains precomputed values that speed up private
	// operations, if available.
	Precomputed PrecomputedValues
}

type PrecomputedValues struct {
	Dp, Dq *safenum.Nat // D mod (P-1) (or mod Q-1)
	Qinv   *safenum.Nat // Q^-1 mod P
}

// Public returns the public key corresponding to priv.
func (priv *PrivateKey) Public() crypto.PublicKey {
	return &priv.PublicKey
}

// Equal reports whether priv and x have equivalent values. It ignores
// Precomputed values.
func (priv *PrivateKey) Equal(x crypto.PrivateKey) bool {
	xx, ok := x.(*PrivateKey)
	if !ok {
		return false
	}
	if !priv.PublicKey.Equal(&xx.PublicKey) || priv.D.Cmp(xx.D) != 0 {
		return false
	}
	if len(priv.Primes) != len(xx.Primes) {
		return false
	}
	for i := range priv.Primes {
		if priv.Primes[i].Cmp(xx.Primes[i]) != 0 {
			return false
		}
	}
	return true
}

// Validate performs basic sanity checks on the key.
// It returns nil if the key is valid, or else an error describing a problem.
func (priv *PrivateKey) Validate() error {
	if err := checkPub(&priv.PublicKey); err != nil {
		return err
	}
	if len(priv.Primes) != 2 {
		return errors.New("rsa: key must have exactly two prime factors")
	}

	// Check that p*q == n.
	one := new(safenum.Nat).SetUint64(1)
	modulus := new(safenum.Nat).SetUint64(1)
	for _, prime := range priv.Primes {
		// Any primes ≤ 1 will cause divide-by-zero panics later.
		if prime.Cmp(one) <= 0 {
			return errors.New("rsa: invalid prime value")
		}
		modulus.Mul(modulus, prime, priv.N.BitLen())
	}
	if modulus.CmpMod(priv.N) != 0 {
		return errors.New("rsa: invalid modulus")
	}

	// Check that de ≡ 1 mod p-1, for each prime, which implies that e
	// is coprime to each p-1 and therefore that a^de ≡ a mod n for all
	// a coprime to n, as required.
	congruence := new(safenum.Nat)
	de := new(safenum.Nat).SetUint64(uint64(priv.E))
	de.Mul(de, priv.D, priv.D.AnnouncedLen()+64)
	for _, prime := range priv.Primes {
		pminus1 := new(safenum.Nat).Sub(prime, one, priv.N.BitLen())
		congruence.Mod(de, safenum.ModulusFromNat(*pminus1))
		if congruence.Cmp(one) != 0 {
			return errors.New("rsa: invalid exponents")
		}
	}
	return nil
}

// GenerateKey generates a two-prime RSA keypair of the given bit size
// using the random source random (for example, crypto/rand.Reader).
func GenerateKey(random io.Reader, bits int) (*PrivateKey, error) {
	randutil.MaybeReadByte(random)

	if bits < 64 {
		return nil, errors.New("rsa: key size too small")
	}

	priv := new(PrivateKey)
	priv.E = 65537

	for {
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, err
		}
		q, err := rand.Prime(random, bits-bits/2)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		pn := new(safenum.Nat).SetBytes(p.Bytes())
		qn := new(safenum.Nat).SetBytes(q.Bytes())

		n := new(safenum.Nat).Mul(pn, qn, uint(bits))
		if int(n.TrueLen()) != bits {
			// crypto/rand sets the top two bits of each prime, so the
			// product rarely falls short; retry when it does.
			continue
		}

		one := new(safenum.Nat).SetUint64(1)
		pminus1 := new(safenum.Nat).Sub(pn, one, pn.TrueLen())
		qminus1 := new(safenum.Nat).Sub(qn, one, qn.TrueLen())
		totient := new(safenum.Nat).Mul(pminus1, qminus1, uint(bits))

		e := new(safenum.Nat).SetUint64(uint64(priv.E))
		// In case priv.E is badly chosen this can fail; retry with
		// fresh primes.
		priv.D = new(safenum.Nat)
		if priv.D.ModInverseEven(e, totient) == nil {
			continue
		}

		priv.Primes = []*safenum.Nat{pn, qn}
		priv.N = safenum.ModulusFromBytes(n.Bytes())
		break
	}

	priv.Precompute()
	return priv, nil
}

// Precompute performs some calculations that speed up private key
// operations in the future.
func (priv *PrivateKey) Precompute() {
	if priv.Precomputed.Dp != nil {
		return
	}
	one := new(safenum.Nat).SetUint64(1)

	priv.Precomputed.Dp = new(safenum.Nat).Sub(priv.Primes[0], one, priv.Primes[0].AnnouncedLen())
	priv.Precomputed.Dp.Mod(priv.D, safenum.ModulusFromNat(*priv.Precomputed.Dp))

	priv.Precomputed.Dq = new(safenum.Nat).Sub(priv.Primes[1], one, priv.Primes[1].AnnouncedLen())
	priv.Precomputed.Dq.Mod(priv.D, safenum.ModulusFromNat(*priv.Precomputed.Dq))

	priv.Precomputed.Qinv = new(safenum.Nat).ModInverse(priv.Primes[1], safenum.ModulusFromNat(*priv.Primes[0]))
}

// ErrMessageTooLong is returned when attempting to encrypt a message which is
// too large for the size of the public key.
var ErrMessageTooLong = errors.New("rsa: message too long for RSA public key size")

// ErrDecryption represents a failure to decrypt a message.
// It is deliberately vague to avoid adaptive attacks.
var ErrDecryption = errors.New("rsa: decryption error")

func encrypt(c *safenum.Nat, pub *PublicKey, m *safenum.Nat) *safenum.Nat {
	e := new(safenum.Nat).SetUint64(uint64(pub.E))
	c.Exp(m, e, safenum.ModulusFromBytes(pub.N.Bytes()))
	return c
}

// decrypt performs an RSA decryption, resulting in a plaintext integer.
func decrypt(priv *PrivateKey, c *safenum.Nat) (*safenum.Nat, error) {
	if c.CmpMod(priv.N) > 0 {
		return nil, ErrDecryption
	}
	if priv.N.BitLen() == 0 {
		return nil, ErrDecryption
	}

	if priv.Precomputed.Dp == nil {
		return new(safenum.Nat).Exp(c, priv.D, priv.N), nil
	}

	// We have the precalculated values needed for the CRT.
	primeMod0 := safenum.ModulusFromNat(*priv.Primes[0])
	primeMod1 := safenum.ModulusFromNat(*priv.Primes[1])
	m := new(safenum.Nat).Exp(c, priv.Precomputed.Dp, primeMod0)
	m2 := new(safenum.Nat).Exp(c, priv.Precomputed.Dq, primeMod1)
	m.ModSub(m, m2, primeMod0)
	m.ModMul(m, priv.Precomputed.Qinv, primeMod0)
	m.Mul(m, priv.Primes[1], priv.N.BitLen())
	m.Add(m, m2, priv.N.BitLen())
	return m, nil
}

func decryptAndCheck(priv *PrivateKey, c *safenum.Nat) (*safenum.Nat, error) {
	m, err := decrypt(priv, c)
	if err != nil {
		return nil, err
	}

	// In order to defend against errors in the CRT computation, m^e is
	// calculated, which should match the original ciphertext.
	mNat := new(safenum.Nat).SetBytes(m.Bytes())
	check := new(safenum.Nat).SetBytes(encrypt(new(safenum.Nat), &priv.PublicKey, mNat).Bytes())
	if c.Cmp(check) != 0 {
		return nil, errors.New("rsa: internal error")
	}
	return m, nil
}
