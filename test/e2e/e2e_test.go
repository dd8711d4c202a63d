package e2e

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cloudflare/circl/dh/x448"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/curve25519"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

func secp256k1Domain(t *testing.T) *ecc.Domain {
	t.Helper()
	d, err := ecc.NamedDomain("secp256k1")
	if err != nil {
		t.Fatalf("secp256k1 domain: %v", err)
	}
	return d
}

func scalarOf(x *big.Int) *secp256k1.ModNScalar {
	s := new(secp256k1.ModNScalar)
	s.SetByteSlice(x.Bytes())
	return s
}

func TestSecp256k1ScalarMultMatchesDecred(t *testing.T) {
	d := secp256k1Domain(t)

	for i := 0; i < 20; i++ {
		// 1. Base point multiplication
		k, err := rand.Int(rand.Reader, d.Order())
		if err != nil {
			t.Fatal(err)
		}
		ours, err := d.Multiply(d.Generator(), k)
		if err != nil {
			t.Fatal(err)
		}
		var R secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(scalarOf(k), &R)
		R.ToAffine()
		if ours.X.Cmp(new(big.Int).SetBytes(R.X.Bytes()[:])) != 0 || ours.Y.Cmp(new(big.Int).SetBytes(R.Y.Bytes()[:])) != 0 {
			t.Fatalf("k*G differs for k=%x", k)
		}

		// 2. Variable base multiplication from a parsed SEC1 point
		enc, err := d.Encode(ours, true)
		if err != nil {
			t.Fatal(err)
		}
		pk, err := secp256k1.ParsePubKey(enc)
		if err != nil {
			t.Fatalf("decred rejected our encoding %x: %v", enc, err)
		}
		var P, Q secp256k1.JacobianPoint
		pk.AsJacobian(&P)
		e, err := rand.Int(rand.Reader, d.Order())
		if err != nil {
			t.Fatal(err)
		}
		secp256k1.ScalarMultNonConst(scalarOf(e), &P, &Q)
		Q.ToAffine()
		want := secp256k1.NewPublicKey(&Q.X, &Q.Y).SerializeUncompressed()

		got, err := d.Multiply(ours, e)
		if err != nil {
			t.Fatal(err)
		}
		gotEnc, err := d.Encode(got, false)
		if err != nil {
			t.Fatal(err)
		}
		if string(gotEnc) != string(want) {
			t.Fatalf("e*P differs:\n got %x\nwant %x", gotEnc, want)
		}
	}
}

func TestSecp256k1ECDSAWithDecred(t *testing.T) {
	d := secp256k1Domain(t)
	priv, err := ecc.GenerateKey(rand.Reader, d)
	if err != nil {
		t.Fatal(err)
	}
	hash := sha256.Sum256([]byte("cross-implementation"))
	dcrPriv := secp256k1.PrivKeyFromBytes(priv.Bytes())
	dcrPub, err := secp256k1.ParsePubKey(priv.Public().Bytes(true))
	if err != nil {
		t.Fatal(err)
	}
	if !dcrPub.IsEqual(dcrPriv.PubKey()) {
		t.Fatal("public keys differ")
	}

	// Ours verified by decred.
	r, s, err := ecc.Sign(rand.Reader, priv, hash[:])
	if err != nil {
		t.Fatal(err)
	}
	if !ecdsa.NewSignature(scalarOf(r), scalarOf(s)).Verify(hash[:], dcrPub) {
		t.Error("decred rejected our signature")
	}

	// Decred's deterministic signature verified by ours.
	sig := ecdsa.Sign(dcrPriv, hash[:])
	if !ecc.VerifyASN1(priv.Public(), hash[:], sig.Serialize()) {
		t.Error("we rejected decred's signature")
	}
}

func TestSecp256k1WithBtcec(t *testing.T) {
	d := secp256k1Domain(t)
	alice, err := ecc.GenerateKey(rand.Reader, d)
	if err != nil {
		t.Fatal(err)
	}
	bob, err := ecc.GenerateKey(rand.Reader, d)
	if err != nil {
		t.Fatal(err)
	}
	bobPriv, bobPub := btcec.PrivKeyFromBytes(bob.Bytes())
	if string(bobPub.SerializeCompressed()) != string(bob.Public().Bytes(true)) {
		t.Fatal("btcec derived a different public key")
	}

	for _, compressed := range []bool{true, false} {
		pub, err := btcec.ParsePubKey(alice.Public().Bytes(compressed))
		if err != nil {
			t.Fatalf("btcec rejected our encoding (compressed=%v): %v", compressed, err)
		}
		want := btcec.GenerateSharedSecret(bobPriv, pub)
		got, err := ecc.ECDH(bob, alice.Public())
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(want) {
			t.Fatalf("shared secret differs:\n got %x\nwant %x", got, want)
		}
	}

	hash := sha256.Sum256([]byte("btcec"))
	der, err := ecc.SignASN1(rand.Reader, alice, hash[:])
	if err != nil {
		t.Fatal(err)
	}
	sig, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		t.Fatalf("btcec rejected our DER: %v", err)
	}
	pub, err := btcec.ParsePubKey(alice.Public().Bytes(true))
	if err != nil {
		t.Fatal(err)
	}
	if !sig.Verify(hash[:], pub) {
		t.Error("btcec rejected our signature")
	}
}

func TestX25519MatchesXCrypto(t *testing.T) {
	for i := 0; i < 20; i++ {
		k := make([]byte, ecc.X25519Size)
		u := make([]byte, ecc.X25519Size)
		if _, err := rand.Read(k); err != nil {
			t.Fatal(err)
		}
		if _, err := rand.Read(u); err != nil {
			t.Fatal(err)
		}
		want, wantErr := curve25519.X25519(k, u)
		got, err := ecc.X25519(k, u)
		if (err != nil) != (wantErr != nil) {
			t.Fatalf("error mismatch: ours %v, x/crypto %v", err, wantErr)
		}
		if err == nil && string(got) != string(want) {
			t.Fatalf("X25519 differs for k=%x u=%x", k, u)
		}
	}
}

func TestX448MatchesCircl(t *testing.T) {
	for i := 0; i < 20; i++ {
		var k, u, want x448.Key
		if _, err := rand.Read(k[:]); err != nil {
			t.Fatal(err)
		}
		if _, err := rand.Read(u[:]); err != nil {
			t.Fatal(err)
		}
		ok := x448.Shared(&want, &k, &u)
		got, err := ecc.X448(k[:], u[:])
		if ok != (err == nil) {
			t.Fatalf("error mismatch: ours %v, circl ok=%v", err, ok)
		}
		if ok && string(got) != string(want[:]) {
			t.Fatalf("X448 differs for k=%x u=%x", k, u)
		}
	}
}
