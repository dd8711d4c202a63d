//go:build js && wasm

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go ECC WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoECC", map[string]interface{}{
		"KeyGen": js.FuncOf(KeyGen),
		"Sign":   js.FuncOf(Sign),
		"Verify": js.FuncOf(Verify),
		"X25519": js.FuncOf(X25519),
	})

	<-c
}

// KeyGen generates a key pair.
// Arguments:
// 0: curve name (string)
// Returns:
// JSON {"curve", "private", "public"} with hex values, or an error string
func KeyGen(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (curve)"
	}
	d, err := ecc.NamedDomain(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	priv, err := ecc.GenerateKey(rand.Reader, d)
	if err != nil {
		return fmt.Sprintf("error: keygen failed: %v", err)
	}
	return marshal(map[string]interface{}{
		"curve":   d.Name(),
		"private": hex.EncodeToString(priv.Bytes()),
		"public":  hex.EncodeToString(priv.Public().Bytes(true)),
	})
}

// Sign signs a message with ECDSA after hashing it with the curve's hash.
// Arguments:
// 0: curve name (string)
// 1: private key (hex)
// 2: message (string)
// Returns:
// DER signature (hex) or an error string
func Sign(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (curve, privateKey, message)"
	}
	d, err := ecc.NamedDomain(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	raw, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex key: %v", err)
	}
	priv, err := ecc.ParsePrivateKey(d, raw)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	sig, err := ecc.SignASN1(rand.Reader, priv, d.Digest([]byte(args[2].String())))
	if err != nil {
		return fmt.Sprintf("error: sign failed: %v", err)
	}
	return hex.EncodeToString(sig)
}

// Verify checks a DER ECDSA signature.
// Arguments:
// 0: curve name (string)
// 1: public key (SEC1 hex)
// 2: message (string)
// 3: signature (hex)
// Returns:
// bool, or an error string for malformed input
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (curve, publicKey, message, signature)"
	}
	d, err := ecc.NamedDomain(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	rawPub, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex public key: %v", err)
	}
	sig, err := hex.DecodeString(args[3].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex signature: %v", err)
	}
	pub, err := ecc.ParsePublicKey(d, rawPub)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return ecc.VerifyASN1(pub, d.Digest([]byte(args[2].String())), sig)
}

// X25519 runs the X25519 function.
// Arguments:
// 0: private scalar (hex, 32 bytes)
// 1: optional peer u-coordinate (hex); the base point when omitted
// Returns:
// u-coordinate (hex) or an error string
func X25519(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 && len(args) != 2 {
		return "error: expected 1 or 2 arguments (scalar, [peer])"
	}
	k, err := hex.DecodeString(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex scalar: %v", err)
	}
	var out []byte
	if len(args) == 1 {
		out, err = ecc.X25519Base(k)
	} else {
		var u []byte
		if u, err = hex.DecodeString(args[1].String()); err != nil {
			return fmt.Sprintf("error: invalid hex peer: %v", err)
		}
		out, err = ecc.X25519(k, u)
	}
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(out)
}

func marshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: marshal failed: %v", err)
	}
	return string(b)
}
