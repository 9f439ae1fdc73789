package handlers

import (
	"fmt"

	"github.com/imamik/hostkit/internal/util/keygen"
)

// KeygenParams selects the key type and location.
type KeygenParams struct {
	Path    string
	Comment string
	// RSABits generates an RSA key of this size instead of Ed25519.
	RSABits int
}

// Keygen writes a new SSH key pair to p.Path and p.Path.pub and prints the
// public key, ready for authorized_keys or a git deploy key.
func Keygen(p KeygenParams) error {
	if p.Path == "" {
		return fmt.Errorf("key path cannot be empty")
	}

	var (
		kp  *keygen.KeyPair
		err error
	)
	if p.RSABits > 0 {
		if p.RSABits < 2048 {
			return fmt.Errorf("RSA keys need at least 2048 bits, got %d", p.RSABits)
		}
		kp, err = keygen.GenerateRSAKeyPair(p.RSABits)
	} else {
		kp, err = keygen.GenerateEd25519KeyPair(p.Comment)
	}
	if err != nil {
		return err
	}

	if err := kp.Write(p.Path); err != nil {
		return err
	}

	fmt.Fprintf(output, "Private key: %s\n", p.Path)
	fmt.Fprintf(output, "Public key:  %s.pub\n\n", p.Path)
	fmt.Fprint(output, string(kp.PublicKey))
	return nil
}
