package feed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// VerifyDetached checks the armored detached signature at sigPath against the
// feed file at feedPath, using the armored public key at keyPath.
func VerifyDetached(feedPath, sigPath, keyPath string) error {
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyBytes))
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	payload, err := os.Open(feedPath)
	if err != nil {
		return fmt.Errorf("failed to open feed: %w", err)
	}
	defer payload.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature: %w", err)
	}
	defer sig.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, payload, sig, &packet.Config{}); err != nil {
		return fmt.Errorf("feed signature verification failed: %w", err)
	}
	log.Infof("feed signature verified with key %s", keyPath)
	return nil
}
