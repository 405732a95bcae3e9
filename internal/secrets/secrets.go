package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const KeyringService = "jobwatch"

// Resolve returns a secret from the environment first and falls back to the
// OS keyring under the jobwatch service. Empty keyringAccount skips the
// keyring lookup entirely.
func Resolve(envKey, keyringAccount string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v, nil
	}
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", fmt.Errorf("secret %s not set (env or keyring account %q)", envKey, keyringAccount)
}

func Set(keyringAccount, value string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return fmt.Errorf("keyring account name is empty")
	}
	if value == "" {
		return keyring.Delete(KeyringService, keyringAccount)
	}
	return keyring.Set(KeyringService, keyringAccount, value)
}
