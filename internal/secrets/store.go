package secrets

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const serviceName = "estatecrm"

// ErrPasswordNotFound is returned when no password is stored for a backend
var ErrPasswordNotFound = errors.New("password not found")

// Store handles secure password storage using the OS keyring with an
// encrypted file fallback
type Store struct {
	ring          keyring.Keyring
	usingFallback bool
}

// NewStore creates a new password store with platform-appropriate backends
func NewStore(configDir string) (*Store, error) {
	backends := getBackendsForPlatform()
	fileDir := filepath.Join(configDir, "keyring")

	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: backends,
		// File backend configuration
		FileDir: fileDir,
		FilePasswordFunc: func(_ string) (string, error) {
			return deriveFilePassword()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &Store{
		ring:          ring,
		usingFallback: isUsingFallback(backends),
	}, nil
}

// getBackendsForPlatform returns the appropriate backend priority for the current OS
func getBackendsForPlatform() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.FileBackend,
		}
	case "linux":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	case "windows":
		return []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		return []keyring.BackendType{
			keyring.FileBackend,
		}
	}
}

// isUsingFallback checks whether only the file backend is available
func isUsingFallback(requestedBackends []keyring.BackendType) bool {
	if len(requestedBackends) == 1 && requestedBackends[0] == keyring.FileBackend {
		return true
	}

	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			return false
		}
	}
	return true
}

// IsUsingFallback returns true if the store uses the file backend
// instead of the native OS keyring
func (s *Store) IsUsingFallback() bool {
	return s.usingFallback
}

// Save stores a backend password. Empty passwords are not persisted.
// The key is "host:port:database:user" for uniqueness.
func (s *Store) Save(host string, port int, database, user, password string) error {
	if password == "" {
		return nil
	}

	key := makeKey(host, port, database, user)
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(password),
		Label:       fmt.Sprintf("estatecrm: %s@%s:%d/%s", user, host, port, database),
		Description: "CRM backend password for estatecrm",
	})
	if err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves a stored backend password
func (s *Store) Get(host string, port int, database, user string) (string, error) {
	key := makeKey(host, port, database, user)
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored backend password
func (s *Store) Delete(host string, port int, database, user string) error {
	key := makeKey(host, port, database, user)
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

// makeKey creates a unique key for password storage
func makeKey(host string, port int, database, user string) string {
	return fmt.Sprintf("%s:%d:%s:%s", host, port, database, user)
}
