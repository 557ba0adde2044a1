// Package keyring caches login passwords in the OS keyring, namespaced by
// the store they belong to.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "credstore"

func account(storeID, login string) string {
	return storeID + ":" + login
}

// SavePassword stores the password of login in the OS keyring
func SavePassword(storeID, login, password string) error {
	return keyring.Set(serviceName, account(storeID, login), password)
}

// GetPassword retrieves the password of login from the OS keyring
func GetPassword(storeID, login string) (string, error) {
	return keyring.Get(serviceName, account(storeID, login))
}

// DeletePassword removes the password of login from the OS keyring
func DeletePassword(storeID, login string) error {
	return keyring.Delete(serviceName, account(storeID, login))
}

// HasPassword checks if a password for login is stored in the keyring
func HasPassword(storeID, login string) bool {
	_, err := keyring.Get(serviceName, account(storeID, login))
	return err == nil
}
