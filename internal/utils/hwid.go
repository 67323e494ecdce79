package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/denisbrodbeck/machineid"
)

// HWID identifies this machine to the backend without exposing the raw machine id.
var HWID = hardwareID()

func hardwareID() string {
	if id, err := machineid.ProtectedID("filemanager"); err == nil {
		return id
	}

	// containers often have no machine id
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte("filemanager:" + host))
	return hex.EncodeToString(sum[:])
}
