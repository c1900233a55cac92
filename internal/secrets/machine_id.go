package secrets

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const passwordSalt = "estatecrm-keyring-salt-v1"

// deriveFilePassword generates a machine-specific password for the file
// backend. It is stable across restarts but different on each machine.
func deriveFilePassword() (string, error) {
	machineID, err := getMachineID()
	if err != nil {
		machineID, _ = os.Hostname()
	}

	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows
	}
	if username == "" {
		// containers/service accounts without USER env
		username = fmt.Sprintf("uid-%d", os.Getuid())
	}

	data := machineID + username + passwordSalt
	hash := sha256.Sum256([]byte(data))

	return base64.StdEncoding.EncodeToString(hash[:]), nil
}

// getMachineID returns a unique identifier for the current machine.
func getMachineID() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return getLinuxMachineID()
	case "darwin":
		return getDarwinMachineID()
	case "windows":
		return getWindowsMachineID()
	default:
		return os.Hostname()
	}
}

// getLinuxMachineID reads /etc/machine-id or /var/lib/dbus/machine-id
func getLinuxMachineID() (string, error) {
	paths := []string{
		"/etc/machine-id",
		"/var/lib/dbus/machine-id",
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}

	return os.Hostname()
}

// getDarwinMachineID gets the hardware UUID on macOS
func getDarwinMachineID() (string, error) {
	cmd := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice")
	output, err := cmd.Output()
	if err != nil {
		return os.Hostname()
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, "IOPlatformUUID") {
			parts := strings.Split(line, "=")
			if len(parts) == 2 {
				uuid := strings.TrimSpace(parts[1])
				return strings.Trim(uuid, "\""), nil
			}
		}
	}

	return os.Hostname()
}

// getWindowsMachineID gets the machine GUID on Windows
func getWindowsMachineID() (string, error) {
	cmd := exec.Command("wmic", "csproduct", "get", "UUID")
	output, err := cmd.Output()
	if err != nil {
		return os.Hostname()
	}

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && line != "UUID" {
			return line, nil
		}
	}

	return os.Hostname()
}
