package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

// ErrTimeout is returned when a command exceeds its allotted run time.
var ErrTimeout = errors.New("command timed out")

// commandMap pins every external tool the mapper may run to a full path.
// Commands outside this list are rejected.
var commandMap = map[string]string{
	"bash":    "/usr/bin/bash",
	"sh":      "/bin/sh",
	"echo":    "/usr/bin/echo",
	"flatpak": "/usr/bin/flatpak",
	"gunzip":  "/usr/bin/gunzip",
	"gzip":    "/usr/bin/gzip",
	"nix":     "/run/current-system/sw/bin/nix",
	"nix-env": "/run/current-system/sw/bin/nix-env",
	"rpm":     "/usr/bin/rpm",
	// Add more mappings as needed
}

// GetOSEnvirons returns the system environment variables
func GetOSEnvirons() map[string]string {
	// Convert os.Environ() to a map
	environ := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			environ[parts[0]] = parts[1]
		}
	}
	return environ
}

// GetOSProxyEnvirons retrieves HTTP and HTTPS proxy environment variables
func GetOSProxyEnvirons() map[string]string {
	osEnv := GetOSEnvirons()
	proxyEnv := make(map[string]string)

	// Extract http_proxy and https_proxy variables
	for key, value := range osEnv {
		if strings.Contains(strings.ToLower(key), "http_proxy") ||
			strings.Contains(strings.ToLower(key), "https_proxy") {
			proxyEnv[key] = value
		}
	}

	return proxyEnv
}

// IsCommandExist checks if a command exists on the host
func IsCommandExist(cmd string) bool {
	output, _ := exec.Command("bash", "-c", "command -v "+cmd).Output()
	return len(bytes.TrimSpace(output)) != 0
}

func verifyCmdWithFullPath(cmd string) (string, error) {
	separators := []string{"&&", "||", ";"}

	sepIdx := -1
	sep := ""
	for _, s := range separators {
		if idx := strings.Index(cmd, s); idx != -1 && (sepIdx == -1 || idx < sepIdx) {
			sepIdx = idx
			sep = s
		}
	}
	if sepIdx != -1 {
		left := strings.TrimSpace(cmd[:sepIdx])
		right := strings.TrimSpace(cmd[sepIdx+len(sep):])
		leftCmdStr, err := verifyCmdWithFullPath(left)
		if err != nil {
			return "", fmt.Errorf("failed to verify command: %w", err)
		}
		rightCmdStr, err := verifyCmdWithFullPath(right)
		if err != nil {
			return "", fmt.Errorf("failed to verify command: %w", err)
		}
		return leftCmdStr + " " + sep + " " + rightCmdStr, nil
	}

	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return cmd, nil
	}
	bin := fields[0]
	fullPath, ok := commandMap[bin]
	if ok {
		fields[0] = fullPath
	} else {
		return "", fmt.Errorf("command %s not found in commandMap", bin)
	}
	return strings.Join(fields, " "), nil
}

// GetFullCmdStr prepares a command string with necessary prefixes
func GetFullCmdStr(cmdStr string, envVal []string) (string, error) {
	log := logger.Logger()
	envValStr := ""
	for _, env := range envVal {
		envValStr += env + " "
	}

	fullPathCmdStr, err := verifyCmdWithFullPath(cmdStr)
	if err != nil {
		return fullPathCmdStr, fmt.Errorf("failed to verify command with full path: %w", err)
	}

	fullCmdStr := envValStr + fullPathCmdStr
	log.Debugf("Exec: [" + fullPathCmdStr + "]")

	return fullCmdStr, nil
}

// ExecCmd executes a command and returns its output
func ExecCmd(cmdStr string, envVal []string) (string, error) {
	log := logger.Logger()
	fullCmdStr, err := GetFullCmdStr(cmdStr, envVal)
	if err != nil {
		return "", fmt.Errorf("failed to get full command string: %w", err)
	}

	cmd := exec.Command("bash", "-c", fullCmdStr)
	output, err := cmd.CombinedOutput()
	outputStr := string(output)

	if err != nil {
		if outputStr != "" {
			log.Infof(outputStr)
		}
		return outputStr, fmt.Errorf("failed to exec %s: %w", fullCmdStr, err)
	}
	if outputStr != "" {
		log.Debugf(outputStr)
	}
	return outputStr, nil
}

// ExecCmdWithTimeout executes a command with a bounded run time. Stdout is
// returned separately from stderr so callers can parse tool output; on expiry
// the command is killed and ErrTimeout is returned.
func ExecCmdWithTimeout(cmdStr string, envVal []string, timeout time.Duration) (string, error) {
	log := logger.Logger()
	fullCmdStr, err := GetFullCmdStr(cmdStr, envVal)
	if err != nil {
		return "", fmt.Errorf("failed to get full command string: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", "-c", fullCmdStr)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), fmt.Errorf("exec %s after %s: %w", fullCmdStr, timeout, ErrTimeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			log.Infof(stderr.String())
		}
		return stdout.String(), fmt.Errorf("failed to exec %s: %w", fullCmdStr, err)
	}
	if stderr.Len() > 0 {
		log.Debugf(stderr.String())
	}
	return stdout.String(), nil
}
