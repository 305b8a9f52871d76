package shell

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestVerifyCmdWithFullPath(t *testing.T) {
	got, err := verifyCmdWithFullPath("echo hello")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != "/usr/bin/echo hello" {
		t.Errorf("got %q", got)
	}
}

func TestVerifyCmdWithFullPathRejectsUnknown(t *testing.T) {
	if _, err := verifyCmdWithFullPath("curl https://example.org"); err == nil {
		t.Fatal("expected error for command outside the allow list")
	}
}

func TestVerifyCmdWithFullPathSeparators(t *testing.T) {
	got, err := verifyCmdWithFullPath("echo one && echo two")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != "/usr/bin/echo one && /usr/bin/echo two" {
		t.Errorf("got %q", got)
	}

	if _, err := verifyCmdWithFullPath("echo one; curl https://example.org"); err == nil {
		t.Fatal("separator must not bypass the allow list")
	}
}

func TestExecCmd(t *testing.T) {
	out, err := ExecCmd("echo hello", nil)
	if err != nil {
		t.Fatalf("ExecCmd failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q", out)
	}
}

func TestExecCmdWithTimeout(t *testing.T) {
	out, err := ExecCmdWithTimeout("echo hello", nil, 5*time.Second)
	if err != nil {
		t.Fatalf("ExecCmdWithTimeout failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q", out)
	}
}

func TestExecCmdWithTimeoutExpires(t *testing.T) {
	_, err := ExecCmdWithTimeout("sh -c 'sleep 5'", nil, 100*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}
