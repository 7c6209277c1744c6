package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

// MinVersion is the oldest engine release whose CLI matches the binding's
// grammar.
const MinVersion = "v0.6.0"

// Version runs "xvc --version" and returns the canonical semantic version,
// e.g. "v0.6.17".
func (b *Binary) Version(ctx context.Context) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, b.path, "--version")
	c.Stdout = &stdout
	c.Stderr = &stderr
	if len(b.env) > 0 {
		c.Env = append(c.Environ(), b.env...)
	}
	if err := c.Run(); err != nil {
		if _, lookErr := exec.LookPath(b.path); lookErr != nil {
			return "", fmt.Errorf("%w: %s", ErrEngineNotAvailable, b.path)
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return ParseVersion(stdout.String())
}

// ParseVersion extracts the version from "xvc 0.6.17"-style output.
func ParseVersion(s string) (string, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty version output")
	}
	v := fields[len(fields)-1]
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("unrecognized version %q", strings.TrimSpace(s))
	}
	return semver.Canonical(v), nil
}

// CheckVersion verifies the installed engine is at least minimum. An empty
// minimum means MinVersion.
func (b *Binary) CheckVersion(ctx context.Context, minimum string) (string, error) {
	if minimum == "" {
		minimum = MinVersion
	}
	v, err := b.Version(ctx)
	if err != nil {
		return "", err
	}
	if semver.Compare(v, minimum) < 0 {
		return v, fmt.Errorf("%w: found %s, need %s or newer", ErrIncompatibleVersion, v, minimum)
	}
	return v, nil
}
