package updater

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// VerifyChecksum compares the SHA-256 of path with the expected hex digest.
func VerifyChecksum(path, expected string) error {
	actual, err := CalculateChecksum(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expected, actual)
	}
	return nil
}

// CalculateChecksum returns the hex SHA-256 digest of path.
func CalculateChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ParseChecksumFile reads a sha256sum style listing into filename -> digest.
// Lines that do not start with a 64 character digest are skipped.
func ParseChecksumFile(content string) (map[string]string, error) {
	sums := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || len(fields[0]) != sha256.Size*2 {
			continue
		}
		// "*" marks binary mode in sha256sum output.
		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		sums[name] = strings.ToLower(fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read checksums: %w", err)
	}
	if len(sums) == 0 {
		return nil, errors.New("no checksums found")
	}
	return sums, nil
}
