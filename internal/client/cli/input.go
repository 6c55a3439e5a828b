package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSecret prompts on w and reads a value from the terminal without echo.
// The returned byte slice should be wiped by the caller when no longer needed.
func GetSecret(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "Enter %s: ", label); err != nil {
		return nil, err
	}
	v, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// collectCredentials turns --cred arguments into a credential map. "key=value"
// is taken as given; a bare "key" is prompted for without echo.
func collectCredentials(w io.Writer, args []string) (map[string]string, error) {
	creds := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, inline := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty credential name", common.ErrInvalidInput)
		}
		if !inline {
			secret, err := GetSecret(w, key)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", key, err)
			}
			value = string(secret)
			common.WipeByteArray(secret)
		}
		creds[key] = value
	}
	return creds, nil
}
