package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"
)

// LoadCookies reads a cookie file written by SaveCookies. A missing file
// yields no cookies.
func LoadCookies(path string) ([]*proto.NetworkCookie, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read cookies: %w", err)
	}

	var cookies []*proto.NetworkCookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		return nil, fmt.Errorf("could not decode cookies: %w", err)
	}

	return cookies, nil
}

// SaveCookies writes cookies to path, readable by the owner only.
func SaveCookies(path string, cookies []*proto.NetworkCookie) error {
	if cookies == nil {
		cookies = []*proto.NetworkCookie{}
	}

	raw, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create cookie directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("could not write cookies: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("could not replace cookie file: %w", err)
	}

	return nil
}
