package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "countrydesk"

	// Version is reported by the root command
	Version = "0.3.0"

	// ServiceName is the system service identifier used by the service command
	ServiceName = "CountrydeskWeb"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the countrydesk data directory path, creating it on first use.
// Linux: ~/.config/countrydesk (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\countrydesk (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// Path joins name onto the application directory.
func Path(name string) (string, error) {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name), nil
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)

	if err := os.MkdirAll(appDir, 0o700); err != nil {
		errDir = fmt.Errorf("failed to create %s: %w", appDir, err)
	}
}
