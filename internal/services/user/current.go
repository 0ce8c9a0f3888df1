package user

import (
	"os"
	osuser "os/user"
)

// CurrentUsername returns the OS account name, used as the default name when
// registering users from the command line.
// It tries multiple methods with fallbacks:
// 1. user.Current() - most reliable, gets username from OS
// 2. USER environment variable - fallback for restricted environments
// 3. empty string - the caller must then ask for a name explicitly
func CurrentUsername() string {
	if current, err := osuser.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	return os.Getenv("USER")
}
