//go:build !windows

package lookpath

import (
	"io/fs"
	"os"
	"path/filepath"
)

func isExecutablePath(dir, base string) (string, bool) {
	file, err := filepath.Abs(filepath.Join(dir, base))
	if err != nil {
		return "", false
	}
	info, err := os.Stat(file)
	if err != nil {
		return "", false
	}
	if !isExecutable(info) {
		return "", false
	}
	return file, true
}

func isExecutable(info fs.FileInfo) bool {
	return !info.IsDir() && info.Mode()&0111 != 0
}

// PathEnvVar is the system-specific environment variable name for command
// search paths (PATH on UNIX).
const PathEnvVar = "PATH"

// PathFromVars returns the system-specific search path from the given
// environment map.
func PathFromVars(vars map[string]string) string {
	return vars[PathEnvVar]
}

// ExecutableBasename returns the system-specific basename for executable
// files. On UNIX the name is unchanged.
func ExecutableBasename(name string) string {
	return name
}

func translateEnv(env map[string]string) map[string]string {
	return env
}
