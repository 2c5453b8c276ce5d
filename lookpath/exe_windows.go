//go:build windows

package lookpath

import (
	"os"
	"path/filepath"
	"strings"
)

func isExecutablePath(dir, base string) (string, bool) {
	if strings.HasSuffix(base, ".exe") {
		file, err := filepath.Abs(filepath.Join(dir, base))
		return file, err == nil
	}
	file, err := filepath.Abs(filepath.Join(dir, base+".exe"))
	if err != nil {
		return "", false
	}
	info, err := os.Stat(file)
	return file, err == nil && !info.Mode().IsDir()
}

// PathEnvVar is the system-specific environment variable name for command
// search paths (Path on Windows).
const PathEnvVar = "Path"

// PathFromVars returns the system-specific search path from the given
// environment map, falling back to PATH if Path is unset.
func PathFromVars(vars map[string]string) string {
	if p, ok := vars[PathEnvVar]; ok {
		return p
	}
	return vars["PATH"]
}

// ExecutableBasename returns the system-specific basename for executable
// files. On Windows the ".exe" suffix is removed.
func ExecutableBasename(name string) string {
	return strings.TrimSuffix(name, ".exe")
}

func translateEnv(env map[string]string) map[string]string {
	if _, ok := env[PathEnvVar]; !ok {
		if p, ok := env["PATH"]; ok {
			out := make(map[string]string, len(env)+1)
			for k, v := range env {
				out[k] = v
			}
			out[PathEnvVar] = p
			return out
		}
	}
	return env
}
