// Package lookpath implements executable resolution against a
// caller-supplied environment, used by the pipeline package to turn a
// Job's argv[0] into the absolute path exec(2) needs. Adapted from
// vanadium-go.lib/lookpath, trimmed to the single entry point the
// pipeline's command-resolution concern actually calls (LookPrefix, used
// there for tab-completion-style directory scans, has no caller here).
package lookpath

import (
	"os/exec"
	"path/filepath"
	"strings"
)

func splitPath(env map[string]string) []string {
	var dirs []string
	for _, dir := range strings.Split(PathFromVars(env), string(filepath.ListSeparator)) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Look returns the absolute path of the executable with the given name.
// If name only contains a single path component, the directories in
// env["PATH"] (env["Path"] on Windows) are consulted and the first match
// is returned. Otherwise, for multi-component names, the absolute path of
// name is looked up directly.
//
// This mirrors os/exec.LookPath, but takes the environment explicitly so
// that a Job's own Env (rather than the shell process's environment) can
// govern command resolution.
func Look(env map[string]string, name string) (string, error) {
	env = translateEnv(env)
	var dirs []string
	base := filepath.Base(name)
	if base == name {
		dirs = splitPath(env)
	} else {
		dirs = []string{filepath.Dir(name)}
	}
	for _, dir := range dirs {
		if file, ok := isExecutablePath(dir, base); ok {
			return ExecutableBasename(file), nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}
