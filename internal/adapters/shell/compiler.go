// Package shell provides the compiler adapter that runs an external command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// FileIDEnv names the variable that carries the id of the module being compiled.
const FileIDEnv = "DEPCACHE_FILE_ID"

// Compiler implements ports.Compiler. The module source is written to the
// command's stdin and its stdout becomes the artifact code. Every stderr line
// is logged as a warning.
type Compiler struct {
	logger  ports.Logger
	command []string
	env     map[string]string
	dir     string
}

// NewCompiler creates a Compiler for the configured command.
func NewCompiler(logger ports.Logger, cfg domain.CompilerConfig) *Compiler {
	return &Compiler{
		logger:  logger,
		command: cfg.Command,
		env:     cfg.Environment,
		dir:     cfg.WorkingDir,
	}
}

// Compile runs the command for one module.
func (c *Compiler) Compile(ctx context.Context, fileID, code string) (domain.Artifact, error) {
	if len(c.command) == 0 {
		return domain.Artifact{}, domain.ErrNoCompiler
	}

	name := c.command[0]
	env := resolveEnvironment(os.Environ(), c.env, fileID)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.command[1:]...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = c.dir
	cmd.Env = env
	cmd.Stdin = strings.NewReader(code)

	var stdout bytes.Buffer
	stderr := &logWriter{logger: c.logger}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	stderr.flush()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "exit_code", exitCode)
		err = zerr.With(err, "file_id", fileID)
		if last := stderr.lastLine(); last != "" {
			err = zerr.With(err, "stderr", last)
		}
		return domain.Artifact{}, err
	}

	return domain.Artifact{Code: stdout.String()}, nil
}

// logWriter forwards complete stderr lines to the logger.
type logWriter struct {
	logger ports.Logger

	mu   sync.Mutex
	buf  []byte
	last string
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	w.last = line
	w.logger.Warn(line)
}

func (w *logWriter) lastLine() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// allowListedEnvVars are the system environment variables inherited by the
// compiler. Anything else could change the output without changing a fingerprint.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
}

// resolveEnvironment merges the allow-listed system variables, the configured
// overrides and the module id, in increasing priority.
func resolveEnvironment(sysEnv []string, overrides map[string]string, fileID string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}
	envMap[FileIDEnv] = fileID

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
