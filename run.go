package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

const (
	INFILE  = "calculation.inp"
	OUTFILE = "calculation.out"
	// number of output lines kept in the message of a failed run
	TAIL = 20
)

// Runner runs ORCA on a single input file in a private temporary
// directory
type Runner struct {
	// Command is the name or path of the ORCA executable
	Command string
	// TempDir is the parent of the per-run directories. If empty,
	// os.TempDir is used.
	TempDir string
	// Timeout, if positive, replaces the default time limit used
	// by Calculate
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewRunner(command string) *Runner {
	return &Runner{Command: command}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

// Run writes input to a fresh directory and runs ORCA on it there,
// returning the combined stdout and stderr of the program. If the
// program is still running after timeout, it and all of its children
// are killed. The directory is removed before Run returns, whatever
// the outcome. A timeout that is not positive means TIMEOUT. Every
// error returned is a *Failure.
func (r *Runner) Run(ctx context.Context, input string, timeout time.Duration) (raw string, err error) {
	if timeout <= 0 {
		timeout = TIMEOUT
	}
	log := r.logger()
	defer func() {
		if p := recover(); p != nil {
			raw, err = "", Fail(InternalError, "panic: %v", p)
		}
	}()
	path, err := r.lookPath()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(r.TempDir, "orca-"+uuid.NewString()+"-")
	if err != nil {
		return "", Fail(InternalError, "creating workspace: %v", err)
	}
	log = log.With("dir", dir)
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Error("failed to remove workspace", "error", err)
			return
		}
		log.Debug("removed workspace")
	}()

	err = os.WriteFile(filepath.Join(dir, INFILE), []byte(input), 0644)
	if err != nil {
		return "", Fail(InternalError, "writing input: %v", err)
	}

	// a file rather than a pipe, so Wait returns as soon as the
	// program exits even if its children still hold the output open
	outpath := filepath.Join(dir, OUTFILE)
	out, err := os.Create(outpath)
	if err != nil {
		return "", Fail(InternalError, "creating output: %v", err)
	}
	defer out.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, path, INFILE)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	// own process group so the whole tree can be signalled at once
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killGroup(cmd.Process.Pid)
	}

	log.Info("starting ORCA", "command", path, "timeout", timeout)
	start := time.Now()
	err = cmd.Run()
	if cmd.Process != nil {
		// reap anything the program left running in the background
		// before the workspace is removed
		killGroup(cmd.Process.Pid)
	}
	log.Info("ORCA finished", "elapsed", time.Since(start), "error", err)
	byts, rerr := os.ReadFile(outpath)
	if rerr != nil && err == nil {
		return "", Fail(InternalError, "reading output: %v", rerr)
	}
	return classify(ctx, err, string(byts), timeout)
}

// Check reports the absolute path of the ORCA executable, or a
// ToolMissing Failure if it cannot be found
func (r *Runner) Check() (string, error) {
	return r.lookPath()
}

func (r *Runner) lookPath() (string, error) {
	path, err := exec.LookPath(r.Command)
	if err != nil {
		return "", Fail(ToolMissing, "%s: %v", r.Command, err)
	}
	// the program runs in the workspace, so a relative path would
	// no longer resolve
	path, err = filepath.Abs(path)
	if err != nil {
		return "", Fail(InternalError, "resolving %s: %v", r.Command, err)
	}
	return path, nil
}

// classify converts the result of running the program into the output
// to return and a *Failure describing any error
func classify(ctx context.Context, err error, out string, timeout time.Duration) (string, error) {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", Fail(Timeout, "calculation timed out after %v",
			timeout).withRaw(out)
	case errors.Is(ctx.Err(), context.Canceled):
		return "", Fail(InternalError, "calculation cancelled").
			withRaw(out)
	case errors.As(err, &exitErr):
		return "", Fail(ExecutionError, "exit status %d\n%s",
			exitErr.ExitCode(), tail(out, TAIL)).withRaw(out)
	case errors.Is(err, exec.ErrNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, unix.ENOEXEC):
		return "", Fail(ToolMissing, "%v", err)
	default:
		return "", Fail(InternalError, "%v", err).withRaw(out)
	}
}

// killGroup sends SIGKILL to every process in the group led by pid
func killGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}
	if err != nil {
		return fmt.Errorf("killing process group %d: %w", pid, err)
	}
	return nil
}

// tail returns the last n lines of s
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
