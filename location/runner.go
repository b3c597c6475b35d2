package location

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Runner runs the configured translation command.
type Runner interface {
	// Run executes command in dir with arg appended.
	Run(ctx context.Context, dir, command, arg string) error
}

// ShellRunner runs commands through the platform shell: bash -c on
// Unix-like systems, PowerShell -Command on Windows.
type ShellRunner struct {
	// Timeout bounds a single run. Zero means one minute.
	Timeout time.Duration
}

// Run implements Runner. Output is captured and returned with the error
// when the command fails.
func (r ShellRunner) Run(ctx context.Context, dir, command, arg string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("translation command is empty")
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	line := command + " " + shellQuote(arg)
	name, args := shell(line)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.WaitDelay = time.Second
	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &out

	log().Info("running translation command", "dir", dir, "command", line)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("translation command %q: %w", command, ctx.Err())
		}
		return fmt.Errorf("translation command %q failed: %w\n%s", command, err, strings.TrimSpace(out.String()))
	}
	log().Debug("translation command finished", "output", strings.TrimSpace(out.String()))
	return nil
}

func shell(line string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "powershell.exe", []string{"-NoProfile", "-Command", line}
	}
	return "bash", []string{"-c", line}
}

func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
