package screenshot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCancelled signals that the user aborted the region selection. The caller
// treats it as an absent result, not a failure.
var ErrCancelled = errors.New("screenshot selection cancelled")

// Capturer captures a user-selected screen region and returns the path of the
// saved image. OS-level capture is an external concern behind this interface.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// CommandCapturer shells out to an external capture tool (flameshot, scrot,
// maim and friends). The configured command may reference {path} as the
// output file placeholder; without the placeholder the path is appended.
type CommandCapturer struct {
	command string
	dir     string
	log     *zap.SugaredLogger
}

func NewCommandCapturer(command, dir string, log *zap.SugaredLogger) *CommandCapturer {
	log.Infow("screenshot capturer initialized", "dir", dir)
	return &CommandCapturer{command: command, dir: dir, log: log}
}

func (c *CommandCapturer) Capture(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.command) == "" {
		return "", fmt.Errorf("no screenshot command configured")
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}
	path := filepath.Join(c.dir, "screenshot_"+uuid.NewString()+".png")

	cmdline := c.command
	if strings.Contains(cmdline, "{path}") {
		cmdline = strings.ReplaceAll(cmdline, "{path}", path)
	} else {
		cmdline = cmdline + " " + path
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)
	if err := cmd.Run(); err != nil {
		c.log.Warnw("screenshot command failed", "err", err)
		return "", fmt.Errorf("run screenshot command: %w", err)
	}

	// Capture tools exit zero on an aborted selection and simply write
	// nothing; treat a missing or empty file as a cancelled selection.
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		c.log.Infow("screenshot selection cancelled")
		return "", ErrCancelled
	}

	c.log.Infow("screenshot saved", "path", path)
	return path, nil
}

// DataURI reads an image file and encodes it as a base64 data URI suitable
// for inlining into a vision-model message.
func DataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
