// Package capture records microphone audio to a WAV file with ffmpeg.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"diarist/internal/config"
	"diarist/internal/logging"
)

const (
	stopGrace     = 5 * time.Second
	stderrTailMax = 2048
)

// Recorder runs ffmpeg against a capture device.
type Recorder struct {
	FFmpegBinary string
	InputFormat  string
	Device       string
	SampleRate   int
	Channels     int

	logger *slog.Logger
}

// NewRecorder builds a recorder from the capture section of cfg.
func NewRecorder(cfg *config.Config, logger *slog.Logger) *Recorder {
	r := &Recorder{logger: logging.NewComponentLogger(logger, "capture")}
	if cfg != nil {
		r.FFmpegBinary = cfg.Capture.FFmpegBinary
		r.InputFormat = cfg.Capture.InputFormat
		r.Device = cfg.Capture.Device
		r.SampleRate = cfg.Capture.SampleRate
		r.Channels = cfg.Capture.Channels
	}
	return r
}

// Args returns the ffmpeg arguments that record into dest.
func (r *Recorder) Args(dest string) []string {
	rate := r.SampleRate
	if rate <= 0 {
		rate = 16000
	}
	channels := r.Channels
	if channels <= 0 {
		channels = 1
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-f", r.InputFormat,
		"-i", r.Device,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(rate),
		"-c:a", "pcm_s16le",
		"-y",
		dest,
	}
}

// Record captures audio into dest until stop is closed or ffmpeg exits on its
// own. Stopping sends "q" to ffmpeg so the WAV header is finalized. A
// cancelled ctx kills ffmpeg and removes the partial file.
func (r *Recorder) Record(ctx context.Context, dest string, stop <-chan struct{}) error {
	binary := strings.TrimSpace(r.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(r.InputFormat) == "" || strings.TrimSpace(r.Device) == "" {
		return errors.New("capture input format and device are required")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create recording directory: %w", err)
	}
	if r.logger == nil {
		r.logger = logging.NewComponentLogger(nil, "capture")
	}

	cmd := exec.CommandContext(ctx, binary, r.Args(dest)...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stderr := &tailBuffer{limit: stderrTailMax}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	r.logger.Info("recording started",
		logging.String("path", dest),
		logging.String("device", r.Device),
		logging.String("input_format", r.InputFormat),
	)
	started := time.Now()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-stop:
		waitErr = r.finish(stdin, cmd, done)
	case <-ctx.Done():
		<-done
		_ = os.Remove(dest)
		return ctx.Err()
	}
	_ = stdin.Close()

	if waitErr != nil {
		return fmt.Errorf("ffmpeg record: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("recording missing after ffmpeg exit: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("recording %s is empty", dest)
	}
	r.logger.Info("recording finished",
		logging.String("path", dest),
		logging.Int("bytes", int(info.Size())),
		logging.Duration("duration", time.Since(started)),
	)
	return nil
}

func (r *Recorder) finish(stdin io.WriteCloser, cmd *exec.Cmd, done <-chan error) error {
	if _, err := io.WriteString(stdin, "q\n"); err != nil {
		r.logger.Debug("ffmpeg stdin closed before stop", logging.Error(err))
	}
	_ = stdin.Close()

	timer := time.NewTimer(stopGrace)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		logging.WarnWithContext(r.logger, "ffmpeg ignored stop request; killing", "capture_kill",
			logging.Duration("grace", stopGrace),
			logging.String(logging.FieldErrorHint, "check that the capture device is not blocked"),
			logging.String(logging.FieldImpact, "recording tail may be truncated"),
		)
		_ = cmd.Process.Kill()
		return <-done
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
