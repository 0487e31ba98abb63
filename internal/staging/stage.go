package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"diarist/internal/services"
)

// Reference is audio the remote service can fetch. It is immutable once
// created.
type Reference struct {
	// URL is what the service transcribes.
	URL string
	// Source is the caller's original input: a path or the same URL.
	Source string
	// Uploaded reports whether a local file was uploaded to obtain URL.
	Uploaded bool
}

// Uploader sends raw audio to the service and returns a fetchable URL.
type Uploader interface {
	Upload(ctx context.Context, body io.ReadSeeker) (string, error)
}

// IsRemote reports whether input is an http or https URL.
func IsRemote(input string) bool {
	parsed, err := url.Parse(strings.TrimSpace(input))
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Stage resolves input into a Reference, uploading local files.
func Stage(ctx context.Context, uploader Uploader, input string) (Reference, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reference{}, services.Wrap(services.ErrValidation, "staging", "resolve input", "No audio file or URL given", nil)
	}
	if IsRemote(input) {
		return Reference{URL: input, Source: input}, nil
	}

	file, err := os.Open(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Reference{}, services.Wrap(services.ErrValidation, "staging", "open audio", fmt.Sprintf("Audio file %s does not exist", input), err)
		}
		return Reference{}, services.Wrap(services.ErrValidation, "staging", "open audio", "Audio file is unreadable", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Reference{}, services.Wrap(services.ErrValidation, "staging", "stat audio", "Audio file is unreadable", err)
	}
	if info.IsDir() {
		return Reference{}, services.Wrap(services.ErrValidation, "staging", "open audio", fmt.Sprintf("%s is a directory", input), nil)
	}
	if info.Size() == 0 {
		return Reference{}, services.Wrap(services.ErrValidation, "staging", "open audio", fmt.Sprintf("Audio file %s is empty", input), nil)
	}

	uploadURL, err := uploader.Upload(ctx, file)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reference{}, ctxErr
		}
		return Reference{}, services.Wrap(services.ErrSubmission, "staging", "upload audio", "Upload to the transcription service failed", err)
	}
	return Reference{URL: uploadURL, Source: input, Uploaded: true}, nil
}
