package attachment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxAttempts is the number of candidate file names StorageSink.Save tries
// before giving up with ErrNoUniqueName.
const MaxAttempts = 10

// DirMode is the permission used when the StorageSink creates its directory.
const DirMode os.FileMode = 0o770

// FileMode is the permission used for saved attachment files.
const FileMode os.FileMode = 0o660

// StorageSink saves attachments as files in a directory. Each file gets a new
// name of the form attachment_<uuid>.<ext>, where ext comes from the name of
// the attachment. Files are created exclusively and locked while they are
// written, so several decoders may share one directory.
type StorageSink struct {
	dir       string
	logger    *slog.Logger
	candidate func() string
}

// NewStorageSink returns a sink writing to the given directory, creating it if
// it does not exist yet.
func NewStorageSink(dir string, logger *slog.Logger) (*StorageSink, error) {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return nil, fmt.Errorf("unable to create attachment directory %q: %w", dir, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &StorageSink{
		dir:    dir,
		logger: logger,
		candidate: func() string {
			return "attachment_" + uuid.NewString()
		},
	}, nil
}

// Dir returns the directory the sink writes to.
func (s *StorageSink) Dir() string {
	return s.dir
}

// safeExtension drops any extension that could walk out of the directory.
func safeExtension(name string) string {
	ext := Extension(name)
	if strings.ContainsAny(ext, "/\\\x00") {
		return ""
	}
	return ext
}

// Save writes the content into a new file and returns the description of it.
// It returns ErrNoUniqueName if MaxAttempts candidate names were all taken or
// could not be locked, and ErrWrite if the content could not be written.
func (s *StorageSink) Save(name, mimeType string, content []byte) (*Attachment, error) {
	ext := safeExtension(name)

	for i := 0; i < MaxAttempts; i++ {
		fn := s.candidate()
		if ext != "" {
			fn += "." + ext
		}
		path := filepath.Join(s.dir, fn)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode)
		if err != nil {
			s.logger.Debug("attachment file name unavailable",
				"path", path,
				"attempt", i+1,
				"error", err)
			continue
		}

		if err := lockFile(f); err != nil {
			s.logger.Debug("attachment file could not be locked",
				"path", path,
				"attempt", i+1,
				"error", err)
			_ = f.Close()
			_ = os.Remove(path)
			continue
		}

		_, werr := f.Write(content)
		cerr := f.Close() // also releases the lock
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("%w %q: %w", ErrWrite, path, werr)
		}

		size := int64(len(content))
		return &Attachment{
			Name:      strings.ToValidUTF8(name, "\uFFFD"),
			MimeType:  mimeType,
			Size:      size,
			HumanSize: FormatBytes(size),
			Path:      path,
		}, nil
	}

	return nil, fmt.Errorf("%w after %d attempts in %q", ErrNoUniqueName, MaxAttempts, s.dir)
}
