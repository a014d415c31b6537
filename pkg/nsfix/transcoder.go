package nsfix

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/flate"

	nsxml "github.com/benjaminschreck/go-nsfix/pkg/nsfix/xml"
)

// Transcoder copies a container entry by entry, replacing every XML entry
// with its canonical serialization.
// Use NewTranscoder() to create an instance.
type Transcoder struct {
	config *Config
	logger *Logger
	canon  canonicalizer
}

// NewTranscoder creates a transcoder. It fails with ErrXMLUnavailable if the
// canonical XML serializer does not pass its self-check.
func NewTranscoder(config *Config) (*Transcoder, error) {
	cfg := NewConfigWithDefaults(config)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := nsxml.Probe(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXMLUnavailable, err)
	}

	return &Transcoder{
		config: cfg,
		logger: cfg.logger(),
		canon:  nsxml.Canonicalize,
	}, nil
}

// Transcode reads the container at src and writes the normalized container
// to dst, creating or truncating it. The source is opened and validated
// before dst is touched.
func (t *Transcoder) Transcode(src, dst string) (stats *Stats, err error) {
	in, err := OpenContainer(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, NewContainerError("create", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			stats, err = nil, NewContainerError("close", dst, cerr)
		}
	}()

	return t.transcode(in, out, dst)
}

// TranscodeArchive is Transcode over in-memory or already opened archives
func (t *Transcoder) TranscodeArchive(r io.ReaderAt, size int64, w io.Writer) (*Stats, error) {
	in, err := NewContainerReader(r, size)
	if err != nil {
		return nil, err
	}
	return t.transcode(in, w, "")
}

func (t *Transcoder) transcode(in *ContainerReader, w io.Writer, dst string) (*Stats, error) {
	zw := zip.NewWriter(w)
	level := t.config.CompressionLevel
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	finalized := false
	defer func() {
		if !finalized {
			_ = zw.Close()
		}
	}()

	if comment := in.Comment(); comment != "" {
		if err := zw.SetComment(comment); err != nil {
			return nil, NewContainerError("write comment", dst, err)
		}
	}

	stats := &Stats{}
	for _, file := range in.Entries() {
		data, err := in.ReadEntry(file)
		if err != nil {
			return nil, NewContainerError("read", file.Name, err)
		}

		result := transformEntry(file.Name, data, t.canon)
		stats.Add(result)
		t.logEntry(data, result)

		if err := t.writeEntry(zw, file, result.Payload); err != nil {
			return nil, NewContainerError("write", file.Name, err)
		}
	}

	finalized = true
	if err := zw.Close(); err != nil {
		return nil, NewContainerError("finalize", dst, err)
	}

	t.logger.Info("transcoded %s", stats)
	return stats, nil
}

// writeEntry stores payload under the source entry's name and metadata
func (t *Transcoder) writeEntry(zw *zip.Writer, file *zip.File, payload []byte) error {
	header := &zip.FileHeader{
		Name:           file.Name,
		Comment:        file.Comment,
		Modified:       file.Modified,
		CreatorVersion: file.CreatorVersion,
		ExternalAttrs:  file.ExternalAttrs,
		Method:         zip.Deflate,
	}
	if file.Method == zip.Store && !t.config.DeflateStored {
		header.Method = zip.Store
	}

	fw, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err = fw.Write(payload)
	return err
}

func (t *Transcoder) logEntry(original []byte, result EntryResult) {
	if result.Kind == KeptOriginal {
		t.logger.WithField("part", result.Name).Warn("keeping part unchanged: %v", result.Reason)
	}
	if !t.logger.IsDebugMode() {
		return
	}
	t.logger.WithFields(Fields{
		"part":    result.Name,
		"kind":    result.Kind.String(),
		"changed": result.Changed,
		"in":      digest(original),
		"out":     digest(result.Payload),
	}).Debug("processed %d bytes", len(original))
}

func digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Transcode normalizes the container at src into dst with the default configuration
func Transcode(src, dst string) (*Stats, error) {
	t, err := NewTranscoder(nil)
	if err != nil {
		return nil, err
	}
	return t.Transcode(src, dst)
}
