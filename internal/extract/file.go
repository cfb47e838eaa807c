package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// resolveFile extracts text from an uploaded file. Only .txt and .pdf are
// accepted; anything else is rejected before inference is considered.
func (r *Resolver) resolveFile(filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".txt":
		return r.resolveTextFile(filename, file)
	case ".pdf":
		return r.resolvePDFFile(filename, file)
	default:
		return "", &InputError{
			Kind:    KindUnsupportedFormat,
			Message: fmt.Sprintf("unsupported file extension %q (only .txt and .pdf are accepted)", ext),
		}
	}
}

func (r *Resolver) resolveTextFile(filename string, file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("reading %s", filename),
			Err:     err,
		}
	}

	if !utf8.Valid(data) {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("%s is not valid UTF-8 text", filename),
		}
	}

	return string(data), nil
}

func (r *Resolver) resolvePDFFile(filename string, file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("reading %s", filename),
			Err:     err,
		}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("parsing %s", filename),
			Err:     err,
		}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("extracting text from %s", filename),
			Err:     err,
		}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &InputError{
			Kind:    KindUnreadableFile,
			Message: fmt.Sprintf("extracting text from %s", filename),
			Err:     err,
		}
	}

	return buf.String(), nil
}
