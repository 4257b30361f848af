// Package filex opens local files for media upload.
package filex

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// MaxUploadSize caps the size of a single media file.
const MaxUploadSize = 50 << 20

// Upload is an opened local file ready to be streamed.
type Upload struct {
	File        *os.File
	Name        string
	Size        int64
	ContentType string
}

func (u *Upload) Close() error {
	return u.File.Close()
}

// OpenUpload opens path and detects its content type, first from the file
// extension and then by sniffing the first 512 bytes.
func OpenUpload(path string) (*Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() > MaxUploadSize {
		f.Close()
		return nil, fmt.Errorf("%s is larger than %d bytes", path, MaxUploadSize)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		ct = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, fmt.Errorf("seek %s: %w", path, err)
		}
	}

	return &Upload{File: f, Name: filepath.Base(path), Size: st.Size(), ContentType: ct}, nil
}
