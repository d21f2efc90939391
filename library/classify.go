package library

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/reelcraft-cli/reelcraft/element"
)

// ErrUnsupportedType is returned for files that are not video, image or audio.
var ErrUnsupportedType = errors.New("unsupported media type")

var extensions = map[string]element.Kind{
	".mp4":  element.Video,
	".m4v":  element.Video,
	".mov":  element.Video,
	".webm": element.Video,
	".mkv":  element.Video,
	".avi":  element.Video,
	".png":  element.Image,
	".jpg":  element.Image,
	".jpeg": element.Image,
	".gif":  element.Image,
	".webp": element.Image,
	".bmp":  element.Image,
	".mp3":  element.Audio,
	".wav":  element.Audio,
	".ogg":  element.Audio,
	".oga":  element.Audio,
	".flac": element.Audio,
	".m4a":  element.Audio,
	".aac":  element.Audio,
}

// kindOfMIME maps a MIME type to an element kind.
func kindOfMIME(mimeType string) (element.Kind, bool) {
	media, _, _ := mime.ParseMediaType(mimeType)
	switch {
	case strings.HasPrefix(media, "video/"):
		return element.Video, true
	case strings.HasPrefix(media, "image/"):
		return element.Image, true
	case strings.HasPrefix(media, "audio/"), media == "application/ogg":
		return element.Audio, true
	default:
		return "", false
	}
}

// Classify decides the element kind of a file by extension, then by the
// registered MIME type, then by sniffing its first bytes.
func Classify(path string, head io.Reader) (element.Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := extensions[ext]; ok {
		return kind, nil
	}

	if kind, ok := kindOfMIME(mime.TypeByExtension(ext)); ok {
		return kind, nil
	}

	if head != nil {
		buf := make([]byte, 512)
		n, _ := io.ReadFull(head, buf)
		if kind, ok := kindOfMIME(http.DetectContentType(buf[:n])); ok {
			return kind, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Base(path))
}
