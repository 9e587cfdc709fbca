package linkextract

import (
	"net/url"
	"path"
	"strings"
)

// Video MIME types reported by VideoType.
const (
	MIMEVideoMP4  = "video/mp4"
	MIMEVideoOgg  = "video/ogg"
	MIMEVideoWebM = "video/webm"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".png":  true,
	".gif":  true,
}

// imageFormats are values of the format query parameter some image hosts use
// instead of an extension.
var imageFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
}

var videoExtensions = map[string]string{
	".mp4":  MIMEVideoMP4,
	".mov":  MIMEVideoMP4,
	".ogg":  MIMEVideoOgg,
	".webm": MIMEVideoWebM,
}

// IsImage reports whether the URL points at an image file. Only the path extension
// and the format query parameter count; the host never does.
func IsImage(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if imageExtensions[pathExt(u)] {
		return true
	}

	return imageFormats[strings.ToLower(u.Query().Get("format"))]
}

// VideoType returns the MIME type of a URL whose path ends in a playable video
// extension.
func VideoType(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	mime, ok := videoExtensions[pathExt(u)]

	return mime, ok
}

func pathExt(u *url.URL) string {
	return strings.ToLower(path.Ext(u.Path))
}
