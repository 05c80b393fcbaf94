package archive

import (
	"path"
	"strings"
)

// formatCategories maps normalized category names to the file extensions
// they cover.
var formatCategories = map[string][]string{
	"FLAC":    {"flac"},
	"MP3":     {"mp3"},
	"WAV":     {"wav"},
	"OGG":     {"ogg", "oga"},
	"MP4":     {"mp4", "m4v"},
	"MKV":     {"mkv"},
	"AVI":     {"avi"},
	"PDF":     {"pdf"},
	"EPUB":    {"epub"},
	"TXT":     {"txt"},
	"JPG":     {"jpg", "jpeg"},
	"PNG":     {"png"},
	"GIF":     {"gif"},
	"ZIP":     {"zip"},
	"TORRENT": {"torrent"},
}

// mimeTypes maps file extensions to MIME types for uploads.
var mimeTypes = map[string]string{
	"flac":    "audio/flac",
	"mp3":     "audio/mpeg",
	"wav":     "audio/wav",
	"ogg":     "audio/ogg",
	"oga":     "audio/ogg",
	"mp4":     "video/mp4",
	"m4v":     "video/mp4",
	"mkv":     "video/x-matroska",
	"avi":     "video/x-msvideo",
	"pdf":     "application/pdf",
	"epub":    "application/epub+zip",
	"txt":     "text/plain",
	"jpg":     "image/jpeg",
	"jpeg":    "image/jpeg",
	"png":     "image/png",
	"gif":     "image/gif",
	"zip":     "application/zip",
	"torrent": "application/x-bittorrent",
}

// categoryByExt is built once from formatCategories for O(1) lookups.
var categoryByExt = func() map[string]string {
	m := make(map[string]string)
	for cat, exts := range formatCategories {
		for _, ext := range exts {
			m[ext] = cat
		}
	}
	return m
}()

// skipSuffixes lists generated sidecar files that are never worth mirroring.
var skipSuffixes = []string{"_meta.xml", "_files.xml", "_chocr.html", "_djvu.txt"}

// ext returns the lowercase extension of name without the dot.
func ext(name string) string {
	e := strings.ToLower(path.Ext(name))
	return strings.TrimPrefix(e, ".")
}

// categorize returns the format category for a file name, or "" when the
// extension belongs to no category.
func categorize(name string) string {
	return categoryByExt[ext(name)]
}

// mimeType returns the MIME type for a file name, or "" if unknown.
func mimeType(name string) string {
	return mimeTypes[ext(name)]
}

// isSidecar reports whether the file is a generated metadata sidecar.
func isSidecar(name string) bool {
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
