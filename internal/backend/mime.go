package backend

import (
	"log/slog"
	"mime"
	"path/filepath"
)

func init() {
	ensureMimeType(".heic", "image/heic")
	ensureMimeType(".webp", "image/webp")
	ensureMimeType(".pdf", "application/pdf")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		slog.Default().Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
	}
}

// contentTypeFor guesses a part content type from the file name when the caller sent
// none.
func contentTypeFor(name, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if typ := mime.TypeByExtension(filepath.Ext(name)); typ != "" {
		return typ
	}
	return "application/octet-stream"
}
