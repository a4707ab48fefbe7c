package combine

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binarySniffLen is how many leading bytes are checked for NUL markers.
const binarySniffLen = 512

// binaryExtensions lists extensions whose content is never treated as text,
// regardless of what the bytes look like. Compiled artifacts, archives,
// media, and database files all land here.
var binaryExtensions = map[string]struct{}{
	".pyc": {}, ".pyo": {}, ".o": {}, ".a": {}, ".so": {}, ".dll": {}, ".exe": {},
	".ds_store": {},
	".class":    {}, ".jar": {}, ".war": {}, ".ear": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".7z": {}, ".rar": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".tiff": {}, ".ico": {},
	".mp3": {}, ".wav": {}, ".flac": {}, ".ogg": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".mkv": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {}, ".dat": {},
}

// isBinary reports whether a file's content should be treated as non-text.
// The extension check catches known formats cheaply; the NUL sniff catches
// unknown binary formats; the UTF-8 check catches everything else that
// would not survive as readable document content.
func isBinary(path string, content []byte) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := binaryExtensions[ext]; ok {
		return true
	}

	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}

	return !utf8.Valid(content)
}
