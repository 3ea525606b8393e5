package optimize

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"cssopt/config"
)

const stylesheetExt = ".css"

// isArchiveFile looks at file signature, extension does not matter.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype needs at most 262 bytes to recognize any supported type
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

func isStylesheetFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), stylesheetExt)
}

// outputPath maps relative source name to destination file. Known
// stylesheet extensions are replaced by the one of requested format. Every
// path element is sanitized so archive entries cannot escape destination.
func outputPath(src, dst, ext string) string {
	var elems []string
	for elem := range strings.SplitSeq(filepath.ToSlash(src), "/") {
		switch elem {
		case "", ".":
			continue
		case "..":
			elem = ""
		}
		elems = append(elems, config.CleanFileName(elem))
	}
	if len(elems) == 0 {
		elems = append(elems, config.CleanFileName(""))
	}

	name := elems[len(elems)-1]
	lower := strings.ToLower(name)
	for _, known := range []string{".min.css", stylesheetExt} {
		if strings.HasSuffix(lower, known) {
			name = name[:len(name)-len(known)]
			break
		}
	}
	elems[len(elems)-1] = name + ext
	return filepath.Join(append([]string{dst}, elems...)...)
}
