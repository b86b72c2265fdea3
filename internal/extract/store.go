package extract

import (
	"os"
	"path/filepath"
)

// Dir is an ImageStore writing into a directory. The directory must exist
// before the first save.
type Dir string

// Save writes an image file into the directory.
func (d Dir) Save(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(string(d), filename), data, 0644)
}
