// Package blob сохраняет загруженные изображения товаров на диске
// и возвращает имя файла как непрозрачный идентификатор.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore хранит изображения в каталоге на локальном диске.
type FileStore struct {
	dir string
}

// NewFileStore создаёт хранилище, при необходимости создавая каталог.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save записывает содержимое изображения в файл со сгенерированным именем
// и возвращает это имя. Содержимое файла не проверяется.
func (s *FileStore) Save(src io.Reader) (string, error) {
	name := fmt.Sprintf("image-%s.png", uuid.NewString())

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return name, nil
}
