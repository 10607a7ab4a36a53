// Package upload сохраняет картинки товаров на локальный диск и отдаёт
// стабильный относительный путь, который хранится на товаре.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage struct {
	Dir string
}

func New(dir string) *Storage {
	return &Storage{Dir: dir}
}

// Save кладёт файл под случайным именем (uuid + исходное расширение),
// чтобы загрузки с одинаковыми именами не затирали друг друга.
func (s *Storage) Save(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", s.Dir, err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	name := uuid.New().String() + ext
	dst := filepath.Join(s.Dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return filepath.ToSlash(filepath.Join(s.Dir, name)), nil
}
