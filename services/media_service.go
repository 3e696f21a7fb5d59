package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"pokedex_bot/logger"
)

// MediaPreparer 上传前读取图片，超过最大宽度时等比缩小
type MediaPreparer struct {
	maxWidth int
}

// NewMediaPreparer maxWidth <= 0 表示不缩放
func NewMediaPreparer(maxWidth int) *MediaPreparer {
	return &MediaPreparer{maxWidth: maxWidth}
}

// Prepare 返回上传使用的文件名和内容
func (m *MediaPreparer) Prepare(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("读取图片失败: %w", err)
	}
	name := filepath.Base(path)
	if m.maxWidth <= 0 {
		return name, data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("解码图片失败: %w", err)
	}
	width := img.Bounds().Dx()
	if width <= m.maxWidth {
		return name, data, nil
	}

	resized := imaging.Resize(img, m.maxWidth, 0, imaging.Lanczos)
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return "", nil, fmt.Errorf("编码图片失败: %w", err)
	}
	logger.Debug("图片已缩小", "path", path, "from_width", width, "to_width", m.maxWidth)
	return name, buf.Bytes(), nil
}
