package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"homestock-backend/models"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/sync/semaphore"
)

// Параметры обработки изображений
const (
	// MaxPrimaryDim — максимальная сторона основной копии изображения
	MaxPrimaryDim = 1600
	// MaxThumbDim — максимальная сторона миниатюры
	MaxThumbDim = 400
	// JPEGQuality — качество сжатия JPEG
	JPEGQuality = 85
)

// Ошибки хранилища медиафайлов
var (
	// ErrUnsupportedType — MIME тип не image/* и не video/*
	ErrUnsupportedType = errors.New("неподдерживаемый тип файла")
	// ErrStorageBusy — пул записи занят или истек таймаут
	ErrStorageBusy = errors.New("хранилище файлов временно недоступно")
)

// StoredFile описывает сохраненный медиафайл
type StoredFile struct {
	FileURL      string
	ThumbnailURL string // Пусто для видео
	FileType     string // "image" или "video"
}

// MediaService управляет файлами медиа на диске. Запись — блокирующий
// ввод-вывод, поэтому она ограничена семафором с таймаутом, чтобы
// не тормозить остальные запросы.
type MediaService struct {
	uploadDir string
	sem       *semaphore.Weighted
	timeout   time.Duration
}

// NewMediaService создает сервис медиафайлов с каталогом загрузок
func NewMediaService(uploadDir string) *MediaService {
	return NewMediaServiceWithLimits(uploadDir, 4, 10*time.Second)
}

// NewMediaServiceWithLimits создает сервис с заданным числом слотов
// записи и таймаутом ожидания слота
func NewMediaServiceWithLimits(uploadDir string, slots int64, timeout time.Duration) *MediaService {
	return &MediaService{
		uploadDir: uploadDir,
		sem:       semaphore.NewWeighted(slots),
		timeout:   timeout,
	}
}

// Store сохраняет содержимое файла и возвращает стабильные URL.
// Изображения сжимаются и получают миниатюру, видео сохраняются как есть.
// Имена файлов случайные, из пользовательского имени ничего не берется.
func (s *MediaService) Store(ctx context.Context, data []byte, mimeType string) (*StoredFile, error) {
	var fileType string
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		fileType = models.FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		fileType = models.FileTypeVideo
	default:
		return nil, ErrUnsupportedType
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог загрузок: %w", err)
	}

	baseName := uuid.New().String()

	if fileType == models.FileTypeVideo {
		// Видео сохраняем без изменений и без миниатюры
		fileName := baseName + extensionFor(mimeType)
		if err := s.writeFile(ctx, fileName, data); err != nil {
			return nil, err
		}
		return &StoredFile{
			FileURL:  "/uploads/" + fileName,
			FileType: models.FileTypeVideo,
		}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Не смогли декодировать — сохраняем оригинал без миниатюры
		fileName := baseName + extensionFor(mimeType)
		if err := s.writeFile(ctx, fileName, data); err != nil {
			return nil, err
		}
		return &StoredFile{
			FileURL:  "/uploads/" + fileName,
			FileType: models.FileTypeImage,
		}, nil
	}

	// PNG остается PNG ради прозрачности, остальное пережимаем в JPEG
	primary, ext, err := encodeImage(downscale(img, MaxPrimaryDim), format)
	if err != nil {
		return nil, err
	}
	thumb, thumbExt, err := encodeImage(downscale(img, MaxThumbDim), format)
	if err != nil {
		return nil, err
	}

	fileName := baseName + ext
	thumbName := baseName + "_thumb" + thumbExt

	if err := s.writeFile(ctx, fileName, primary); err != nil {
		return nil, err
	}
	if err := s.writeFile(ctx, thumbName, thumb); err != nil {
		// Миниатюра не записалась — убираем основную копию,
		// чтобы не оставлять осиротевший файл
		os.Remove(filepath.Join(s.uploadDir, fileName))
		return nil, err
	}

	return &StoredFile{
		FileURL:      "/uploads/" + fileName,
		ThumbnailURL: "/uploads/" + thumbName,
		FileType:     models.FileTypeImage,
	}, nil
}

// Remove удаляет файлы медиа с диска. Сначала файлы, потом запись в базе:
// при сбое запись остается и удаление можно повторить. Отсутствующий файл
// считается уже удаленным.
func (s *MediaService) Remove(fileURL, thumbnailURL string) error {
	for _, u := range []string{fileURL, thumbnailURL} {
		if u == "" {
			continue
		}
		path := filepath.Join(s.uploadDir, filepath.Base(u))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("не удалось удалить файл %s: %w", path, err)
		}
	}
	return nil
}

// writeFile записывает файл под семафором с таймаутом
func (s *MediaService) writeFile(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return ErrStorageBusy
	}
	defer s.sem.Release(1)

	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0644); err != nil {
		return fmt.Errorf("не удалось записать файл: %w", err)
	}
	return nil
}

// downscale уменьшает изображение так, чтобы ни одна сторона не превышала
// maxDim, сохраняя пропорции. Интерполяция Catmull-Rom.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// encodeImage кодирует изображение: PNG для прозрачных форматов,
// иначе JPEG с фиксированным качеством
func encodeImage(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("не удалось закодировать PNG: %w", err)
		}
		return buf.Bytes(), ".png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, "", fmt.Errorf("не удалось закодировать JPEG: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}

// extensionFor возвращает расширение файла по MIME типу
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	}
	// Берем подтип MIME, имя пользователя не используется
	if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
		return "." + mimeType[idx+1:]
	}
	return ".bin"
}
