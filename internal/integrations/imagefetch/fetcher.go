package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxImageBytes верхняя граница размера отдаваемого изображения
const MaxImageBytes = 5 << 20

// Image изображение и его тип
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher загружает изображения по внешним URL и из локального каталога загрузок
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	uploadsDir string
}

// NewFetcher создает новый экземпляр загрузчика
func NewFetcher(timeout time.Duration, userAgent, uploadsDir string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		uploadsDir: uploadsDir,
	}
}

// IsRemote возвращает true для http(s) ссылок
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Get загружает изображение по ссылке: внешний URL или путь внутри каталога загрузок
func (f *Fetcher) Get(ctx context.Context, ref string, defaultType string) (*Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}
	if IsRemote(ref) {
		return f.Remote(ctx, ref, defaultType)
	}
	return f.Local(ref)
}

// Remote загружает изображение по внешнему URL
func (f *Fetcher) Remote(ctx context.Context, url string, defaultType string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrInternal, err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultType
	}

	return &Image{Data: data, ContentType: contentType}, nil
}

// Local читает файл из каталога загрузок
// Путь не может выйти за пределы каталога
func (f *Fetcher) Local(ref string) (*Image, error) {
	path, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, ErrNotFound
	}
	if info.Size() > MaxImageBytes {
		return nil, ErrTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file: %v", ErrInternal, err)
	}

	return &Image{Data: data, ContentType: ContentTypeByExt(path)}, nil
}

func (f *Fetcher) resolve(ref string) (string, error) {
	root, err := filepath.Abs(f.uploadsDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Clean от корня отбрасывает все ".." выше него
	rel := filepath.Clean("/" + filepath.ToSlash(ref))
	path := filepath.Join(root, rel)

	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return path, nil
}

// ContentTypeByExt определяет тип изображения по расширению, по умолчанию image/jpeg
func ContentTypeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
