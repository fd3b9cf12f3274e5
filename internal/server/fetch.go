package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var fetchClient = &http.Client{Timeout: 20 * time.Second}

// downloadImage fetches an image URL into dstDir, picking the file extension
// from the response content type.
func downloadImage(url, dstDir string) (string, error) {
	resp, err := fetchClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	ext := ".jpg"
	switch {
	case strings.Contains(ctype, "png"):
		ext = ".png"
	case strings.Contains(ctype, "gif"):
		ext = ".gif"
	case strings.Contains(ctype, "jpeg"):
		ext = ".jpg"
	}

	imgPath := filepath.Join(dstDir, "source"+ext)
	out, err := os.Create(imgPath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	return imgPath, nil
}
