package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FileStore persists uploaded files and returns their public path.
type FileStore interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// saveUpload stores the multipart file under field. It returns an empty
// path when the request carries no such file.
func saveUpload(ctx context.Context, c echo.Context, files FileStore, field string) (string, error) {
	if files == nil || !isMultipart(c) {
		return "", nil
	}

	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return files.Save(ctx, header.Filename, src)
}
