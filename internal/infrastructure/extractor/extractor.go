// Package extractor turns stored correspondence into plain text. Emails and
// transcripts are stored as UTF-8 text; uploaded documents may also be HTML,
// PDF or XLSX.
package extractor

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
)

const maxSourceBytes = 32 << 20

type format string

const (
	formatText format = "text"
	formatHTML format = "html"
	formatPDF  format = "pdf"
	formatXLSX format = "xlsx"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, comm *domain.Communication) (string, error) {
	reader, err := e.storage.Open(ctx, comm.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source communication: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(io.LimitReader(reader, maxSourceBytes+1))
	if err != nil {
		return "", fmt.Errorf("read source communication: %w", err)
	}
	if len(raw) > maxSourceBytes {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("%s exceeds %d bytes", comm.Filename, maxSourceBytes))
	}

	var text string
	switch detectFormat(comm.MimeType, comm.Filename) {
	case formatHTML:
		text, err = extractHTML(raw)
	case formatPDF:
		text, err = extractPDF(raw)
	case formatXLSX:
		text, err = extractXLSX(raw)
	default:
		text, err = extractText(raw, comm.Filename)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func detectFormat(mimeType, filename string) format {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		switch mediaType {
		case "text/html", "application/xhtml+xml":
			return formatHTML
		case "application/pdf":
			return formatPDF
		case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
			return formatXLSX
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return formatHTML
	case ".pdf":
		return formatPDF
	case ".xlsx":
		return formatXLSX
	default:
		return formatText
	}
}

func extractText(raw []byte, filename string) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("unsupported binary format: %s", filename))
	}
	return string(raw), nil
}
