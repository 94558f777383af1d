package service

import (
	"fmt"
	"strings"
	"time"

	"context-builder/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const pdfPageTimeout = 90 * time.Second

// PDFExtractor pulls plain text out of PDF files, one entry per page
type PDFExtractor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(logger domain.Logger) *PDFExtractor {
	return &PDFExtractor{
		logger:      logger,
		pageTimeout: pdfPageTimeout,
	}
}

// ExtractPages returns the text of every page. Pages that fail or time out
// come back empty so page numbering stays aligned with the source file.
func (p *PDFExtractor) ExtractPages(pdfBytes []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	type pageResult struct {
		text string
		err  error
	}

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var res pageResult
		select {
		case res = <-resultCh:
		case <-time.After(p.pageTimeout):
			res = pageResult{err: fmt.Errorf("timeout after %v", p.pageTimeout)}
			go func() { <-resultCh }() // drain so goroutine can exit
		}
		if res.err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", res.err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(res.text))
	}

	return pages, nil
}
