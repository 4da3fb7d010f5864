// Package source loads pixel grids from files, PDF pages and synthetic
// patterns behind a single paged interface.
package source

import (
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/blobscan/internal/raster"
)

// Source yields one or more pixel grids. Image files and pattern sources have
// a single page; PDF documents have one page per sheet.
type Source interface {
	PageCount() int
	Page(index int) (*raster.Grid, error)
	Close() error
}

// Open dispatches on the input string: "qr:TEXT" builds a synthetic pattern,
// a .pdf path opens the document, anything else is treated as an image file
// or a directory of image files.
func Open(input string, dpi int) (Source, error) {
	if strings.HasPrefix(input, "qr:") {
		return NewPatternSource(strings.TrimPrefix(input, "qr:"))
	}
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return NewPDFSource(input, dpi)
	}
	return NewImageSource(input)
}

// PDFSource renders document pages through MuPDF.
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

// NewPDFSource opens a PDF document. Pages are rasterized at the given DPI.
func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

// Page rasterizes one sheet. A fresh document handle is opened per call so
// pages can be rendered from multiple goroutines.
func (s *PDFSource) Page(index int) (*raster.Grid, error) {
	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, float64(s.dpi))
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
