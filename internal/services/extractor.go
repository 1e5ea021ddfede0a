package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type DocumentExtractor interface {
	ExtractText(content []byte, filename string) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// ExtractText pulls plain text out of an uploaded document. Unsupported
// extensions fail with ErrUnsupportedFormat; extraction problems inside a
// supported format degrade to an empty string so the caller can decide.
func (d *documentExtractor) ExtractText(content []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return d.extractPDF(content), nil
	case ".docx":
		return d.extractDOCX(content), nil
	case ".txt":
		return string(content), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (d *documentExtractor) extractPDF(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Printf("⚠️  Failed to open PDF: %v\n", err)
		return ""
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			log.Printf("⚠️  Failed to read PDF page %d: %v\n", pageIndex, err)
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String()
}

// extractDOCX reads word/document.xml out of the docx archive and collects
// the text runs, one line per paragraph.
func (d *documentExtractor) extractDOCX(content []byte) string {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Printf("⚠️  Failed to open DOCX archive: %v\n", err)
		return ""
	}

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		log.Println("⚠️  DOCX archive has no word/document.xml")
		return ""
	}

	rc, err := docFile.Open()
	if err != nil {
		log.Printf("⚠️  Failed to read DOCX document: %v\n", err)
		return ""
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var textBuilder strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("⚠️  Failed to parse DOCX XML: %v\n", err)
			return ""
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
			if t.Name.Local == "p" {
				textBuilder.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				textBuilder.Write(t)
			}
		}
	}

	return textBuilder.String()
}

// CleanText normalizes extracted text: trims each line and drops blanks.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
