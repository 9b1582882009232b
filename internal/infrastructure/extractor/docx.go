package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// convertDocx pulls the text runs out of word/document.xml. Paragraph ends
// become newlines; everything else in the markup is dropped.
func convertDocx(raw []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open word/document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("word/document.xml missing from archive")
	}
	defer docXML.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(docXML)
	inTextRun := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inTextRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
