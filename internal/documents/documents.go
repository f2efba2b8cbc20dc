// Package documents turns uploaded resume files into plain text.
package documents

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"skillsync/internal/errors"
	"skillsync/internal/utils"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	msgUnsupported  = "Please drop a valid text or document file."
	msgDecodeFailed = "Failed to read the file."
)

// Decode returns the text content of a resume file. The format is chosen by
// file extension. Unsupported extensions and undecodable content both yield
// a FileReadError.
func Decode(filename string, data []byte) (string, error) {
	kind := utils.KindOf(filename)
	if kind == utils.KindUnsupported {
		return "", errors.NewFileReadError(errors.ErrCodeUnsupportedFile, msgUnsupported,
			fmt.Errorf("unsupported file type: %q", utils.GetFileExtension(filename))).
			WithContext("filename", filename)
	}

	var (
		text string
		err  error
	)
	switch kind {
	case utils.KindPDF:
		text, err = decodePDF(data)
	case utils.KindDOCX:
		text, err = decodeDOCX(data)
	case utils.KindDOC:
		text, err = decodeDOCX(data)
		if err != nil {
			text, err = decodeText(data)
		}
	default:
		text, err = decodeText(data)
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("no text found in document")
	}
	if err != nil {
		return "", errors.NewFileReadError(errors.ErrCodeFileDecodeFailed, msgDecodeFailed, err).
			WithContext("filename", filename)
	}
	return strings.TrimSpace(text), nil
}

// decodeText accepts UTF-8 text only; binary content is rejected
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid UTF-8 text")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("content contains binary data")
	}
	return string(data), nil
}

func decodePDF(data []byte) (text string, err error) {
	// the pdf parser panics on some corrupt inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func decodeDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return wordXMLText(doc.Editable().GetContent())
}

// wordXMLText extracts the visible text of a WordprocessingML body: the
// content of w:t runs, with tabs, breaks and paragraph ends kept as whitespace
func wordXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
