package documents

import (
	"archive/zip"
	"bytes"
	"testing"

	"skillsync/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">React, </w:t></w:r><w:r><w:t>Figma</w:t></w:r></w:p>
</w:body>
</w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecodeText(t *testing.T) {
	text, err := Decode("resume.txt", []byte("\xef\xbb\xbf  React, SQL\nAgile  \n"))
	require.NoError(t, err)
	assert.Equal(t, "React, SQL\nAgile", text)
}

func TestDecodeDocx(t *testing.T) {
	text, err := Decode("resume.docx", buildDocx(t))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tReact, Figma", text)
}

func TestDecodeDocWithOOXMLContent(t *testing.T) {
	text, err := Decode("resume.doc", buildDocx(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Figma")
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		code     string
	}{
		{"unsupported extension", "photo.png", []byte("png"), errors.ErrCodeUnsupportedFile},
		{"binary text file", "resume.txt", []byte{0xff, 0xfe, 0x00, 0x41}, errors.ErrCodeFileDecodeFailed},
		{"nul bytes", "resume.txt", []byte("abc\x00def"), errors.ErrCodeFileDecodeFailed},
		{"empty text file", "resume.txt", []byte("   \n"), errors.ErrCodeFileDecodeFailed},
		{"not a pdf", "resume.pdf", []byte("plain words"), errors.ErrCodeFileDecodeFailed},
		{"not a docx", "resume.docx", []byte("plain words"), errors.ErrCodeFileDecodeFailed},
		{"binary doc", "resume.doc", []byte{0xd0, 0xcf, 0x11, 0xe0, 0x00}, errors.ErrCodeFileDecodeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.filename, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsFileRead(err))

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestWordXMLTextRejectsBrokenXML(t *testing.T) {
	_, err := wordXMLText("<w:p><w:t>unclosed")
	assert.Error(t, err)
}
