package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"skillsync/internal/ai"
	"skillsync/internal/errors"
	"skillsync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBytes(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(small, []byte("Go, SQL"), 0600))
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, bytes.Repeat([]byte("x"), 2048), 0600))

	fp := NewFileProcessor(nil, 1024)

	data, err := fp.ReadBytes(small)
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", string(data))

	_, err = fp.ReadBytes(big)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = fp.ReadBytes(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)

	_, err = fp.ReadBytes(dir)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeFileNotReadable, appErr.Code)
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(resume, []byte("  Senior Go engineer  \n"), 0600))
	image := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(image, []byte("png"), 0600))

	fp := NewFileProcessor(nil, 0)
	text, err := fp.ReadDocument(resume)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", text)

	_, err = fp.ReadDocument(image)
	assert.True(t, errors.IsFileRead(err))
}

func TestHandleOutput(t *testing.T) {
	var buf bytes.Buffer
	oh := NewOutputHandlerTo(&buf, nil)

	require.NoError(t, oh.HandleOutput(types.ExtractSkillsOutput{Skills: "Go, SQL"}, CommandConfig{OutputFormat: "text"}))
	assert.Equal(t, "Go, SQL\n", buf.String())

	out := filepath.Join(t.TempDir(), "reports", "skills.json")
	require.NoError(t, oh.HandleOutput(types.ExtractSkillsOutput{Skills: "Go"}, CommandConfig{OutputFile: out, OutputFormat: "json"}))
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":"Go"}`, string(written))

	err = oh.HandleOutput(types.ExtractSkillsOutput{}, CommandConfig{OutputFormat: "yaml"})
	assert.True(t, errors.IsValidation(err))
}

func TestRunAICommand(t *testing.T) {
	var buf bytes.Buffer
	oh := NewOutputHandlerTo(&buf, nil)
	logged := false

	err := RunAICommand(context.Background(), errors.NewNopLogger(), oh, CommandConfig{OutputFormat: "text"},
		func() (string, error) { return "resume text", nil },
		func(_ context.Context, in string) (types.ExtractSkillsOutput, *ai.TokenUsage, error) {
			return types.ExtractSkillsOutput{Skills: "skills of " + in}, &ai.TokenUsage{TotalTokens: 3}, nil
		},
		func(string, CommandConfig) { logged = true },
	)
	require.NoError(t, err)
	assert.True(t, logged)
	assert.Equal(t, "skills of resume text\n", buf.String())

	opErr := fmt.Errorf("model down")
	err = RunAICommand(context.Background(), errors.NewNopLogger(), oh, CommandConfig{OutputFormat: "text"},
		func() (string, error) { return "", nil },
		func(context.Context, string) (types.ExtractSkillsOutput, *ai.TokenUsage, error) {
			return types.ExtractSkillsOutput{}, nil, opErr
		},
		nil,
	)
	assert.ErrorIs(t, err, opErr)
}
