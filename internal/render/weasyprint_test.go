// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/pkg/types"
)

// fakeRuntime implements container.Runtime, returning canned PDF bytes and
// capturing the HTML piped in.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string

	image string
	args  []string
	stdin string
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.image = image
	f.args = args
	in, _ := io.ReadAll(stdin)
	f.stdin = string(in)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestNewWeasyprint_MissingImage(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}

	_, err := NewWeasyprint(rt)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRenderConfiguration)
}

func TestWeasyprintRender(t *testing.T) {
	rt := &fakeRuntime{output: "%PDF-1.7\n/Type /Pages\n/Type /Page\n%%EOF"}

	e, err := NewWeasyprint(rt)
	require.NoError(t, err)
	assert.Equal(t, types.BackendWeasyprint, e.Backend())

	doc := markdown.Parse("# Report <Q3>\n\nBody with **bold**.")
	res, err := e.Render(context.Background(), doc, "Report <Q3>")
	require.NoError(t, err)

	assert.Equal(t, "weasyprint:latest", rt.image)
	assert.Equal(t, []string{"-", "-"}, rt.args)
	assert.True(t, strings.HasPrefix(string(res.Data), "%PDF-"))
	assert.Equal(t, 1, res.Pages)

	// The piped HTML carries the converted body and an escaped title.
	assert.Contains(t, rt.stdin, "<strong>bold</strong>")
	assert.Contains(t, rt.stdin, "<title>Report &lt;Q3&gt;</title>")
}

func TestWeasyprintRender_Failures(t *testing.T) {
	t.Run("container error", func(t *testing.T) {
		rt := &fakeRuntime{runErr: errors.New("exit status 1")}
		e, err := NewWeasyprint(rt)
		require.NoError(t, err)

		_, err = e.Render(context.Background(), markdown.Parse("# H"), "H")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrRenderConfiguration)
	})

	t.Run("empty output", func(t *testing.T) {
		rt := &fakeRuntime{output: ""}
		e, err := NewWeasyprint(rt)
		require.NoError(t, err)

		_, err = e.Render(context.Background(), markdown.Parse("# H"), "H")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty output")
	})
}
