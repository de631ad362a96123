package input

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"studynote-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	name        string
	contentType string
	data        []byte
}

func buildForm(t *testing.T, values map[string]string, files ...filePart) *multipart.Form {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func TestCollect_AllEmptyIsInputMissing(t *testing.T) {
	_, err := Collect("   ", "\t", nil)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInputMissing))

	_, err = Collect("", "", &Image{Name: "empty.png", MIMEType: "image/png"})
	assert.True(t, domain.HasCode(err, domain.CodeInputMissing))
}

func TestCollect_TrimsText(t *testing.T) {
	in, err := Collect("  Photosynthesis  ", " https://example.com/page ", nil)
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", in.Topic)
	assert.Equal(t, "https://example.com/page", in.URL)
	assert.Nil(t, in.Image)
	assert.True(t, in.HasTopic())
	assert.True(t, in.HasURL())
	assert.False(t, in.HasImage())
}

func TestCollect_URLIsNotFormatChecked(t *testing.T) {
	in, err := Collect("", "not really a url", nil)
	require.NoError(t, err)
	assert.Equal(t, "not really a url", in.URL)
}

func TestSelection_ReplacesPreviousFile(t *testing.T) {
	var s Selection
	first := &Image{Name: "first.png", MIMEType: "image/png", Data: []byte{1}}
	second := &Image{Name: "second.jpg", MIMEType: "image/jpeg", Data: []byte{2}}

	s.Select(first)
	s.Select(second)
	assert.Same(t, second, s.Current())

	s.Clear()
	assert.Nil(t, s.Current())
}

func TestCollector_FromMultipart(t *testing.T) {
	c := NewCollector(1024)

	t.Run("topic only", func(t *testing.T) {
		form := buildForm(t, map[string]string{FieldTopic: " Cells ", FieldLevel: "graduate"})
		in, err := c.FromMultipart(form)
		require.NoError(t, err)
		assert.Equal(t, "Cells", in.Topic)
		assert.Equal(t, "graduate", Level(form))
	})

	t.Run("nothing supplied", func(t *testing.T) {
		form := buildForm(t, map[string]string{FieldTopic: "", FieldURL: ""})
		_, err := c.FromMultipart(form)
		assert.True(t, domain.HasCode(err, domain.CodeInputMissing))
	})

	t.Run("last image wins", func(t *testing.T) {
		form := buildForm(t, nil,
			filePart{name: "a.png", contentType: "image/png", data: []byte("first")},
			filePart{name: "b.jpg", contentType: "image/jpeg", data: []byte("second")},
		)
		in, err := c.FromMultipart(form)
		require.NoError(t, err)
		require.NotNil(t, in.Image)
		assert.Equal(t, "b.jpg", in.Image.Name)
		assert.Equal(t, "image/jpeg", in.Image.MIMEType)
		assert.Equal(t, []byte("second"), in.Image.Data)
	})

	t.Run("content type sniffed when missing", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\n0000")
		form := buildForm(t, nil, filePart{name: "scan", data: png})
		in, err := c.FromMultipart(form)
		require.NoError(t, err)
		assert.Equal(t, "image/png", in.Image.MIMEType)
	})

	t.Run("non image rejected", func(t *testing.T) {
		form := buildForm(t, nil, filePart{name: "notes.pdf", contentType: "application/pdf", data: []byte("%PDF-")})
		_, err := c.FromMultipart(form)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "image", verrs[0].Field)
	})

	t.Run("oversized image rejected", func(t *testing.T) {
		form := buildForm(t, nil, filePart{name: "big.png", contentType: "image/png", data: bytes.Repeat([]byte{1}, 2048)})
		_, err := c.FromMultipart(form)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, domain.CodeOutOfRange, verrs[0].Code)
	})

	t.Run("nil form", func(t *testing.T) {
		_, err := c.FromMultipart(nil)
		assert.True(t, domain.HasCode(err, domain.CodeInputMissing))
	})
}
