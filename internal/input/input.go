// Package input collects the topic, URL and image a generation starts from.
package input

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/validation"
)

// Form field names shared with the page.
const (
	FieldTopic = "topic"
	FieldURL   = "url"
	FieldLevel = "level"
	FieldImage = "image"
)

// Image is one uploaded file.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Input is what the user supplied. Topic and URL are trimmed and may be empty.
type Input struct {
	Topic string
	URL   string
	Image *Image
}

// HasImage, HasURL and HasTopic form the presence tuple the request builder
// chooses a source from.
func (in Input) HasImage() bool { return in.Image != nil && len(in.Image.Data) > 0 }
func (in Input) HasURL() bool   { return in.URL != "" }
func (in Input) HasTopic() bool { return in.Topic != "" }

// Empty reports whether nothing at all was supplied.
func (in Input) Empty() bool {
	return !in.HasImage() && !in.HasURL() && !in.HasTopic()
}

// Selection holds at most one selected image. Selecting again replaces the
// previous file instead of appending to it.
type Selection struct {
	image *Image
}

func (s *Selection) Select(img *Image) {
	s.image = img
}

func (s *Selection) Current() *Image {
	return s.image
}

func (s *Selection) Clear() {
	s.image = nil
}

// Collect trims the text fields and fails with INPUT_MISSING when topic, URL
// and image are all absent. URL and topic are not format-checked.
func Collect(topic, rawURL string, img *Image) (Input, error) {
	in := Input{
		Topic: strings.TrimSpace(topic),
		URL:   strings.TrimSpace(rawURL),
	}
	if img != nil && len(img.Data) > 0 {
		in.Image = img
	}
	if in.Empty() {
		return Input{}, domain.NewInputMissingError()
	}
	return in, nil
}

// Collector reads an Input out of a multipart form.
type Collector struct {
	validator     *validation.Validator
	maxImageBytes int
}

func NewCollector(maxImageBytes int) *Collector {
	return &Collector{
		validator:     validation.NewValidator(maxImageBytes),
		maxImageBytes: maxImageBytes,
	}
}

// FromMultipart collects topic, url and image from form. When several image
// parts are posted the last non-empty one wins.
func (c *Collector) FromMultipart(form *multipart.Form) (Input, error) {
	if form == nil {
		return Input{}, domain.NewInputMissingError()
	}

	var selection Selection
	var errs domain.ValidationErrors
	for _, fh := range form.File[FieldImage] {
		if fh == nil || (fh.Size == 0 && fh.Filename == "") {
			continue
		}
		img, err := c.readImage(fh)
		if err != nil {
			return Input{}, err
		}
		if verrs := c.validator.ValidateImage(img.MIMEType, len(img.Data)); len(verrs) > 0 {
			errs = append(errs, verrs...)
			continue
		}
		selection.Select(img)
	}
	if len(errs) > 0 {
		return Input{}, errs
	}

	return Collect(firstValue(form, FieldTopic), firstValue(form, FieldURL), selection.Current())
}

func (c *Collector) readImage(fh *multipart.FileHeader) (*Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to open uploaded file %q", fh.Filename))
	}
	defer f.Close()

	var reader io.Reader = f
	if c.maxImageBytes > 0 {
		// One extra byte lets the validator see the file is too big.
		reader = io.LimitReader(f, int64(c.maxImageBytes)+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to read uploaded file %q", fh.Filename))
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return &Image{Name: fh.Filename, MIMEType: mimeType, Data: data}, nil
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Level returns the raw level form value.
func Level(form *multipart.Form) string {
	if form == nil {
		return ""
	}
	return firstValue(form, FieldLevel)
}
