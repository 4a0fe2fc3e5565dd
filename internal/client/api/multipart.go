package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"strconv"
)

// MaxImageParts caps the number of car image parts in one upload.
const MaxImageParts = 10

var ErrTooManyImages = errors.New("too many image parts")

// Part is one opaque binary blob attached to a multipart form.
type Part struct {
	Filename string
	Data     []byte
}

// Form collects the fields and file parts of a car create/update request.
// Numeric fields are coerced to their canonical string form, mirroring what
// the backend's form parser expects.
type Form struct {
	order      []string
	fields     map[string]string
	images     []Part
	brandImage *Part
}

func NewForm() *Form {
	return &Form{fields: make(map[string]string)}
}

func (f *Form) SetField(name, value string) {
	if _, ok := f.fields[name]; !ok {
		f.order = append(f.order, name)
	}
	f.fields[name] = value
}

func (f *Form) SetNumber(name string, value float64) {
	f.SetField(name, strconv.FormatFloat(value, 'f', -1, 64))
}

func (f *Form) SetBool(name string, value bool) {
	f.SetField(name, strconv.FormatBool(value))
}

// AddImage appends one image part. At most MaxImageParts are accepted.
func (f *Form) AddImage(filename string, data []byte) error {
	if len(f.images) >= MaxImageParts {
		return ErrTooManyImages
	}
	f.images = append(f.images, Part{Filename: filename, Data: data})
	return nil
}

// SetBrandImage sets the single optional brand logo part.
func (f *Form) SetBrandImage(filename string, data []byte) {
	f.brandImage = &Part{Filename: filename, Data: data}
}

// Field returns the current value of a form field.
func (f *Form) Field(name string) string { return f.fields[name] }

// ImageCount returns the number of attached image parts.
func (f *Form) ImageCount() int { return len(f.images) }

// HasBrandImage reports whether a brand logo part is attached.
func (f *Form) HasBrandImage() bool { return f.brandImage != nil }

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range f.order {
		if err := w.WriteField(name, f.fields[name]); err != nil {
			return nil, "", err
		}
	}
	for _, img := range f.images {
		fw, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(img.Data); err != nil {
			return nil, "", err
		}
	}
	if f.brandImage != nil {
		fw, err := w.CreateFormFile("brandImage", f.brandImage.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(f.brandImage.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
