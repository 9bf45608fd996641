package catalog

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/validation"
)

// Scalar accepts a JSON string, number or boolean and keeps its text form.
// Record ids and numeric form fields arrive with either shape.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Scalar(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("catalog: cannot read %s as scalar", data)
	}
	*s = Scalar(fmt.Sprint(b))
	return nil
}

func (s Scalar) String() string { return string(s) }

type ID = Scalar

// Entity is implemented by every record the console manages.
type Entity interface {
	EntityID() ID
	// FormValues pre-fills the edit form from a fetched record.
	FormValues() FormValues
	MediaLinks() MediaLinks
}

// Searchable records can be filtered client-side by a free-text term.
type Searchable interface {
	SearchTerms() []string
}

type MediaLinks struct {
	Images    []string `json:"images,omitempty"`
	Videos    []string `json:"videos,omitempty"`
	Documents []string `json:"documents,omitempty"`
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FormValues holds what the operator typed and attached in a create/edit form.
type FormValues struct {
	Fields map[string][]string
	Files  map[string][]File
}

func NewFormValues() FormValues {
	return FormValues{Fields: map[string][]string{}, Files: map[string][]File{}}
}

func (f FormValues) Get(name string) string {
	if v := f.Fields[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f FormValues) Values(name string) []string {
	return f.Fields[name]
}

func (f *FormValues) Set(name, value string) {
	f.init()
	f.Fields[name] = []string{value}
}

func (f *FormValues) Add(name, value string) {
	f.init()
	f.Fields[name] = append(f.Fields[name], value)
}

func (f *FormValues) AddFile(name string, file File) {
	f.init()
	f.Files[name] = append(f.Files[name], file)
}

func (f *FormValues) init() {
	if f.Fields == nil {
		f.Fields = map[string][]string{}
	}
	if f.Files == nil {
		f.Files = map[string][]File{}
	}
}

func (f FormValues) Empty() bool {
	for _, v := range f.Fields {
		for _, s := range v {
			if s != "" {
				return false
			}
		}
	}
	return len(f.Files) == 0
}

type Encoding int

const (
	EncodingMultipart Encoding = iota
	EncodingJSON
)

type Field struct {
	Name    string
	Rules   string
	Default string
	// OmitEmpty drops the field from the request when blank; otherwise it is sent as "".
	OmitEmpty bool
	Repeated  bool
}

type FileField struct {
	Name             string
	Multiple         bool
	RequiredOnCreate bool
}

// FieldToast is the toast shown when a submit fails on Field.
type FieldToast struct {
	Field  string
	Prefix string
}

var WhatsAppToast = FieldToast{Field: "numeroWhatsapp", Prefix: "WhatsApp error: "}

// Schema describes one CRUD entity: where it lives and how its form is sent.
type Schema struct {
	Name        string
	Label       string
	Endpoint    string
	Encoding    Encoding
	Fields      []Field
	Files       []FileField
	FilterParam string
	// FieldToasts are checked in order; nil means only the WhatsApp toast.
	FieldToasts []FieldToast
}

func (s Schema) ItemPath(id ID) string {
	return s.Endpoint + "/" + url.PathEscape(string(id))
}

// ListQuery builds the list query string for an optional category filter.
// "null" and "undefined" are treated as no filter.
func (s Schema) ListQuery(filter string) url.Values {
	q := url.Values{}
	filter = strings.TrimSpace(filter)
	if s.FilterParam == "" || filter == "" || filter == "null" || filter == "undefined" {
		return q
	}
	q.Set(s.FilterParam, filter)
	return q
}

// Validate checks form shape before anything is sent.
func (s Schema) Validate(values FormValues, creating bool) apperror.FieldErrors {
	errs := apperror.FieldErrors{}
	for _, f := range s.Fields {
		if f.Rules == "" {
			continue
		}
		var msg string
		if f.Repeated {
			msg = validation.Var(values.Values(f.Name), f.Rules)
		} else {
			msg = validation.Var(values.Get(f.Name), f.Rules)
		}
		if msg != "" {
			errs[f.Name] = msg
		}
	}
	if creating {
		for _, ff := range s.Files {
			if ff.RequiredOnCreate && len(values.Files[ff.Name]) == 0 {
				errs[ff.Name] = "required"
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Body is a request body ready for the transport: exactly one of JSON or Form is set.
type Body struct {
	JSON map[string]any
	Form *FormValues
}

// Body shapes form values into the request the backend expects for this entity.
func (s Schema) Body(values FormValues) Body {
	if s.Encoding == EncodingJSON {
		payload := make(map[string]any, len(s.Fields))
		for _, f := range s.Fields {
			if f.Repeated {
				payload[f.Name] = append([]string{}, values.Values(f.Name)...)
				continue
			}
			v := values.Get(f.Name)
			if f.OmitEmpty && v == "" {
				continue
			}
			payload[f.Name] = v
		}
		return Body{JSON: payload}
	}

	form := NewFormValues()
	for _, f := range s.Fields {
		if f.Repeated {
			for _, v := range values.Values(f.Name) {
				form.Add(f.Name, v)
			}
			continue
		}
		v := values.Get(f.Name)
		if f.OmitEmpty && v == "" {
			continue
		}
		form.Set(f.Name, v)
	}
	for _, ff := range s.Files {
		files := values.Files[ff.Name]
		if len(files) == 0 {
			continue
		}
		if !ff.Multiple {
			files = files[:1]
		}
		for _, file := range files {
			form.AddFile(ff.Name, file)
		}
	}
	return Body{Form: &form}
}

// Blank returns the empty form for this schema.
func (s Schema) Blank() FormValues {
	values := NewFormValues()
	for _, f := range s.Fields {
		if !f.Repeated {
			values.Set(f.Name, f.Default)
		}
	}
	return values
}
