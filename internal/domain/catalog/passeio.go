package catalog

// Passeio is a guided tour.
type Passeio struct {
	ID                  ID       `json:"id"`
	Tag                 string   `json:"tag,omitempty"`
	Title               string   `json:"titulo"`
	Description         string   `json:"descricao"`
	Duration            Scalar   `json:"duracao"`
	Price               Scalar   `json:"valor"`
	WhatsApp            string   `json:"linkWhatsapp"`
	Category            string   `json:"categoria"`
	CategoryDescription string   `json:"categoriaDescricao,omitempty"`
	TopRanking          string   `json:"topRanking,omitempty"`
	IncludedItems       []string `json:"itensIncluidos,omitempty"`
	ImageURL            string   `json:"linkImagem,omitempty"`
}

var PasseioSchema = Schema{
	Name:     "passeios",
	Label:    "Tour",
	Endpoint: "/api/passeios",
	Encoding: EncodingMultipart,
	Fields: []Field{
		{Name: "tag", OmitEmpty: true},
		{Name: "titulo", Rules: "required"},
		{Name: "descricao"},
		{Name: "duracao"},
		{Name: "valor"},
		{Name: "numeroWhatsapp", Rules: "required"},
		{Name: "categoria", Rules: "required", Default: "AQUATICOS"},
		{Name: "topRanking", OmitEmpty: true},
		{Name: "itensIncluidos", Repeated: true},
	},
	Files: []FileField{
		{Name: "imagem", RequiredOnCreate: true},
	},
	FieldToasts: []FieldToast{
		WhatsAppToast,
		{Field: "itensIncluidos", Prefix: "Included items error: "},
	},
}

func (p Passeio) EntityID() ID { return p.ID }

func (p Passeio) FormValues() FormValues {
	f := NewFormValues()
	f.Set("tag", p.Tag)
	f.Set("titulo", p.Title)
	f.Set("descricao", p.Description)
	f.Set("duracao", p.Duration.String())
	f.Set("valor", p.Price.String())
	f.Set("numeroWhatsapp", p.WhatsApp)
	f.Set("categoria", p.Category)
	f.Set("topRanking", p.TopRanking)
	for _, item := range p.IncludedItems {
		f.Add("itensIncluidos", item)
	}
	return f
}

func (p Passeio) MediaLinks() MediaLinks {
	return MediaLinks{Images: nonEmpty(p.ImageURL)}
}
