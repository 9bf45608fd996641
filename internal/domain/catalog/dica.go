package catalog

import "fmt"

// Dica is a travel tip.
type Dica struct {
	ID          ID     `json:"id"`
	Tag         string `json:"tag,omitempty"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	WhatsApp    string `json:"linkWhatsapp"`
	ImageURL    string `json:"linkImagem,omitempty"`
	IconURL     string `json:"linkIcone,omitempty"`
}

var DicaSchema = Schema{
	Name:     "dicas",
	Label:    "Tip",
	Endpoint: "/api/dicas",
	Encoding: EncodingMultipart,
	Fields: []Field{
		{Name: "tag", OmitEmpty: true},
		{Name: "titulo", Rules: "required"},
		{Name: "descricao"},
		{Name: "numeroWhatsapp", Rules: "required"},
	},
	Files: []FileField{
		{Name: "imagem", RequiredOnCreate: true},
		{Name: "icone", RequiredOnCreate: true},
	},
}

func (d Dica) EntityID() ID { return d.ID }

func (d Dica) FormValues() FormValues {
	v := NewFormValues()
	v.Set("tag", d.Tag)
	v.Set("titulo", d.Title)
	v.Set("descricao", d.Description)
	v.Set("numeroWhatsapp", d.WhatsApp)
	return v
}

func (d Dica) MediaLinks() MediaLinks {
	return MediaLinks{Images: nonEmpty(d.ImageURL, d.IconURL)}
}

// DicaImagePath and DicaIconPath address the protected media of a tip.
func DicaImagePath(id ID) string { return fmt.Sprintf("%s/imagem", DicaSchema.ItemPath(id)) }
func DicaIconPath(id ID) string { return fmt.Sprintf("%s/icone", DicaSchema.ItemPath(id)) }

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
