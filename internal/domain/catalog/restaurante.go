package catalog

// Restaurante is a restaurant with gallery, videos and a PDF menu.
type Restaurante struct {
	ID             ID       `json:"id"`
	Name           string   `json:"nome"`
	Description    string   `json:"descricao"`
	WhatsApp       string   `json:"numeroWhatsapp"`
	Category       string   `json:"categoria"`
	CategorySymbol string   `json:"categoriaCifroes,omitempty"`
	ActionType     string   `json:"tipoAcao,omitempty"`
	ImageURL       string   `json:"linkImagem,omitempty"`
	ImageURLs      []string `json:"linkImagens,omitempty"`
	VideoURLs      []string `json:"linkVideos,omitempty"`
	MenuURL        string   `json:"linkCardapio,omitempty"`
}

var RestauranteSchema = Schema{
	Name:     "restaurantes",
	Label:    "Restaurant",
	Endpoint: "/api/restaurantes",
	Encoding: EncodingMultipart,
	Fields: []Field{
		{Name: "nome", Rules: "required"},
		{Name: "descricao"},
		{Name: "numeroWhatsapp", Rules: "required"},
		{Name: "categoria", Rules: "required", Default: "ECONOMICO"},
		{Name: "tipoAcao"},
	},
	Files: []FileField{
		{Name: "imagens", Multiple: true},
		{Name: "videos", Multiple: true},
		{Name: "cardapio"},
	},
	FilterParam: "categoria",
}

func (r Restaurante) EntityID() ID { return r.ID }

func (r Restaurante) FormValues() FormValues {
	f := NewFormValues()
	f.Set("nome", r.Name)
	f.Set("descricao", r.Description)
	f.Set("numeroWhatsapp", r.WhatsApp)
	f.Set("categoria", r.Category)
	f.Set("tipoAcao", r.ActionType)
	return f
}

func (r Restaurante) MediaLinks() MediaLinks {
	images := nonEmpty(r.ImageURL)
	for _, u := range nonEmpty(r.ImageURLs...) {
		if u != r.ImageURL {
			images = append(images, u)
		}
	}
	return MediaLinks{Images: images, Videos: nonEmpty(r.VideoURLs...), Documents: nonEmpty(r.MenuURL)}
}
