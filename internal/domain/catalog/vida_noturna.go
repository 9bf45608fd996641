package catalog

// VidaNoturna is a nightlife venue.
type VidaNoturna struct {
	ID            ID       `json:"id"`
	Title         string   `json:"titulo"`
	Description   string   `json:"descricao"`
	Highlight     string   `json:"destaque"`
	OpeningHours  string   `json:"horarioFuncionamento"`
	WhatsApp      string   `json:"numeroWhatsapp"`
	GoogleMapsURL string   `json:"linkGoogleMaps"`
	ImageURLs     []string `json:"linkImagens,omitempty"`
	VideoURLs     []string `json:"linkVideos,omitempty"`
}

var VidaNoturnaSchema = Schema{
	Name:     "vida-noturna",
	Label:    "Venue",
	Endpoint: "/api/vida-noturna",
	Encoding: EncodingMultipart,
	Fields: []Field{
		{Name: "titulo", Rules: "required"},
		{Name: "descricao"},
		{Name: "destaque"},
		{Name: "horarioFuncionamento", Rules: "required"},
		{Name: "numeroWhatsapp", Rules: "required"},
		{Name: "linkGoogleMaps", Rules: "required"},
	},
	Files: []FileField{
		{Name: "imagem", RequiredOnCreate: true},
	},
}

func (v VidaNoturna) EntityID() ID { return v.ID }

func (v VidaNoturna) FormValues() FormValues {
	f := NewFormValues()
	f.Set("titulo", v.Title)
	f.Set("descricao", v.Description)
	f.Set("destaque", v.Highlight)
	f.Set("horarioFuncionamento", v.OpeningHours)
	f.Set("numeroWhatsapp", v.WhatsApp)
	f.Set("linkGoogleMaps", v.GoogleMapsURL)
	return f
}

func (v VidaNoturna) MediaLinks() MediaLinks {
	return MediaLinks{Images: nonEmpty(v.ImageURLs...), Videos: nonEmpty(v.VideoURLs...)}
}
