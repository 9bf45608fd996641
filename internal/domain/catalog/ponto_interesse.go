package catalog

// PontoInteresse is a point of interest on the island map.
type PontoInteresse struct {
	ID            ID     `json:"id"`
	Title         string `json:"titulo"`
	Category      string `json:"categoria"`
	Tag           string `json:"tag"`
	GoogleMapsURL string `json:"linkGoogleMaps"`
}

var PontoInteresseSchema = Schema{
	Name:     "pontos-interesse",
	Label:    "Point of interest",
	Endpoint: "/api/pontos-interesse",
	Encoding: EncodingJSON,
	Fields: []Field{
		{Name: "titulo", Rules: "required"},
		{Name: "categoria", Rules: "required"},
		{Name: "tag"},
		{Name: "linkGoogleMaps"},
	},
}

func (p PontoInteresse) EntityID() ID { return p.ID }

func (p PontoInteresse) FormValues() FormValues {
	f := NewFormValues()
	f.Set("titulo", p.Title)
	f.Set("categoria", p.Category)
	f.Set("tag", p.Tag)
	f.Set("linkGoogleMaps", p.GoogleMapsURL)
	return f
}

func (p PontoInteresse) MediaLinks() MediaLinks { return MediaLinks{} }
