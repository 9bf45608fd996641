package catalog

// Aeroporto is an origin airport for the travel calculator.
type Aeroporto struct {
	ID          ID     `json:"id"`
	City        string `json:"cidade"`
	AirportName string `json:"nomeAeroporto"`
	IATACode    string `json:"codigoIATA"`
}

var AeroportoSchema = Schema{
	Name:     "aeroportos",
	Label:    "Airport",
	Endpoint: "/api/calculadora-viagem/aeroportos",
	Encoding: EncodingJSON,
	Fields: []Field{
		{Name: "cidade", Rules: "required"},
		{Name: "nomeAeroporto", Rules: "required"},
		{Name: "codigoIATA", Rules: "required"},
	},
}

func (a Aeroporto) EntityID() ID { return a.ID }

func (a Aeroporto) FormValues() FormValues {
	f := NewFormValues()
	f.Set("cidade", a.City)
	f.Set("nomeAeroporto", a.AirportName)
	f.Set("codigoIATA", a.IATACode)
	return f
}

func (a Aeroporto) MediaLinks() MediaLinks { return MediaLinks{} }

func (a Aeroporto) SearchTerms() []string {
	return []string{a.City, a.AirportName, a.IATACode}
}
