package quiz

// Answers is one questionnaire submission. Field names match the stored
// profile document and the schema.
type Answers struct {
	Gender      string   `json:"gender" validate:"required"`
	Age         int      `json:"age" validate:"required"`
	SkinType    []string `json:"skinType" validate:"required,min=1"`
	Concerns    []string `json:"concerns,omitempty"`
	Sunlight    string   `json:"sunlight" validate:"required"`
	Sunscreen   string   `json:"sunscreen" validate:"required"`
	Water       string   `json:"water" validate:"required"`
	Exercise    string   `json:"exercise" validate:"required"`
	FaceWash    string   `json:"faceWash" validate:"required"`
	Moisturizer string   `json:"moisturizer" validate:"required"`
	Exfoliate   string   `json:"exfoliate" validate:"required"`
	Makeup      string   `json:"makeup" validate:"required"`
	Allergies   string   `json:"allergies,omitempty"`
	Medication  string   `json:"medication,omitempty"`
}

// Values projects the answers onto the schema's field names.
func (a Answers) Values() map[string]any {
	values := map[string]any{
		"gender":      a.Gender,
		"age":         a.Age,
		"skinType":    a.SkinType,
		"sunlight":    a.Sunlight,
		"sunscreen":   a.Sunscreen,
		"water":       a.Water,
		"exercise":    a.Exercise,
		"faceWash":    a.FaceWash,
		"moisturizer": a.Moisturizer,
		"exfoliate":   a.Exfoliate,
		"makeup":      a.Makeup,
	}
	if len(a.Concerns) > 0 {
		values["concerns"] = a.Concerns
	}
	if a.Allergies != "" {
		values["allergies"] = a.Allergies
	}
	if a.Medication != "" {
		values["medication"] = a.Medication
	}
	return values
}

// Validate checks the answers against the embedded schema.
func (a Answers) Validate() error {
	schema, err := Default()
	if err != nil {
		return err
	}
	return schema.Validate(a.Values())
}
