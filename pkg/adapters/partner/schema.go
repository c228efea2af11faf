package partner

import "encoding/json"

// Question types used by the backend.
const (
	TypeSingleOption   = "singleOption"
	TypeMultipleOption = "multipleOption"
	TypeText           = "text"
	TypeString         = "string"
	TypeFile           = "file"
)

// SessionConfig is the response of the session endpoint.
// Company and Offering are passed through untouched for the Render Layer.
type SessionConfig struct {
	Company       json.RawMessage `json:"company,omitempty"`
	Offering      *Offering       `json:"offering,omitempty"`
	Questionnaire *Questionnaire  `json:"questionnaire,omitempty"`
}

// Offering is the product being checked out. Only the variant ID is
// needed to place the order.
type Offering struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"offeringName,omitempty"`
	Variant *OfferingVariant `json:"variant,omitempty"`
}

// OfferingVariant identifies the purchasable variant of an offering.
type OfferingVariant struct {
	ID string `json:"id"`
}

// Questionnaire is the backend's questionnaire document.
type Questionnaire struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Question is a question in the backend schema.
type Question struct {
	ID          string   `json:"partnerQuestionnaireQuestionId"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Label       *string  `json:"label"`
	Placeholder *string  `json:"placeholder"`
	IsOptional  bool     `json:"isOptional"`
	IsVisible   bool     `json:"isVisible"`
	Order       int      `json:"order"`
	Type        string   `json:"type"`
	Options     []Option `json:"options"`
	Rules       []Rule   `json:"rules"`
}

// Option is a choice in the backend schema. Option carries the submitted value.
type Option struct {
	ID     string `json:"partnerQuestionnaireQuestionOptionId"`
	Title  string `json:"title"`
	Option string `json:"option"`
	Order  int    `json:"order"`
}

// Rule gates a question's visibility.
type Rule struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Type         string        `json:"type"`
	Requirements []Requirement `json:"requirements"`
}

// Requirement holds when RequiredQuestionID was answered with RequiredAnswer.
type Requirement struct {
	BasedOn            string `json:"basedOn"`
	RequiredQuestionID string `json:"requiredQuestionId"`
	RequiredAnswer     string `json:"requiredAnswer"`
}
