package domain

// Customer holds the contact details collected before the questionnaire.
type Customer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

// Address is a shipping address.
type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// Order is the body sent to the checkout backend once the questionnaire is submitted.
// Payment is the tokenized gateway payload and is passed through untouched.
type Order struct {
	SessionKey    string         `json:"sessionKey"`
	OfferingID    string         `json:"offeringId"`
	Customer      *Customer      `json:"customer"`
	Shipping      *Address       `json:"shipping"`
	Payment       map[string]any `json:"payment"`
	Questionnaire Payload        `json:"questionnaire"`
}
