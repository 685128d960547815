package models

// Species values stored on a pet listing
const (
	SpeciesDog    = "dog"
	SpeciesCat    = "cat"
	SpeciesBird   = "bird"
	SpeciesFish   = "fish"
	SpeciesRodent = "rodent"
	SpeciesOther  = "other"
)

// Gender values stored on a pet listing
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Interaction types (first decision is final)
const (
	InteractionTypeLike = "like"
	InteractionTypePass = "pass"
)

// Match request statuses
const (
	StatusPending  = "pending"
	StatusMatched  = "matched"
	StatusDeclined = "declined"
)

// User roles
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Canned conversation previews set when a match is provisioned
const (
	PreviewMatched      = "Eşleştiniz! Sohbeti başlatın."
	PreviewMutualMatch  = "Eşleşme isteği karşılıklı! Sohbete başlayın."
	PreviewFirstMessage = "Eşleşme sağlandı! İlk mesajı gönderin."
)
