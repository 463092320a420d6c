package jobcards

// CreateJobCardRequest is the payload for registering a new job card.
type CreateJobCardRequest struct {
	Reference    string  `json:"reference" validate:"required,max=32"`
	ExporterName string  `json:"exporterName" validate:"required,max=128"`
	MineralType  string  `json:"mineralType" validate:"required,oneof=gold silver diamond bauxite manganese"`
	WeightKg     float64 `json:"weightKg" validate:"required,gt=0"`
	LargeScale   bool    `json:"largeScale"`
}

// UpdateJobCardRequest is the payload for amending a job card.
type UpdateJobCardRequest struct {
	ExporterName string  `json:"exporterName" validate:"omitempty,max=128"`
	MineralType  string  `json:"mineralType" validate:"omitempty,oneof=gold silver diamond bauxite manganese"`
	WeightKg     float64 `json:"weightKg" validate:"omitempty,gt=0"`
	Status       Status  `json:"status" validate:"omitempty,oneof=OPEN VALUED SEALED INVOICED"`
}

// ListFilter narrows job card listings.
type ListFilter struct {
	LargeScale *bool
	Status     Status
	Page       int
	PageSize   int
}
