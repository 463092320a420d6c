// Package jobcards manages assay job cards for mineral export shipments.
package jobcards

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks a job card through the export workflow.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusValued   Status = "VALUED"
	StatusSealed   Status = "SEALED"
	StatusInvoiced Status = "INVOICED"
)

// JobCard represents one shipment lot presented for assay.
type JobCard struct {
	ID           uuid.UUID `json:"id"`
	Reference    string    `json:"reference"`
	ExporterName string    `json:"exporterName"`
	MineralType  string    `json:"mineralType"`
	WeightKg     float64   `json:"weightKg"`
	LargeScale   bool      `json:"largeScale"`
	Status       Status    `json:"status"`
	AssayerID    int64     `json:"assayerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
