package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fleet-rental-pricing/internal/domain"
)

// Document is the batch input: the car catalog, the rentals to price and
// the modifications to replay once the initial payments are issued.
type Document struct {
	Cars          []domain.CarRequest    `json:"cars"`
	Rentals       []domain.RentalRequest `json:"rentals"`
	Modifications []domain.Adjustment    `json:"rental_modifications"`
}

// Decode reads a Document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode batch input: %w", err)
	}
	return &doc, nil
}

// LoadFile reads a Document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch input: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
