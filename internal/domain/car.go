package domain

// CarRequest is the unvalidated shape of a car record. Nil fields are missing.
type CarRequest struct {
	ID          *int64 `json:"id"`
	PricePerDay *int64 `json:"price_per_day"`
	PricePerKm  *int64 `json:"price_per_km"`
}

// Car is a rentable vehicle. Prices are in minor currency units.
// A Car is never mutated after NewCar returns; rentals share it by pointer.
type Car struct {
	ID          int64 `json:"id"`
	PricePerDay int64 `json:"price_per_day"`
	PricePerKm  int64 `json:"price_per_km"`
}

// Complete reports whether every required field is present.
func (r CarRequest) Complete() bool {
	return r.ID != nil && r.PricePerDay != nil && r.PricePerKm != nil
}

func NewCar(req CarRequest) (*Car, error) {
	switch {
	case req.ID == nil:
		return nil, missingField("car", "id")
	case req.PricePerDay == nil:
		return nil, missingField("car", "price_per_day")
	case req.PricePerKm == nil:
		return nil, missingField("car", "price_per_km")
	}
	if *req.PricePerDay < 0 || *req.PricePerKm < 0 {
		return nil, NewDomainError("car", *req.ID, ErrNegativePrice)
	}
	return &Car{
		ID:          *req.ID,
		PricePerDay: *req.PricePerDay,
		PricePerKm:  *req.PricePerKm,
	}, nil
}
