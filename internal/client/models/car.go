package models

type Car struct {
	ID           string   `json:"_id"`
	ModelName    string   `json:"modelName"`
	Brand        string   `json:"brand"`
	Color        string   `json:"color"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuelType"`
	Description  string   `json:"description"`
	AirCondition bool     `json:"airCondition"`
	PricePerDay  float64  `json:"pricePerDay"`
	// Available is server-derived from lease state. The console only mirrors
	// it, never computes it.
	Available  bool     `json:"available"`
	Images     []string `json:"images"`
	BrandImage string   `json:"brandImage"`
}

type CarList struct {
	Cars []Car `json:"cars"`
}

// Remove returns a copy of the list without the car with the given id.
func (l CarList) Remove(id string) CarList {
	out := CarList{Cars: make([]Car, 0, len(l.Cars))}
	for _, c := range l.Cars {
		if c.ID != id {
			out.Cars = append(out.Cars, c)
		}
	}
	return out
}

// CarCount is the aggregate returned by /totalCars.
type CarCount struct {
	Cars int `json:"cars"`
}

// CarDetails wraps the single-car detail response.
type CarDetails struct {
	Car Car `json:"carDetails"`
}
