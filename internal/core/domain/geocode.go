package domain

// GeocodeResult - найденный адрес с координатами
type GeocodeResult struct {
	DisplayName string
	Coordinates Coordinates
	Address     AddressDetails
}

// AddressDetails - разобранные части адреса
type AddressDetails struct {
	Street     string
	City       string
	Region     string
	Country    string
	PostalCode string
}

// ToLocation переносит результат геокодирования в шаг "Расположение"
func (r GeocodeResult) ToLocation() Location {
	address := r.Address.Street
	if address == "" {
		address = r.DisplayName
	}
	return Location{
		Region:      r.Address.Region,
		City:        r.Address.City,
		Address:     address,
		PostalCode:  r.Address.PostalCode,
		Country:     r.Address.Country,
		Coordinates: r.Coordinates,
	}
}
