package domain

import (
	"fmt"
	"time"
)

// BikeType тип велосипеда, выбираемый на первом шаге виджета
type BikeType string

const (
	BikeCity  BikeType = "city"
	BikeRoad  BikeType = "road"
	BikeMTB   BikeType = "mtb"
	BikeCargo BikeType = "cargo"
	BikeE     BikeType = "ebike"
	BikeKids  BikeType = "kids"
)

// IsValid returns true if the bike type is known
func (t BikeType) IsValid() bool {
	switch t {
	case BikeCity, BikeRoad, BikeMTB, BikeCargo, BikeE, BikeKids:
		return true
	}
	return false
}

// Customer клиент, идентифицируется по номеру телефона
type Customer struct {
	ID        int64
	Phone     string
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bike велосипед клиента
type Bike struct {
	ID         int64
	CustomerID int64
	Nickname   string
	BikeType   BikeType
	CreatedAt  time.Time
}

// BikeNickname имя велосипеда вида "cargo #2", number начинается с 1
func BikeNickname(bikeType BikeType, number int) string {
	if number < 1 {
		number = 1
	}
	return fmt.Sprintf("%s #%d", bikeType, number)
}

// RepairService услуга из каталога мастерской
type RepairService struct {
	ID       int64
	Slug     string
	Name     string
	PriceOre int64
	IsActive bool
}

// TotalPrice сумма цен услуг в эре
func TotalPrice(services []RepairService) int64 {
	var total int64
	for _, s := range services {
		total += s.PriceOre
	}
	return total
}
