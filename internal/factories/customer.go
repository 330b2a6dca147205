// Package factories generates fake customers and mixes for the order simulator.
package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/freshmix/internal/models"
)

type CustomerFactory struct {
	fake faker.Faker
}

func NewCustomerFactory(seed int64) *CustomerFactory {
	return &CustomerFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// CreateCustomer returns details that pass checkout validation.
func (cf *CustomerFactory) CreateCustomer() models.CustomerDetails {
	cities := models.Cities()
	city := cities[cf.fake.IntBetween(0, len(cities)-1)]

	var notes string
	if cf.fake.IntBetween(0, 3) == 0 {
		notes = cf.fake.Lorem().Sentence(6)
	}

	return models.CustomerDetails{
		Name:          cf.fake.Person().Name(),
		Phone:         cf.fake.Numerify("+212 6## ## ## ##"),
		City:          city,
		Address:       cf.fake.Address().StreetAddress(),
		Notes:         notes,
		PaymentMethod: cf.fake.RandomStringElement([]string{models.PaymentCashOnDelivery, models.PaymentCard}),
	}
}
