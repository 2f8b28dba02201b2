package domain

import (
	"time"

	"github.com/google/uuid"
)

// PizzaSize is the closed set of pizza sizes. Matching is case-sensitive.
type PizzaSize string

const (
	PizzaSizeSmall  PizzaSize = "Small"
	PizzaSizeMedium PizzaSize = "Medium"
	PizzaSizeLarge  PizzaSize = "Large"
)

// ToppingType is the closed set of supported toppings.
type ToppingType string

const (
	ToppingTypeCheese    ToppingType = "Cheese"
	ToppingTypePepperoni ToppingType = "Pepperoni"
	ToppingTypeHam       ToppingType = "Ham"
	ToppingTypeMushrooms ToppingType = "Mushrooms"
	ToppingTypePineapple ToppingType = "Pineapple"
)

// ToppingAmount is the closed set of topping quantities.
type ToppingAmount string

const (
	ToppingAmountLight  ToppingAmount = "Light"
	ToppingAmountNormal ToppingAmount = "Normal"
	ToppingAmountExtra  ToppingAmount = "Extra"
)

type Topping struct {
	Type   ToppingType
	Amount ToppingAmount
}

type Pizza struct {
	Size     PizzaSize
	Toppings []Topping
}

// Order is the resource exposed over HTTP. The identifier is supplied by
// the client in the request path and never generated server-side. An
// order holds at least one pizza; wholesale replacement is the only
// mutation.
type Order struct {
	ID         uuid.UUID
	Pizzas     []Pizza
	PickupTime time.Time
}
