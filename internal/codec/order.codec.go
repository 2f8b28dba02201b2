// Package codec converts orders to and from their JSON wire documents.
// Decoding validates applicatively: every field failure is collected
// into one InvalidJsonBody error instead of stopping at the first.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/joshuarp/orders-api/internal/apierr"
	"github.com/joshuarp/orders-api/internal/domain"
)

type orderDocument struct {
	ID         string          `json:"id,omitempty"`
	Pizzas     []pizzaDocument `json:"pizzas" validate:"required,min=1,dive"`
	PickupTime string          `json:"pickupTime" validate:"required"`
}

type pizzaDocument struct {
	Size     string            `json:"size" validate:"required,oneof=Small Medium Large"`
	Toppings []toppingDocument `json:"toppings" validate:"dive"`
}

type toppingDocument struct {
	Type   string `json:"type" validate:"required,oneof=Cheese Pepperoni Ham Mushrooms Pineapple"`
	Amount string `json:"amount" validate:"required,oneof=Light Normal Extra"`
}

type OrderCodec struct {
	validate *validator.Validate
}

func NewOrderCodec() *OrderCodec {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report wire field names (json tags) instead of Go field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &OrderCodec{validate: validate}
}

// Decode parses and validates a request body against the order schema.
// The path identifier is authoritative; a body id, when present, must
// match it. An invalid pathID (route identifier failed to parse, and is
// reported separately) skips the match while the rest of body
// validation still runs. All validation failures come back as details
// of a single InvalidJsonBody error.
func (c *OrderCodec) Decode(pathID uuid.NullUUID, body []byte) (domain.Order, *apierr.Error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return domain.Order{}, apierr.InvalidJSONBody("request body is required")
	}

	var doc orderDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.Order{}, apierr.InvalidJSONBody("request body failed validation",
				apierr.Detail(apierr.CodeInvalidJsonBody,
					fmt.Sprintf("%s has invalid type (expected %s)", typeErr.Field, typeErr.Type)))
		}
		return domain.Order{}, apierr.InvalidJSONBody("request body is not valid JSON")
	}

	var details []*apierr.Error

	if err := c.validate.Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.Order{}, apierr.InvalidJSONBody("request body failed validation")
		}
		for _, fieldErr := range fieldErrs {
			details = append(details, apierr.Detail(apierr.CodeInvalidJsonBody, fieldErrorMessage(fieldErr)))
		}
	}

	pickupTime, timeErr := time.Parse(time.RFC3339, doc.PickupTime)
	if doc.PickupTime != "" && timeErr != nil {
		details = append(details, apierr.Detail(apierr.CodeInvalidJsonBody,
			fmt.Sprintf("pickupTime %q is not a valid RFC 3339 timestamp", doc.PickupTime)))
	}

	if doc.ID != "" && pathID.Valid && doc.ID != pathID.UUID.String() {
		details = append(details, apierr.Detail(apierr.CodeInvalidJsonBody,
			"id in body does not match id in path"))
	}

	if len(details) > 0 {
		return domain.Order{}, apierr.InvalidJSONBody("request body failed validation", details...)
	}

	pizzas := make([]domain.Pizza, 0, len(doc.Pizzas))
	for _, pizza := range doc.Pizzas {
		toppings := make([]domain.Topping, 0, len(pizza.Toppings))
		for _, topping := range pizza.Toppings {
			toppings = append(toppings, domain.Topping{
				Type:   domain.ToppingType(topping.Type),
				Amount: domain.ToppingAmount(topping.Amount),
			})
		}
		pizzas = append(pizzas, domain.Pizza{
			Size:     domain.PizzaSize(pizza.Size),
			Toppings: toppings,
		})
	}

	return domain.Order{ID: pathID.UUID, Pizzas: pizzas, PickupTime: pickupTime}, nil
}

// Encode serializes an order as its complete wire document. Projection
// and eTag embedding happen downstream.
func (c *OrderCodec) Encode(order domain.Order) map[string]any {
	pizzas := make([]any, 0, len(order.Pizzas))
	for _, pizza := range order.Pizzas {
		toppings := make([]any, 0, len(pizza.Toppings))
		for _, topping := range pizza.Toppings {
			toppings = append(toppings, map[string]any{
				"type":   string(topping.Type),
				"amount": string(topping.Amount),
			})
		}
		pizzas = append(pizzas, map[string]any{
			"size":     string(pizza.Size),
			"toppings": toppings,
		})
	}

	return map[string]any{
		"id":         order.ID.String(),
		"pizzas":     pizzas,
		"pickupTime": order.PickupTime.Format(time.RFC3339Nano),
	}
}

func fieldErrorMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Namespace()
	if dot := strings.Index(field, "."); dot >= 0 {
		field = field[dot+1:]
	}

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s has unsupported value %q (must be one of %s)",
			field, fieldErr.Value(), strings.Join(strings.Fields(fieldErr.Param()), ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
