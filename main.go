package main

import (
	"github.com/joshuarp/orders-api/internal/app"
)

func main() {
	app.New(app.OrdersModule()).Run()
}
