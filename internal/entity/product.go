package entity

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Features    []string  `json:"features"`
	ImageURL    string    `json:"imageUrl"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

/*
Stored as JSON records in the "products" collection:

{
  "id": "product-1",
  "name": "Conta Roblox Básica",
  "price": 19.9,
  "features": ["100 Robux", "Email Verificado"],
  "stock": 5,
  ...
}
*/
