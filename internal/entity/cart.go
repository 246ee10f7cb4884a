package entity

// CartItem references a product by id only; the reference is soft and may
// dangle once the product is deleted.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
