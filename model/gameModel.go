// model/game.go
package model

type Game struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	StockTotal  int64  `json:"stockTotal"`
	PricePerDay int64  `json:"pricePerDay"`
}
