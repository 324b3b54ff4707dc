package game

type CreateGameReq struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image" validate:"required,startswith=http"`
	StockTotal  int64  `json:"stockTotal" validate:"required,gt=0"`
	PricePerDay int64  `json:"pricePerDay" validate:"required,gt=0"`
}
