// model/rental.go
package model

type Rental struct {
	ID            int64 `json:"id"`
	CustomerID    int64 `json:"customerId"`
	GameID        int64 `json:"gameId"`
	RentDate      Date  `json:"rentDate"`
	DaysRented    int64 `json:"daysRented"`
	ReturnDate    *Date `json:"returnDate"`
	OriginalPrice int64 `json:"originalPrice"`
	DelayFee      int64 `json:"delayFee"`
}

// Active reports whether the rental is still out. A nil return date is
// the only thing that distinguishes an active rental from a finished one.
func (r *Rental) Active() bool { return r.ReturnDate == nil }
