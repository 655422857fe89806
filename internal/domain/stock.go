package domain

// StockStatus mirrors the catalog's stock status values.
type StockStatus string

// Visibility mirrors the catalog's product visibility values.
type Visibility string

const (
	StockInStock    StockStatus = "instock"
	StockOutOfStock StockStatus = "outofstock"

	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// StockState is the full set of fields driven by quantity.
type StockState struct {
	Quantity   int
	Status     StockStatus
	Visibility Visibility
	PostStatus string
}

// StockStateFor derives the stock state from a quantity. Zero and below are out of stock.
func StockStateFor(quantity int) StockState {
	if quantity > 0 {
		return StockState{
			Quantity:   quantity,
			Status:     StockInStock,
			Visibility: VisibilityVisible,
			PostStatus: StatusPublish,
		}
	}
	return StockState{
		Quantity:   0,
		Status:     StockOutOfStock,
		Visibility: VisibilityHidden,
		PostStatus: StatusDraft,
	}
}
