package models

import "time"

type Product struct {
	ID            int64   `db:"id"`
	Name          string  `db:"name"`
	Description   *string `db:"description"`
	Image         *string `db:"image"`
	Price         int     `db:"price"`
	OriginalPrice int     `db:"original_price"`
	Quantity      int     `db:"quantity"`
	Category      string  `db:"category"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        int64       `db:"id"`
	StudentID int64       `db:"student_id"`
	ProductID int64       `db:"product_id"`
	Quantity  int         `db:"quantity"`
	Status    OrderStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`

	// Данные для списков заказов, подтягиваются join-ом.
	StudentName  string
	ProductName  string
	ProductPrice int
}
