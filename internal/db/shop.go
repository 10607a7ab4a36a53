package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/models"
)

func CreateProduct(ctx context.Context, database *sql.DB, p *models.Product) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO products (name, description, image, price, original_price, quantity, category)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		p.Name, p.Description, p.Image, p.Price, p.OriginalPrice, p.Quantity, p.Category,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func GetProductByID(ctx context.Context, database *sql.DB, id int64) (*models.Product, error) {
	var p models.Product
	err := database.QueryRowContext(ctx, `
SELECT id, name, description, image, price, original_price, quantity, category
FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.OriginalPrice, &p.Quantity, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProduct(ctx context.Context, database *sql.DB, p *models.Product) error {
	res, err := database.ExecContext(ctx, `
UPDATE products
SET name = $1, description = $2, image = $3, price = $4, original_price = $5, quantity = $6, category = $7
WHERE id = $8`,
		p.Name, p.Description, p.Image, p.Price, p.OriginalPrice, p.Quantity, p.Category, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteProduct(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts; при inStockOnly отдаём только то, что есть на складе —
// витрина ученика не показывает распроданное.
func ListProducts(ctx context.Context, database *sql.DB, inStockOnly bool) ([]models.Product, error) {
	query := `SELECT id, name, description, image, price, original_price, quantity, category FROM products`
	if inStockOnly {
		query += ` WHERE quantity > 0`
	}
	query += ` ORDER BY id`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.OriginalPrice, &p.Quantity, &p.Category); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCategories — категории выводятся из самих товаров, отдельного
// справочника нет.
func ListCategories(ctx context.Context, database *sql.DB) ([]string, error) {
	rows, err := database.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Purchase — покупка одной единицы товара. Списание со склада, списание
// баланса и создание заказа выполняются в одной транзакции; оба UPDATE
// условные, поэтому гонка за последнюю единицу оставляет ровно одного
// победителя и не уводит остаток в минус.
func Purchase(ctx context.Context, database *sql.DB, studentID, productID int64) (newBalance int, orderID int64, err error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var price int
	err = tx.QueryRowContext(ctx,
		`UPDATE products SET quantity = quantity - 1 WHERE id = $1 AND quantity >= 1 RETURNING price`,
		productID,
	).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		if _, gerr := GetProductByID(ctx, database, productID); gerr != nil {
			return 0, 0, gerr
		}
		return 0, 0, ErrOutOfStock
	}
	if err != nil {
		return 0, 0, fmt.Errorf("decrement stock: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1 RETURNING points`,
		price, studentID,
	).Scan(&newBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrInsufficientPoints
	}
	if err != nil {
		return 0, 0, fmt.Errorf("charge balance: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (student_id, product_id, quantity, status) VALUES ($1, $2, 1, 'pending') RETURNING id`,
		studentID, productID,
	).Scan(&orderID)
	if err != nil {
		return 0, 0, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return newBalance, orderID, nil
}

// CancelOrder — компенсация покупки: возврат баланса и склада плюс
// перевод заказа в cancelled, одной транзакцией. Срабатывает только из
// pending; повторная отмена ничего не возвращает.
func CancelOrder(ctx context.Context, database *sql.DB, orderID int64) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var studentID, productID int64
	var quantity int
	err = tx.QueryRowContext(ctx, `
UPDATE orders SET status = 'cancelled'
WHERE id = $1 AND status = 'pending'
RETURNING student_id, product_id, quantity`,
		orderID,
	).Scan(&studentID, &productID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		if _, gerr := GetOrderByID(ctx, database, orderID); gerr != nil {
			return gerr
		}
		return ErrOrderNotPending
	}
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	var price int
	if err := tx.QueryRowContext(ctx, `SELECT price FROM products WHERE id = $1`, productID).Scan(&price); err != nil {
		return fmt.Errorf("order product: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points + $1 WHERE id = $2`,
		price*quantity, studentID); err != nil {
		return fmt.Errorf("refund balance: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET quantity = quantity + $1 WHERE id = $2`,
		quantity, productID); err != nil {
		return fmt.Errorf("restock: %w", err)
	}
	return tx.Commit()
}

// CompleteOrder помечает заказ выданным. Никаких движений по складу и
// балансу, из терминальных статусов не вызывается.
func CompleteOrder(ctx context.Context, database *sql.DB, orderID int64) error {
	res, err := database.ExecContext(ctx,
		`UPDATE orders SET status = 'completed' WHERE id = $1 AND status = 'pending'`, orderID)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		if _, gerr := GetOrderByID(ctx, database, orderID); gerr != nil {
			return gerr
		}
		return ErrOrderNotPending
	}
	return nil
}

const orderColumns = `
o.id, o.student_id, o.product_id, o.quantity, o.status, o.created_at,
COALESCE(s.first_name || ' ' || s.last_name, ''), p.name, p.price`

func GetOrderByID(ctx context.Context, database *sql.DB, id int64) (*models.Order, error) {
	row := database.QueryRowContext(ctx, `
SELECT `+orderColumns+`
FROM orders o
JOIN users s ON s.id = o.student_id
JOIN products p ON p.id = o.product_id
WHERE o.id = $1`, id)

	var o models.Order
	err := row.Scan(&o.ID, &o.StudentID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt, &o.StudentName, &o.ProductName, &o.ProductPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func ListOrders(ctx context.Context, database *sql.DB) ([]models.Order, error) {
	rows, err := database.QueryContext(ctx, `
SELECT `+orderColumns+`
FROM orders o
JOIN users s ON s.id = o.student_id
JOIN products p ON p.id = o.product_id
ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.StudentID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt, &o.StudentName, &o.ProductName, &o.ProductPrice); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
