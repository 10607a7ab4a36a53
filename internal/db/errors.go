package db

import "errors"

// Бизнес-отказы. Хендлеры различают их через errors.Is и показывают
// пользователю конкретное сообщение; всё остальное — ошибка хранилища.
var (
	ErrNotFound           = errors.New("запись не найдена")
	ErrInsufficientPoints = errors.New("недостаточно баллов")
	ErrOutOfStock         = errors.New("товар закончился")
	ErrOrderNotPending    = errors.New("заказ уже обработан")
	ErrUsernameTaken      = errors.New("логин уже занят")
)
