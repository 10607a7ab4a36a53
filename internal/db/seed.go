package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/auth"
	"github.com/Spok95/school-rewards-web/internal/models"
)

// Seed создаёт стартовые данные: администратора, группы, демо-аккаунты,
// товары, причины начисления и советы. Повторный запуск ничего не
// дублирует.
func Seed(ctx context.Context, database *sql.DB) error {
	if err := seedAdmin(ctx, database); err != nil {
		return err
	}
	if err := seedGroups(ctx, database); err != nil {
		return err
	}
	if err := seedDemoUsers(ctx, database); err != nil {
		return err
	}
	if err := seedProducts(ctx, database); err != nil {
		return err
	}
	if err := seedRewardReasons(ctx, database); err != nil {
		return err
	}
	return seedTips(ctx, database)
}

func seedAdmin(ctx context.Context, database *sql.DB) error {
	var exists bool
	if err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = 'admin')`).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	_, err = CreateUser(ctx, database, &models.User{
		Username:     "admin",
		PasswordHash: hash,
		FirstName:    "Администратор",
		LastName:     "Алгоритмики",
		Role:         models.Admin,
	})
	return err
}

func seedGroups(ctx context.Context, database *sql.DB) error {
	names := []string{
		"Компьютерная грамотность",
		"Визуальное программирование",
		"Геймдизайн",
		"Создание сайтов",
		"Python Start",
		"Python Pro",
	}
	for _, name := range names {
		_, err := database.ExecContext(ctx, `
INSERT INTO groups (name)
SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM groups WHERE name = $1)`, name)
		if err != nil {
			return fmt.Errorf("seed group %q: %w", name, err)
		}
	}
	return nil
}

func seedDemoUsers(ctx context.Context, database *sql.DB) error {
	demo := []struct {
		username, password, first, last string
		role                            models.Role
		group                           string
		points                          int
	}{
		{"teacher", "teacher123", "Иван", "Преподавателев", models.Teacher, "", 0},
		{"student1", "student123", "Алексей", "Учеников", models.Student, "Компьютерная грамотность", 100},
		{"student2", "student123", "Мария", "Ученикова", models.Student, "Визуальное программирование", 150},
	}
	for _, d := range demo {
		var exists bool
		if err := database.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, d.username).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		hash, err := auth.HashPassword(d.password)
		if err != nil {
			return err
		}
		var groupID *int64
		if d.group != "" {
			var id int64
			if err := database.QueryRowContext(ctx,
				`SELECT id FROM groups WHERE name = $1`, d.group).Scan(&id); err == nil {
				groupID = &id
			}
		}
		pw := d.password
		if _, err := CreateUser(ctx, database, &models.User{
			Username:        d.username,
			PasswordHash:    hash,
			VisiblePassword: &pw,
			FirstName:       d.first,
			LastName:        d.last,
			Role:            d.role,
			GroupID:         groupID,
			Points:          d.points,
			EarnedPoints:    d.points,
		}); err != nil {
			return fmt.Errorf("seed user %q: %w", d.username, err)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	products := []struct {
		name, description, category string
		price, quantity             int
	}{
		{"Фирменная футболка Алгоритмика", "Качественная хлопковая футболка с логотипом школы", "Одежда", 200, 10},
		{"Кружка с логотипом", "Керамическая кружка объемом 350 мл", "Сувениры", 150, 15},
		{"Блокнот программиста", "Блокнот в твердой обложке, 100 листов", "Канцелярия", 100, 20},
		{"Набор стикеров", "Набор стикеров с персонажами Алгоритмики", "Сувениры", 50, 30},
	}
	for _, p := range products {
		desc := p.description
		if _, err := CreateProduct(ctx, database, &models.Product{
			Name:          p.name,
			Description:   &desc,
			Price:         p.price,
			OriginalPrice: p.price,
			Quantity:      p.quantity,
			Category:      p.category,
		}); err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}
	return nil
}

func seedRewardReasons(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM reward_reasons`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	reasons := []struct {
		reason string
		points int
	}{
		{"Посещение урока", 10},
		{"Пунктуальность", 5},
		{"Ответы на вопросы", 10},
		{"Выполнение заданий на уроке", 10},
		{"Домашнее задание", 10},
		{"Индивидуальный проект", 10},
	}
	for i, r := range reasons {
		if _, err := database.ExecContext(ctx,
			`INSERT INTO reward_reasons (reason, points, sort_order) VALUES ($1, $2, $3)`,
			r.reason, r.points, i+1); err != nil {
			return fmt.Errorf("seed reward reason %q: %w", r.reason, err)
		}
	}
	return nil
}

func seedTips(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM tips`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if _, err := database.ExecContext(ctx,
			`INSERT INTO tips (title, content) VALUES ($1, $2)`,
			"Как получить больше баллов?",
			"Регулярно посещай уроки, приходи вовремя, выполняй задания и помогай другим ученикам."); err != nil {
			return err
		}
	}

	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM tip_items`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	items := []struct {
		reason string
		points int
	}{
		{"Регулярное посещение уроков", 10},
		{"Пунктуальность", 5},
		{"Активная работа на уроке", 10},
		{"Выполнение домашних заданий", 10},
		{"Участие в проектах", 15},
		{"Помощь другим ученикам", 10},
	}
	for _, it := range items {
		if _, err := CreateTipItem(ctx, database, it.reason, it.points); err != nil {
			return err
		}
	}
	return nil
}
