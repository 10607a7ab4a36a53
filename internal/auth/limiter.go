package auth

import "sync"

// LoginLimiter сериализует проверки пароля по логину, чтобы два
// одновременных запроса на один аккаунт не шли в bcrypt параллельно.
type LoginLimiter struct {
	mu    sync.Mutex
	byKey map[string]*sync.Mutex
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{byKey: make(map[string]*sync.Mutex)}
}

// Lock возвращает функцию разблокировки для данного логина.
func (l *LoginLimiter) Lock(username string) func() {
	l.mu.Lock()
	m, ok := l.byKey[username]
	if !ok {
		m = &sync.Mutex{}
		l.byKey[username] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
