package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

// ErrStaleAttempt возвращается, когда завершается попытка входа,
// которая уже не является последней начатой. Её результат отбрасывается,
// состояние сессии не меняется.
var ErrStaleAttempt = errors.New("stale auth attempt")

// Manager реализует машину состояний одной сессии:
//
//	Unauthenticated(loading=true) → Restore → Unauthenticated(loading=false)
//	                                        | Authenticated(user, loading=false)
//	Authenticated → Logout → Unauthenticated
//
// Вход и регистрация перезаписывают текущего пользователя. Каждая попытка
// входа помечается монотонно возрастающим номером: завершение устаревшей
// попытки отбрасывается, поэтому при двух конкурентных входах побеждает
// последняя начатая попытка, а не последняя завершившаяся.
type Manager struct {
	store Store
	key   string
	ttl   time.Duration

	mu          sync.Mutex
	user        *models.AuthUser
	loading     bool
	attemptSeq  uint64
	lastAttempt uint64
}

// NewManager создает менеджер сессии с указанным ключом записи.
// До вызова Restore сессия находится в состоянии loading.
func NewManager(store Store, key string, ttl time.Duration) *Manager {
	return &Manager{
		store:   store,
		key:     key,
		ttl:     ttl,
		loading: true,
	}
}

// Key возвращает ключ записи сессии.
func (m *Manager) Key() string { return m.key }

// Current возвращает текущего пользователя и признак загрузки.
// Пока loading равен true, никакие решения о доступе приниматься не должны.
func (m *Manager) Current() (*models.AuthUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.loading
}

// Restore читает сохранённую запись сессии и загружает пользователя
// в память без повторной проверки на сервере. Повреждённая запись
// удаляется, сессия остаётся неаутентифицированной — ошибка наружу
// не поднимается. По завершении loading всегда сбрасывается.
func (m *Manager) Restore(ctx context.Context) {
	data, found, err := m.store.Get(ctx, m.key)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if err != nil || !found {
		m.user = nil
		return
	}

	var user models.AuthUser
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		m.user = nil
		_ = m.store.Delete(ctx, m.key)
		return
	}
	m.user = &user
}

// Begin регистрирует новую попытку входа и возвращает её номер.
// Завершить сессию сможет только попытка с последним выданным номером.
func (m *Manager) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attemptSeq++
	m.lastAttempt = m.attemptSeq
	return m.attemptSeq
}

// Complete фиксирует успешный вход для попытки attempt. Запись сессии
// сохраняется до изменения состояния в памяти: при ошибке записи сессия
// остаётся (или становится) неаутентифицированной — частично
// установленной сессии не бывает.
func (m *Manager) Complete(ctx context.Context, attempt uint64, user *models.AuthUser) error {
	const op = "session.Complete"

	m.mu.Lock()
	if attempt != m.lastAttempt {
		m.mu.Unlock()
		return ErrStaleAttempt
	}
	m.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		m.Fail(ctx, attempt)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.store.Set(ctx, m.key, data, m.ttl); err != nil {
		m.Fail(ctx, attempt)
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Повторная проверка: пока шла запись, могла начаться новая попытка.
	if attempt != m.lastAttempt {
		return ErrStaleAttempt
	}
	m.user = user
	m.loading = false
	return nil
}

// Fail фиксирует неуспешный вход для попытки attempt: состояние сессии
// очищается, запись удаляется. Устаревшая попытка игнорируется.
func (m *Manager) Fail(ctx context.Context, attempt uint64) {
	m.mu.Lock()
	if attempt != m.lastAttempt {
		m.mu.Unlock()
		return
	}
	m.user = nil
	m.loading = false
	m.mu.Unlock()

	_ = m.store.Delete(ctx, m.key)
}

// Logout безусловно переводит сессию в неаутентифицированное состояние.
// Операция не может завершиться неуспехом: память очищается всегда,
// удаление записи из хранилища — по возможности.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.loading = false
	m.mu.Unlock()

	_ = m.store.Delete(ctx, m.key)
}
