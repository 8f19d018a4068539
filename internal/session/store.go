// Package session реализует хранение и жизненный цикл сессии пользователя.
//
// Store отвечает за персистентное хранение сериализованного AuthUser
// под одним непрозрачным ключом: отсутствие записи означает, что сессия
// не аутентифицирована. Manager поверх Store реализует машину состояний
// сессии: восстановление при старте, вход, выход и защиту от гонок
// конкурентных попыток входа.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/caseconnect/casetracker/internal/cache"
)

// Store описывает персистентное хранилище записей сессии.
// Запись — это сериализованный в JSON канонический AuthUser.
type Store interface {
	// Get возвращает запись сессии по ключу; false — записи нет.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет запись сессии с временем жизни.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete удаляет запись сессии. Удаление отсутствующего ключа — не ошибка.
	Delete(ctx context.Context, key string) error
}

const redisKeyPrefix = "session:"

// RedisStore хранит записи сессий в redis. Записи сессий пишут только
// операции входа, регистрации и выхода — другие компоненты ключ не трогают.
type RedisStore struct {
	cache *cache.Cache
}

// NewRedisStore создает новый экземпляр RedisStore поверх общего кеша.
func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

// Get возвращает запись сессии по ключу.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "session.RedisStore.Get"
	var raw json.RawMessage
	found, err := s.cache.Get(ctx, redisKeyPrefix+key, &raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set сохраняет запись сессии с временем жизни.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	const op = "session.RedisStore.Set"
	if err := s.cache.Set(ctx, redisKeyPrefix+key, json.RawMessage(data), ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет запись сессии.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	const op = "session.RedisStore.Delete"
	if err := s.cache.Invalidate(ctx, redisKeyPrefix+key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MemoryStore хранит записи сессий в памяти процесса.
// Используется в тестах как подмена RedisStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore создает новый экземпляр MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get возвращает запись сессии по ключу.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

// Set сохраняет запись сессии. TTL в памяти не отслеживается.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.entries[key] = cp
	return nil
}

// Delete удаляет запись сессии.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
