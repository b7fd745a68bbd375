package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore 会话与Token黑名单的内存实现
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Time
	now       func() time.Time
}

// NewSessionStore 创建会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

// SaveSession 保存会话，内存实现不做过期
func (s *SessionStore) SaveSession(ctx context.Context, memberID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[memberID] = data
	return nil
}

// DeleteSession 删除会话
func (s *SessionStore) DeleteSession(ctx context.Context, memberID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, memberID)
	return nil
}

// AddToBlacklist 将Token加入黑名单，ttl后自动失效
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
