package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"carfinder-be/internal/entity"
	"carfinder-be/internal/repository/contract"
	"carfinder-be/internal/repository/specification"
	"carfinder-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository fakes. They interpret the specification types by
// type-switch instead of building SQL, which keeps service tests free of a
// database while exercising the same call paths.

type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]entity.User
	refreshTokens map[uuid.UUID]entity.RefreshToken
	emailOtps     map[uuid.UUID]entity.EmailOtpToken
	sessions      map[uuid.UUID]entity.ChatSession
	messages      map[uuid.UUID]entity.ChatMessage
	usedCars      []entity.UsedCar
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]entity.User),
		refreshTokens: make(map[uuid.UUID]entity.RefreshToken),
		emailOtps:     make(map[uuid.UUID]entity.EmailOtpToken),
		sessions:      make(map[uuid.UUID]entity.ChatSession),
		messages:      make(map[uuid.UUID]entity.ChatMessage),
	}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeChatSessionRepo{store: u.store}
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeChatMessageRepo{store: u.store}
}

func (u *fakeUow) UsedCarRepository() contract.UsedCarRepository {
	return &fakeUsedCarRepo{store: u.store}
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: newFakeStore()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

// User repository fake

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.users, id)
	for tid, t := range r.store.refreshTokens {
		if t.UserId == id {
			delete(r.store.refreshTokens, tid)
		}
	}
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if userMatches(&u, specs) {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ById:
			if u.Id != s.Id {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(u.Email, s.Email) {
				return false
			}
		case specification.ByPendingEmail:
			if u.PendingEmail == nil || !strings.EqualFold(*u.PendingEmail, s.Email) {
				return false
			}
		case specification.ActiveUsers:
			if !u.IsActive {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.refreshTokens[token.Id] = *token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.refreshTokens {
		matched := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByToken:
				if t.Token != s.Token {
					matched = false
				}
			case specification.TokensOwnedBy:
				if t.UserId != s.UserId {
					matched = false
				}
			}
		}
		if matched {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.refreshTokens[token.Id] = *token
	return nil
}

func (r *fakeUserRepo) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID, ip, reason string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for id, t := range r.store.refreshTokens {
		if t.UserId == userId && t.RevokedAt == nil && t.ExpiresAt.After(now) {
			t.RevokedAt = &now
			t.RevokedByIp = &ip
			t.ReasonRevoked = &reason
			r.store.refreshTokens[id] = t
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateEmailOtp(ctx context.Context, token *entity.EmailOtpToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.emailOtps[token.Id] = *token
	return nil
}

func (r *fakeUserRepo) FindActiveEmailOtp(ctx context.Context, email string) (*entity.EmailOtpToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *entity.EmailOtpToken
	for _, t := range r.store.emailOtps {
		if !strings.EqualFold(t.Email, email) || t.IsUsed || time.Now().After(t.ExpiresAt) {
			continue
		}
		copied := t
		if latest == nil || copied.CreatedAt.After(latest.CreatedAt) {
			latest = &copied
		}
	}
	return latest, nil
}

func (r *fakeUserRepo) MarkEmailOtpUsed(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if t, ok := r.store.emailOtps[id]; ok {
		now := time.Now()
		t.IsUsed = true
		t.UsedAt = &now
		r.store.emailOtps[id] = t
	}
	return nil
}

func (r *fakeUserRepo) DeleteEmailOtps(ctx context.Context, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, t := range r.store.emailOtps {
		if strings.EqualFold(t.Email, email) {
			delete(r.store.emailOtps, id)
		}
	}
	return nil
}

// Chat repository fakes

type fakeChatSessionRepo struct {
	store *fakeStore
}

func (r *fakeChatSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.Id] = *session
	return nil
}

func (r *fakeChatSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	return r.Create(ctx, session)
}

func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	for mid, m := range r.store.messages {
		if m.SessionId == id {
			delete(r.store.messages, mid)
		}
	}
	return nil
}

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entity.ChatSession
	desc := false
	page, pageSize := 0, 0
	for _, s := range r.store.sessions {
		matched := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ById:
				if s.Id != sp.Id {
					matched = false
				}
			case specification.SessionsOwnedBy:
				if s.UserId != sp.UserId {
					matched = false
				}
			case specification.NameContains:
				if !strings.Contains(strings.ToLower(s.Name), strings.ToLower(sp.Keyword)) {
					matched = false
				}
			case specification.OrderByCreatedDesc:
				desc = true
			case specification.Paginate:
				page, pageSize = sp.Page, sp.PageSize
			}
		}
		if matched {
			copied := s
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if desc {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	if pageSize > 0 {
		start := (page - 1) * pageSize
		if start >= len(result) {
			return nil, nil
		}
		end := start + pageSize
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

func (r *fakeChatSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, err := r.FindAll(ctx, specs...)
	return int64(len(sessions)), err
}

type fakeChatMessageRepo struct {
	store *fakeStore
}

func (r *fakeChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messages[message.Id] = *message
	return nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entity.ChatMessage
	for _, m := range r.store.messages {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.BySessionId); ok && m.SessionId != s.SessionId {
				matched = false
			}
		}
		if matched {
			copied := m
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, err := r.FindAll(ctx, specs...)
	return int64(len(messages)), err
}

// Used car repository fake

type fakeUsedCarRepo struct {
	store *fakeStore
}

func (r *fakeUsedCarRepo) Create(ctx context.Context, car *entity.UsedCar) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.usedCars = append(r.store.usedCars, *car)
	return nil
}

func (r *fakeUsedCarRepo) FindPage(ctx context.Context, page, pageSize int) ([]*entity.UsedCar, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cars := make([]entity.UsedCar, len(r.store.usedCars))
	copy(cars, r.store.usedCars)
	sort.Slice(cars, func(i, j int) bool {
		return cars[i].CreatedAt.After(cars[j].CreatedAt)
	})

	total := int64(len(cars))
	start := (page - 1) * pageSize
	if start >= len(cars) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(cars) {
		end = len(cars)
	}

	result := make([]*entity.UsedCar, 0, end-start)
	for i := start; i < end; i++ {
		copied := cars[i]
		result = append(result, &copied)
	}
	return result, total, nil
}

// Collaborator fakes

type fakeMailPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakeMailPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakeMailPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

type fakeFileService struct {
	mu        sync.Mutex
	saved     []string
	deleted   []string
	failAfter int // fail the save once this many files were stored, -1 never
}

func newFakeFileService() *fakeFileService {
	return &fakeFileService{failAfter: -1}
}

func (f *fakeFileService) SaveProfileImage(r io.Reader, size int64, fileName string, userId uuid.UUID) (string, error) {
	return f.save("/profile/" + fileName)
}

func (f *fakeFileService) SaveListingImage(r io.Reader, size int64, fileName string) (string, error) {
	return f.save("/used-cars/" + fileName)
}

func (f *fakeFileService) save(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.saved) >= f.failAfter {
		return "", errors.New("disk full")
	}
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeFileService) Delete(relativePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, relativePath)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
