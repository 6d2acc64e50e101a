package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// PendingRegistration - ожидающая подтверждения регистрация. Хранится
// только в кеше с TTL, в БД попадает после ввода верного кода.
type PendingRegistration struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Code         string
}

type OTPStore interface {
	Save(ctx context.Context, email string, reg PendingRegistration, ttl time.Duration) error
	Get(ctx context.Context, email string) (PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

type otpStore struct {
	cache   *cache.Cache[PendingRegistration]
	backing *ristretto.Cache
}

func NewOTPStore() (*otpStore, error) {
	backing, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании кеша OTP: %w", err)
	}

	return &otpStore{
		cache:   cache.New[PendingRegistration](ristretto_store.NewRistretto(backing)),
		backing: backing,
	}, nil
}

func (o *otpStore) Save(ctx context.Context, email string, reg PendingRegistration, ttl time.Duration) error {
	return o.cache.Set(ctx, email, reg,
		store.WithCost(1),
		store.WithExpiration(ttl),
	)
}

func (o *otpStore) Get(ctx context.Context, email string) (PendingRegistration, error) {
	return o.cache.Get(ctx, email)
}

func (o *otpStore) Delete(ctx context.Context, email string) error {
	return o.cache.Delete(ctx, email)
}

// Wait дожидается применения буферизованных записей ristretto;
// нужен только в тестах
func (o *otpStore) Wait() {
	o.backing.Wait()
}
