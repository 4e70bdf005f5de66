package data

import (
	"fmt"

	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
)

// Store drivers
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// redisKeyPrefix namespaces bridge keys inside a shared Redis
const redisKeyPrefix = "tgrelay:"

// StoreOptions selects and configures the key-value backend
type StoreOptions struct {
	Driver   string
	Path     string // sqlite
	RedisURL string // redis
}

// NewStore opens the configured key-value backend
func NewStore(opts StoreOptions) (repo.KeyValueStore, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return NewSQLiteStore(opts.Path)
	case DriverRedis:
		return NewRedisStore(opts.RedisURL, redisKeyPrefix)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Repositories contains all repositories
type Repositories struct {
	Store         repo.KeyValueStore
	Correspondent repo.CorrespondentRepo
	Ledger        repo.LedgerRepo
	Messaging     repo.MessagingClient
}

// NewRepositories creates all repositories over one store
func NewRepositories(store repo.KeyValueStore, client *telegram.Client) *Repositories {
	return &Repositories{
		Store:         store,
		Correspondent: NewRegistryRepo(store),
		Ledger:        NewLedgerRepo(store),
		Messaging:     NewTelegramRepo(client),
	}
}

// Close releases the store
func (r *Repositories) Close() error {
	return r.Store.Close()
}
