package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/CalcBuild/internal/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Load when no project is stored under the name.
var ErrNotFound = errors.New("project not found")

// Repository keeps every saved project in one JSON object, keyed by
// project name, under a single KeyValue slot.
type Repository struct {
	kv     KeyValue
	key    string
	logger *zap.Logger
}

// NewRepository returns a repository over kv. A nil logger discards output.
func NewRepository(kv KeyValue, key string, logger *zap.Logger) *Repository {
	if key == "" {
		key = model.DefaultStorageKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{kv: kv, key: key, logger: logger}
}

// Open builds the backend selected by cfg and returns a repository over it.
func Open(ctx context.Context, cfg model.StoreConfig, logger *zap.Logger) (*Repository, error) {
	var kv KeyValue
	switch cfg.Backend {
	case model.BackendFile, "":
		kv = NewFileKV(cfg.Dir)
	case model.BackendMemory:
		kv = NewMemoryKV()
	case model.BackendRedis:
		r, err := DialRedisKV(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		kv = r
	case model.BackendPostgres:
		s, err := ConnectSQLKV(ctx, cfg.PostgresDSN, cfg.PostgresTable)
		if err != nil {
			return nil, err
		}
		kv = s
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if logger != nil {
		logger.Debug("project store opened",
			zap.String("backend", cfg.Backend),
			zap.String("key", cfg.Key))
	}
	return NewRepository(kv, cfg.Key, logger), nil
}

// readAll returns the stored map. Missing or undecodable data reads as an
// empty map; only backend failures are errors.
func (r *Repository) readAll(ctx context.Context) (map[string]model.Project, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read project store: %w", err)
	}
	projects := make(map[string]model.Project)
	if !ok || raw == "" {
		return projects, nil
	}
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		r.logger.Warn("discarding undecodable project store",
			zap.String("key", r.key),
			zap.Error(err))
		return make(map[string]model.Project), nil
	}
	if projects == nil {
		projects = make(map[string]model.Project)
	}
	return projects, nil
}

func (r *Repository) writeAll(ctx context.Context, projects map[string]model.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to write project store: %w", err)
	}
	return nil
}

// Save stores p under its storage key, replacing any project of the same
// name, and returns that key.
func (r *Repository) Save(ctx context.Context, p model.Project) (string, error) {
	projects, err := r.readAll(ctx)
	if err != nil {
		return "", err
	}
	key := p.StorageKey()
	projects[key] = p.Clone()
	if err := r.writeAll(ctx, projects); err != nil {
		return "", err
	}
	r.logger.Info("project saved", zap.String("name", key), zap.Int("rooms", len(p.Rooms)))
	return key, nil
}

// Load returns the project stored under name, or ErrNotFound. Nil rooms
// load as an empty list.
func (r *Repository) Load(ctx context.Context, name string) (model.Project, error) {
	projects, err := r.readAll(ctx)
	if err != nil {
		return model.Project{}, err
	}
	p, ok := projects[name]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	if p.Rooms == nil {
		p.Rooms = []model.Room{}
	}
	return p, nil
}

// ListNames returns the stored project names in sorted order.
func (r *Repository) ListNames(ctx context.Context) ([]string, error) {
	projects, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// All returns a copy of every stored project keyed by name.
func (r *Repository) All(ctx context.Context) (map[string]model.Project, error) {
	return r.readAll(ctx)
}

// Close releases the backend.
func (r *Repository) Close() error {
	return r.kv.Close()
}
