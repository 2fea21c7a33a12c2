package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNotStructPointer is returned when the target is not a non-nil pointer to a struct.
	ErrNotStructPointer = errors.New("config: target must be a non-nil struct pointer")
	// ErrParseFailed is returned when environment parsing fails.
	ErrParseFailed = errors.New("config: failed to parse environment")
)

var (
	cache      sync.Map // reflect.Type -> struct value
	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// Each configuration type is parsed once per process; subsequent calls for
// the same type return the cached value. A .env file in the working
// directory is loaded on first use if present.
func Load(cfg any) error {
	dotenvOnce.Do(func() {
		// Missing .env is not an error; real environment always wins.
		_ = godotenv.Load()
	})

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	t := v.Elem().Type()
	if cached, ok := cache.Load(t); ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseFailed, err)
	}

	cache.Store(t, v.Elem().Interface())
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup where
// a missing required variable should abort the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
