package database

import (
	"context"
	"time"
)

// Observer receives the outcome of each storage operation
type Observer interface {
	ObserveStorage(provider, operation string, d time.Duration, err error)
}

// Instrument wraps p so every language operation is reported to obs
func Instrument(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &instrumented{Provider: p, obs: obs}
}

type instrumented struct {
	Provider
	obs Observer
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.obs.ObserveStorage(i.Name(), op, time.Since(start), err)
}

func (i *instrumented) AddLanguage(ctx context.Context, name string) (id int64, err error) {
	defer func(start time.Time) { i.observe("add_language", start, err) }(time.Now())
	return i.Provider.AddLanguage(ctx, name)
}

func (i *instrumented) UpdateLanguage(ctx context.Context, id int64, name string) (err error) {
	defer func(start time.Time) { i.observe("update_language", start, err) }(time.Now())
	return i.Provider.UpdateLanguage(ctx, id, name)
}

func (i *instrumented) DeleteLanguage(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { i.observe("delete_language", start, err) }(time.Now())
	return i.Provider.DeleteLanguage(ctx, id)
}

func (i *instrumented) GetLanguage(ctx context.Context, id int64) (name string, err error) {
	defer func(start time.Time) { i.observe("get_language", start, err) }(time.Now())
	return i.Provider.GetLanguage(ctx, id)
}

func (i *instrumented) GetLanguages(ctx context.Context) (languages map[int64]string, err error) {
	defer func(start time.Time) { i.observe("get_languages", start, err) }(time.Now())
	return i.Provider.GetLanguages(ctx)
}
