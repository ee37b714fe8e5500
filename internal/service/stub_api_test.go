package service

import (
	"context"
	"sync"

	"console/internal/backend"
)

type stubAPI struct {
	mu      sync.Mutex
	lists   map[string][]backend.Record
	fail    map[string]error
	calls   []string
	created []backend.Record
}

func newStubAPI() *stubAPI {
	return &stubAPI{lists: map[string][]backend.Record{}, fail: map[string]error{}}
}

func (s *stubAPI) track(op, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op+" "+slug)
	return s.fail[slug]
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) List(_ context.Context, slug string) ([]backend.Record, error) {
	if err := s.track("list", slug); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.Record{}, s.lists[slug]...), nil
}

func (s *stubAPI) Create(_ context.Context, slug string, rec backend.Record) (backend.Record, error) {
	if err := s.track("create", slug); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *stubAPI) Update(_ context.Context, slug, _ string, rec backend.Record) (backend.Record, error) {
	if err := s.track("update", slug); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *stubAPI) Delete(_ context.Context, slug, _ string) error {
	return s.track("delete", slug)
}
