package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

type searchService struct {
	base
}

func NewSearchService(st *store.Store, opts ...Option) SearchService {
	return &searchService{base: newBase(st, opts)}
}

// SearchTasks scans every task in display order. Text matches name or
// description case-insensitively; an empty query matches everything.
func (s *searchService) SearchTasks(ctx context.Context, q TaskQuery) ([]TaskHit, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	var hits []TaskHit
	err := s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		for _, ref := range tx.AllTasks() {
			t := ref.Task
			if text != "" && !containsFold(text, t.Name, t.Description) {
				continue
			}
			if q.Status != "" && t.Status != q.Status {
				continue
			}
			if q.Priority != "" && t.Priority != q.Priority {
				continue
			}
			if q.Department != "" && !strings.EqualFold(t.Department, q.Department) {
				continue
			}
			hits = append(hits, TaskHit{
				Task:         t.Clone(),
				SprintID:     ref.Sprint.ID,
				SprintName:   ref.Sprint.Name,
				TimelineID:   ref.Timeline.ID,
				TimelineName: ref.Timeline.Name,
			})
			if q.Limit > 0 && len(hits) == q.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// SearchMembers matches name or email.
func (s *searchService) SearchMembers(ctx context.Context, text string) ([]*domain.Member, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	var out []*domain.Member
	err := s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		for _, m := range tx.Members() {
			if text != "" && !containsFold(text, m.Name, m.Email) {
				continue
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (s *searchService) AddMember(ctx context.Context, m domain.Member) (out *domain.Member, err error) {
	startedAt := time.Now()
	fields := map[string]any{"member_id": m.ID}
	defer func() { s.observe(ctx, "member.add", startedAt, fields, err) }()

	if err = m.Validate(); err != nil {
		return nil, err
	}
	m.ID = domain.CoalesceStr(strings.TrimSpace(m.ID), s.newID())
	m.Name = strings.TrimSpace(m.Name)
	fields["member_id"] = m.ID

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		c := m
		if err := tx.AddMember(&c); err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				return &domain.ValidationError{Field: "id", Message: fmt.Sprintf("member %q already exists", m.ID)}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// containsFold reports whether any field contains the lowercased needle.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
