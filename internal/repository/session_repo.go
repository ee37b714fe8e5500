package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"console/internal/model"
	"console/internal/session"
)

type sessionRepository struct {
	db  *gorm.DB
	tx  TransactionManager
	now func() time.Time
}

// NewSessionRepository returns a session.Store backed by the console_sessions table
func NewSessionRepository(db *gorm.DB) session.Store {
	return &sessionRepository{db: db, tx: NewTransactionManager(db), now: time.Now}
}

// Save replaces the user's expired rows and writes the new session in one transaction
func (r *sessionRepository) Save(ctx context.Context, s *session.Session) error {
	if err := s.Check(); err != nil {
		return err
	}
	row := toModel(s)
	return r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		db := GetDB(txCtx, r.db)
		if err := db.Where("username = ? AND expires_at < ?", row.Username, r.now()).Delete(&model.Session{}).Error; err != nil {
			return errors.Wrap(err, "purge expired sessions")
		}
		if err := db.Create(row).Error; err != nil {
			return errors.Wrap(err, "insert session")
		}
		return nil
	})
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	var row model.Session
	if err := GetDB(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Wrap(err, "load session")
	}
	s := fromModel(&row)
	if !s.Valid(r.now()) {
		if err := r.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, session.ErrNotFound
	}
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

func toModel(s *session.Session) *model.Session {
	return &model.Session{
		ID:          s.ID,
		Token:       s.Token,
		Username:    s.User.Username,
		Role:        s.User.Role,
		Permissions: s.Permissions.List(),
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}

func fromModel(row *model.Session) *session.Session {
	return &session.Session{
		ID:          row.ID,
		Token:       row.Token,
		User:        session.User{Username: row.Username, Role: row.Role},
		Permissions: session.NewPermissionSet(row.Permissions),
		CreatedAt:   row.CreatedAt,
		ExpiresAt:   row.ExpiresAt,
	}
}
