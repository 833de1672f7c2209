package repository

import (
	"context"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StartupRepository stores startup submissions and investor votes.
type StartupRepository interface {
	Create(ctx context.Context, s *models.StartupRecord) error
	GetByID(ctx context.Context, id, currentUserID uint) (*models.StartupRecord, error)
	List(ctx context.Context, currentUserID uint) ([]models.StartupRecord, error)
	ToggleVote(ctx context.Context, userID, startupID uint) (bool, error)
}

type startupRepository struct {
	db *gorm.DB
}

func NewStartupRepository(db *gorm.DB) StartupRepository {
	return &startupRepository{db: db}
}

func (r *startupRepository) Create(ctx context.Context, s *models.StartupRecord) error {
	defer observability.TrackQuery("create", "startups")()
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *startupRepository) withVotes(db *gorm.DB, currentUserID uint) *gorm.DB {
	return db.Select("startups.*, "+
		"(SELECT COUNT(*) FROM startup_votes WHERE startup_votes.startup_id = startups.id) as votes, "+
		"EXISTS(SELECT 1 FROM startup_votes WHERE startup_votes.startup_id = startups.id AND startup_votes.user_id = ?) as voted",
		currentUserID)
}

func (r *startupRepository) GetByID(ctx context.Context, id, currentUserID uint) (*models.StartupRecord, error) {
	defer observability.TrackQuery("get_by_id", "startups")()
	var s models.StartupRecord
	if err := r.withVotes(r.db.WithContext(ctx), currentUserID).First(&s, id).Error; err != nil {
		return nil, notFound(err, "startup", id)
	}
	return &s, nil
}

func (r *startupRepository) List(ctx context.Context, currentUserID uint) ([]models.StartupRecord, error) {
	defer observability.TrackQuery("list", "startups")()
	var out []models.StartupRecord
	err := r.withVotes(r.db.WithContext(ctx), currentUserID).
		Order("startups.created_at DESC").
		Order("startups.id DESC").
		Find(&out).Error
	return out, err
}

// ToggleVote adds the user's vote or removes it when present, and reports
// whether the user now votes for the startup.
func (r *startupRepository) ToggleVote(ctx context.Context, userID, startupID uint) (bool, error) {
	defer observability.TrackQuery("toggle_vote", "startup_votes")()
	voted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND startup_id = ?", userID, startupID).Delete(&models.StartupVoteRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		voted = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.StartupVoteRecord{UserID: userID, StartupID: startupID}).Error
	})
	return voted, err
}
