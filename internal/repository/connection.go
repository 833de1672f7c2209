package repository

import (
	"context"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository records connection requests between users.
type ConnectionRepository interface {
	Request(ctx context.Context, requesterID, targetID uint) error
	Count(ctx context.Context, userID uint) (int64, error)
	Targets(ctx context.Context, requesterID uint) (map[uint]bool, error)
}

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Request stores a pending request. Repeating a request is a no-op.
func (r *connectionRepository) Request(ctx context.Context, requesterID, targetID uint) error {
	defer observability.TrackQuery("request", "connections")()
	if requesterID == targetID {
		return models.NewValidationError("cannot connect with yourself")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ConnectionRecord{RequesterID: requesterID, TargetID: targetID}).Error
}

// Count reports how many requests userID has sent or received.
func (r *connectionRepository) Count(ctx context.Context, userID uint) (int64, error) {
	defer observability.TrackQuery("count", "connections")()
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ConnectionRecord{}).
		Where("requester_id = ? OR target_id = ?", userID, userID).
		Count(&n).Error
	return n, err
}

// Targets returns the set of users requesterID has asked to connect with.
func (r *connectionRepository) Targets(ctx context.Context, requesterID uint) (map[uint]bool, error) {
	defer observability.TrackQuery("targets", "connections")()
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.ConnectionRecord{}).
		Where("requester_id = ?", requesterID).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
