package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotPending is returned by Transition when the report exists but has
// already left the pending state (or was never there).
var ErrNotPending = errors.New("report is not pending")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// Create inserts a pending report.
func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Status = models.ReportPending
	r.ModeratorNote = ""
	r.ResolvedBy = nil
	r.ResolvedAt = nil
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// GetByID loads a report. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// HasPending reports whether reporterID already has a pending report
// against (targetType, targetID).
func (s *Store) HasPending(ctx context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"reporter_id": reporterID,
		"target_type": targetType,
		"target_id":   targetID,
		"status":      models.ReportPending,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns reports with the given status, newest first. An empty status
// lists every report.
func (s *Store) List(ctx context.Context, status string) ([]models.Report, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transition moves a pending report to a terminal status. The update only
// matches while the report is pending, so two concurrent resolutions cannot
// both succeed. A report that exists but is no longer pending yields
// ErrNotPending; a missing report yields mongo.ErrNoDocuments.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, status, note string, moderatorID primitive.ObjectID) (models.Report, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"resolved_by": moderatorID,
		"resolved_at": now,
		"updated_at":  now,
	}
	if note != "" {
		set["moderator_note"] = note
	}

	var out models.Report
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ReportPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return models.Report{}, gerr
		}
		return models.Report{}, ErrNotPending
	}
	if err != nil {
		return models.Report{}, err
	}
	return out, nil
}

// ResolvePendingByReporter marks every pending report filed by reporterID as
// resolved with note. Returns the number of reports updated.
func (s *Store) ResolvePendingByReporter(ctx context.Context, reporterID, moderatorID primitive.ObjectID, note string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"reporter_id": reporterID, "status": models.ReportPending},
		bson.M{"$set": bson.M{
			"status":         models.ReportResolved,
			"moderator_note": note,
			"resolved_by":    moderatorID,
			"resolved_at":    now,
			"updated_at":     now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
