package testutil

import (
	"context"
	"testing"

	commentstore "github.com/reelcircle/reelcircle/internal/app/store/comments"
	groupstore "github.com/reelcircle/reelcircle/internal/app/store/groups"
	grouppoststore "github.com/reelcircle/reelcircle/internal/app/store/groupposts"
	moviestore "github.com/reelcircle/reelcircle/internal/app/store/movies"
	newspoststore "github.com/reelcircle/reelcircle/internal/app/store/newsposts"
	newsroomstore "github.com/reelcircle/reelcircle/internal/app/store/newsrooms"
	reviewstore "github.com/reelcircle/reelcircle/internal/app/store/reviews"
	userstore "github.com/reelcircle/reelcircle/internal/app/store/users"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures creates test records in a Mongo test database through the
// stores, so every fixture is shaped exactly as production writes it.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) must(what string, err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("create %s: %v", what, err)
	}
}

// CreateUser creates a user with a unique email and an empty diary.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string) models.User {
	f.t.Helper()
	u, err := userstore.New(f.db).Create(ctx, models.User{
		DisplayName: name,
		Email:       primitive.NewObjectID().Hex() + "@test.com",
		Role:        role,
	})
	f.must("user", err)
	return u
}

func (f *Fixtures) CreateMovie(ctx context.Context, title string) models.Movie {
	f.t.Helper()
	m, err := moviestore.New(f.db).Create(ctx, models.Movie{Title: title})
	f.must("movie", err)
	return m
}

// CreateReview stores a review without touching the movie average or the
// author's diary.
func (f *Fixtures) CreateReview(ctx context.Context, authorID, movieID primitive.ObjectID, rating float64) models.Review {
	f.t.Helper()
	r, err := reviewstore.New(f.db).Create(ctx, models.Review{AuthorID: authorID, MovieID: movieID, Rating: rating})
	f.must("review", err)
	return r
}

func (f *Fixtures) CreateComment(ctx context.Context, authorID, reviewID primitive.ObjectID, body string) models.Comment {
	f.t.Helper()
	c, err := commentstore.New(f.db).Create(ctx, models.Comment{AuthorID: authorID, ReviewID: reviewID, Body: body})
	f.must("comment", err)
	return c
}

func (f *Fixtures) CreateGroup(ctx context.Context, name string, members ...models.GroupMember) models.Group {
	f.t.Helper()
	g, err := groupstore.New(f.db).Create(ctx, models.Group{Name: name, Members: members})
	f.must("group", err)
	return g
}

func (f *Fixtures) CreateGroupPost(ctx context.Context, authorID, groupID primitive.ObjectID, body string) models.GroupPost {
	f.t.Helper()
	p, err := grouppoststore.New(f.db).Create(ctx, models.GroupPost{AuthorID: authorID, GroupID: groupID, Body: body})
	f.must("group post", err)
	return p
}

func (f *Fixtures) CreateNewsroom(ctx context.Context, name string, creatorID primitive.ObjectID, editors, followers []primitive.ObjectID) models.Newsroom {
	f.t.Helper()
	n, err := newsroomstore.New(f.db).Create(ctx, models.Newsroom{
		Name:      name,
		CreatorID: creatorID,
		Editors:   editors,
		Followers: followers,
	})
	f.must("newsroom", err)
	return n
}

func (f *Fixtures) CreateNewsPost(ctx context.Context, authorID, newsroomID primitive.ObjectID, title string) models.NewsPost {
	f.t.Helper()
	p, err := newspoststore.New(f.db).Create(ctx, models.NewsPost{AuthorID: authorID, NewsroomID: newsroomID, Title: title})
	f.must("news post", err)
	return p
}
