package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reelcircle/reelcircle/internal/app/content"
	reportstore "github.com/reelcircle/reelcircle/internal/app/store/reports"
	reviewstore "github.com/reelcircle/reelcircle/internal/app/store/reviews"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Memory is an in-memory stand-in for the Mongo stores. Each accessor
// (Users, Reviews, ...) returns a view with the same method set as the
// matching store package, so services can be tested without a database.
type Memory struct {
	mu sync.Mutex

	users      map[primitive.ObjectID]*models.User
	movies     map[primitive.ObjectID]models.Movie
	reviews    map[primitive.ObjectID]models.Review
	comments   map[primitive.ObjectID]models.Comment
	groupPosts map[primitive.ObjectID]models.GroupPost
	newsPosts  map[primitive.ObjectID]models.NewsPost
	groups     map[primitive.ObjectID]models.Group
	newsrooms  map[primitive.ObjectID]models.Newsroom
	reports    map[primitive.ObjectID]models.Report
	warnings   []models.Warning

	clock time.Time
	fail  map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		users:      map[primitive.ObjectID]*models.User{},
		movies:     map[primitive.ObjectID]models.Movie{},
		reviews:    map[primitive.ObjectID]models.Review{},
		comments:   map[primitive.ObjectID]models.Comment{},
		groupPosts: map[primitive.ObjectID]models.GroupPost{},
		newsPosts:  map[primitive.ObjectID]models.NewsPost{},
		groups:     map[primitive.ObjectID]models.Group{},
		newsrooms:  map[primitive.ObjectID]models.Newsroom{},
		reports:    map[primitive.ObjectID]models.Report{},
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:       map[string]error{},
	}
}

// FailOnce makes the next call to op (e.g. "users.Delete") return err.
func (m *Memory) FailOnce(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

// injected must be called with mu held.
func (m *Memory) injected(op string) error {
	if err, ok := m.fail[op]; ok {
		delete(m.fail, op)
		return err
	}
	return nil
}

// tick returns a strictly increasing timestamp so ordering is stable.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

/* ---------------------------------- seeding --------------------------------- */

func (m *Memory) AddUser(name, role string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		ID:          primitive.NewObjectID(),
		DisplayName: name,
		Email:       name + "@test.com",
		Role:        role,
		Diary:       []models.DiaryEntry{},
		CreatedAt:   m.tick(),
	}
	m.users[u.ID] = u
	return *u
}

func (m *Memory) AddMovie(title string) models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	mv := models.Movie{ID: primitive.NewObjectID(), Title: title, CreatedAt: m.tick()}
	m.movies[mv.ID] = mv
	return mv
}

func (m *Memory) AddComment(authorID, reviewID primitive.ObjectID, body string) models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Comment{ID: primitive.NewObjectID(), AuthorID: authorID, ReviewID: reviewID, Body: body, CreatedAt: m.tick()}
	m.comments[c.ID] = c
	return c
}

func (m *Memory) AddGroup(name string, members ...models.GroupMember) models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := models.Group{ID: primitive.NewObjectID(), Name: name, Members: members, CreatedAt: m.tick()}
	m.groups[g.ID] = g
	return g
}

func (m *Memory) AddGroupPost(authorID, groupID primitive.ObjectID, body string) models.GroupPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.GroupPost{ID: primitive.NewObjectID(), AuthorID: authorID, GroupID: groupID, Body: body, CreatedAt: m.tick()}
	m.groupPosts[p.ID] = p
	return p
}

func (m *Memory) AddNewsroom(name string, creatorID primitive.ObjectID, editors, followers []primitive.ObjectID) models.Newsroom {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := models.Newsroom{ID: primitive.NewObjectID(), Name: name, CreatorID: creatorID, Editors: editors, Followers: followers, CreatedAt: m.tick()}
	m.newsrooms[n.ID] = n
	return n
}

func (m *Memory) AddNewsPost(authorID, newsroomID primitive.ObjectID, title string) models.NewsPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.NewsPost{ID: primitive.NewObjectID(), AuthorID: authorID, NewsroomID: newsroomID, Title: title, CreatedAt: m.tick()}
	m.newsPosts[p.ID] = p
	return p
}

/* -------------------------------- inspection -------------------------------- */

// User returns a copy of the stored user.
func (m *Memory) User(id primitive.ObjectID) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, false
	}
	cp := *u
	cp.Diary = append([]models.DiaryEntry(nil), u.Diary...)
	return cp, true
}

func (m *Memory) Movie(id primitive.ObjectID) models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.movies[id]
}

func (m *Memory) Group(id primitive.ObjectID) models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groups[id]
}

func (m *Memory) Newsroom(id primitive.ObjectID) models.Newsroom {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newsrooms[id]
}

func (m *Memory) Report(id primitive.ObjectID) (models.Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	return r, ok
}

// ReviewCount returns the number of stored reviews.
func (m *Memory) ReviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

// Has reports whether content of the given kind exists.
func (m *Memory) Has(kind content.Kind, id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	switch kind {
	case content.KindReview:
		_, ok = m.reviews[id]
	case content.KindComment:
		_, ok = m.comments[id]
	case content.KindGroupPost:
		_, ok = m.groupPosts[id]
	case content.KindNewsPost:
		_, ok = m.newsPosts[id]
	}
	return ok
}

/* ----------------------------------- users ---------------------------------- */

// MemUsers mirrors userstore.Store.
type MemUsers struct{ m *Memory }

func (m *Memory) Users() MemUsers { return MemUsers{m} }

func (s MemUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.m.User(id)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (s MemUsers) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.injected("users.Delete"); err != nil {
		return 0, err
	}
	if _, ok := s.m.users[id]; !ok {
		return 0, nil
	}
	delete(s.m.users, id)
	return 1, nil
}

func (s MemUsers) SetRole(_ context.Context, id primitive.ObjectID, role string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Role = role
	return nil
}

func (s MemUsers) AppendDiaryEntry(_ context.Context, userID primitive.ObjectID, e models.DiaryEntry) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.injected("users.AppendDiaryEntry"); err != nil {
		return err
	}
	u, ok := s.m.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Diary = append(u.Diary, e)
	return nil
}

func (s MemUsers) ReplaceDiaryEntry(_ context.Context, userID primitive.ObjectID, e models.DiaryEntry) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[userID]
	if !ok {
		return false, nil
	}
	for i := range u.Diary {
		if u.Diary[i].MovieID == e.MovieID {
			u.Diary[i] = e
			return true, nil
		}
	}
	return false, nil
}

func (s MemUsers) RemoveDiaryEntry(_ context.Context, userID, movieID primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[userID]
	if !ok {
		return nil
	}
	kept := u.Diary[:0]
	for _, e := range u.Diary {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	u.Diary = kept
	return nil
}

/* ---------------------------------- movies ---------------------------------- */

// MemMovies mirrors moviestore.Store.
type MemMovies struct{ m *Memory }

func (m *Memory) Movies() MemMovies { return MemMovies{m} }

func (s MemMovies) GetByID(_ context.Context, id primitive.ObjectID) (models.Movie, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	mv, ok := s.m.movies[id]
	if !ok {
		return models.Movie{}, mongo.ErrNoDocuments
	}
	return mv, nil
}

func (s MemMovies) SetAverageRating(_ context.Context, id primitive.ObjectID, avg float64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.injected("movies.SetAverageRating"); err != nil {
		return err
	}
	mv, ok := s.m.movies[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	mv.AverageRating = avg
	s.m.movies[id] = mv
	return nil
}

/* ---------------------------------- reviews --------------------------------- */

// MemReviews mirrors reviewstore.Store, including the unique
// (author, movie) index.
type MemReviews struct{ m *Memory }

func (m *Memory) Reviews() MemReviews { return MemReviews{m} }

func (s MemReviews) GetByID(_ context.Context, id primitive.ObjectID) (models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reviews[id]
	if !ok {
		return models.Review{}, mongo.ErrNoDocuments
	}
	return r, nil
}

func (s MemReviews) FindByAuthorAndMovie(_ context.Context, authorID, movieID primitive.ObjectID) (models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, r := range s.m.reviews {
		if r.AuthorID == authorID && r.MovieID == movieID {
			return r, nil
		}
	}
	return models.Review{}, mongo.ErrNoDocuments
}

func (s MemReviews) Create(_ context.Context, r models.Review) (models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, ex := range s.m.reviews {
		if ex.AuthorID == r.AuthorID && ex.MovieID == r.MovieID {
			return models.Review{}, reviewstore.ErrDuplicateReview
		}
	}
	r.ID = primitive.NewObjectID()
	if r.HelpfulVotes == nil {
		r.HelpfulVotes = []primitive.ObjectID{}
	}
	r.CreatedAt = s.m.tick()
	r.UpdatedAt = r.CreatedAt
	s.m.reviews[r.ID] = r
	return r, nil
}

func (s MemReviews) Update(_ context.Context, id primitive.ObjectID, upd reviewstore.Update) (models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reviews[id]
	if !ok {
		return models.Review{}, mongo.ErrNoDocuments
	}
	if upd.Rating != nil {
		r.Rating = *upd.Rating
	}
	if upd.Text != nil {
		r.Text = *upd.Text
	}
	if upd.Spoiler != nil {
		r.Spoiler = *upd.Spoiler
	}
	r.UpdatedAt = s.m.tick()
	s.m.reviews[id] = r
	return r, nil
}

func (s MemReviews) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.reviews[id]; !ok {
		return 0, nil
	}
	delete(s.m.reviews, id)
	return 1, nil
}

func (s MemReviews) RatingsForMovie(_ context.Context, movieID primitive.ObjectID) ([]float64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []float64
	for _, r := range s.m.reviews {
		if r.MovieID == movieID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

func (s MemReviews) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.injected("reviews.ListByAuthor"); err != nil {
		return nil, err
	}
	var out []models.Review
	for _, r := range s.m.reviews {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s MemReviews) SetHelpfulVote(_ context.Context, id, voterID primitive.ObjectID, helpful bool) (models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reviews[id]
	if !ok {
		return models.Review{}, mongo.ErrNoDocuments
	}
	votes := make([]primitive.ObjectID, 0, len(r.HelpfulVotes)+1)
	for _, v := range r.HelpfulVotes {
		if v != voterID {
			votes = append(votes, v)
		}
	}
	if helpful {
		votes = append(votes, voterID)
	}
	r.HelpfulVotes = votes
	s.m.reviews[id] = r
	return r, nil
}

/* ---------------------------------- reports --------------------------------- */

// MemReports mirrors reportstore.Store.
type MemReports struct{ m *Memory }

func (m *Memory) Reports() MemReports { return MemReports{m} }

func (s MemReports) Create(_ context.Context, r models.Report) (models.Report, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r.ID = primitive.NewObjectID()
	r.Status = models.ReportPending
	r.CreatedAt = s.m.tick()
	r.UpdatedAt = r.CreatedAt
	s.m.reports[r.ID] = r
	return r, nil
}

func (s MemReports) GetByID(_ context.Context, id primitive.ObjectID) (models.Report, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reports[id]
	if !ok {
		return models.Report{}, mongo.ErrNoDocuments
	}
	return r, nil
}

func (s MemReports) HasPending(_ context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, r := range s.m.reports {
		if r.ReporterID == reporterID && r.TargetType == targetType && r.TargetID == targetID && r.Status == models.ReportPending {
			return true, nil
		}
	}
	return false, nil
}

func (s MemReports) List(_ context.Context, status string) ([]models.Report, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Report{}
	for _, r := range s.m.reports {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s MemReports) Transition(_ context.Context, id primitive.ObjectID, status, note string, moderatorID primitive.ObjectID) (models.Report, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reports[id]
	if !ok {
		return models.Report{}, mongo.ErrNoDocuments
	}
	if r.Status != models.ReportPending {
		return models.Report{}, reportstore.ErrNotPending
	}
	now := s.m.tick()
	r.Status = status
	if note != "" {
		r.ModeratorNote = note
	}
	r.ResolvedBy = &moderatorID
	r.ResolvedAt = &now
	r.UpdatedAt = now
	s.m.reports[id] = r
	return r, nil
}

func (s MemReports) ResolvePendingByReporter(_ context.Context, reporterID, moderatorID primitive.ObjectID, note string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for id, r := range s.m.reports {
		if r.ReporterID != reporterID || r.Status != models.ReportPending {
			continue
		}
		now := s.m.tick()
		r.Status = models.ReportResolved
		r.ModeratorNote = note
		r.ResolvedBy = &moderatorID
		r.ResolvedAt = &now
		r.UpdatedAt = now
		s.m.reports[id] = r
		n++
	}
	return n, nil
}

/* --------------------------------- warnings --------------------------------- */

// MemWarnings mirrors warningstore.Store.
type MemWarnings struct{ m *Memory }

func (m *Memory) Warnings() MemWarnings { return MemWarnings{m} }

func (s MemWarnings) Create(_ context.Context, w models.Warning) (models.Warning, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	w.ID = primitive.NewObjectID()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.m.tick()
	}
	s.m.warnings = append(s.m.warnings, w)
	return w, nil
}

func (s MemWarnings) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Warning, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Warning{}
	for i := len(s.m.warnings) - 1; i >= 0; i-- {
		if s.m.warnings[i].UserID == userID {
			out = append(out, s.m.warnings[i])
		}
	}
	return out, nil
}

/* ------------------------------ groups/newsrooms ----------------------------- */

// MemGroups mirrors groupstore.Store.
type MemGroups struct{ m *Memory }

func (m *Memory) Groups() MemGroups { return MemGroups{m} }

func (s MemGroups) GetByID(_ context.Context, id primitive.ObjectID) (models.Group, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	g, ok := s.m.groups[id]
	if !ok {
		return models.Group{}, mongo.ErrNoDocuments
	}
	return g, nil
}

func (s MemGroups) RemoveMember(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for id, g := range s.m.groups {
		kept := make([]models.GroupMember, 0, len(g.Members))
		for _, mem := range g.Members {
			if mem.UserID != userID {
				kept = append(kept, mem)
			}
		}
		if len(kept) != len(g.Members) {
			g.Members = kept
			s.m.groups[id] = g
			n++
		}
	}
	return n, nil
}

// MemNewsrooms mirrors newsroomstore.Store.
type MemNewsrooms struct{ m *Memory }

func (m *Memory) Newsrooms() MemNewsrooms { return MemNewsrooms{m} }

func (s MemNewsrooms) GetByID(_ context.Context, id primitive.ObjectID) (models.Newsroom, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n, ok := s.m.newsrooms[id]
	if !ok {
		return models.Newsroom{}, mongo.ErrNoDocuments
	}
	return n, nil
}

func (s MemNewsrooms) RemoveUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	without := func(ids []primitive.ObjectID) ([]primitive.ObjectID, bool) {
		out := make([]primitive.ObjectID, 0, len(ids))
		for _, id := range ids {
			if id != userID {
				out = append(out, id)
			}
		}
		return out, len(out) != len(ids)
	}
	var n int64
	for id, nr := range s.m.newsrooms {
		eds, a := without(nr.Editors)
		fol, b := without(nr.Followers)
		if a || b {
			nr.Editors, nr.Followers = eds, fol
			s.m.newsrooms[id] = nr
			n++
		}
	}
	return n, nil
}

/* ------------------------------ content sources ----------------------------- */

// Source returns a content.Source over the in-memory collection for kind.
// Reviews are served by the ratings service, not by Memory.
func (m *Memory) Source(kind content.Kind) content.Source {
	return memSource{m: m, kind: kind}
}

type memSource struct {
	m    *Memory
	kind content.Kind
}

func (s memSource) Lookup(_ context.Context, id primitive.ObjectID) (content.Handle, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	switch s.kind {
	case content.KindComment:
		if c, ok := s.m.comments[id]; ok {
			return content.Handle{ID: c.ID, AuthorID: c.AuthorID, ScopeID: c.ReviewID, Summary: content.Excerpt(c.Body, content.SummaryLen), CreatedAt: c.CreatedAt}, nil
		}
	case content.KindGroupPost:
		if p, ok := s.m.groupPosts[id]; ok {
			return content.Handle{ID: p.ID, AuthorID: p.AuthorID, ScopeID: p.GroupID, Summary: content.Excerpt(p.Body, content.SummaryLen), CreatedAt: p.CreatedAt}, nil
		}
	case content.KindNewsPost:
		if p, ok := s.m.newsPosts[id]; ok {
			return content.Handle{ID: p.ID, AuthorID: p.AuthorID, ScopeID: p.NewsroomID, Summary: content.Excerpt(p.Title, content.SummaryLen), CreatedAt: p.CreatedAt}, nil
		}
	}
	return content.Handle{}, apperr.NotFound("memory.Lookup", string(s.kind))
}

func (s memSource) Remove(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var ok bool
	switch s.kind {
	case content.KindComment:
		if _, ok = s.m.comments[id]; ok {
			delete(s.m.comments, id)
		}
	case content.KindGroupPost:
		if _, ok = s.m.groupPosts[id]; ok {
			delete(s.m.groupPosts, id)
		}
	case content.KindNewsPost:
		if _, ok = s.m.newsPosts[id]; ok {
			delete(s.m.newsPosts, id)
		}
	}
	if !ok {
		return apperr.NotFound("memory.Remove", string(s.kind))
	}
	return nil
}

func (s memSource) RemoveByAuthor(_ context.Context, authorID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.injected(string(s.kind) + ".RemoveByAuthor"); err != nil {
		return 0, err
	}
	var n int64
	switch s.kind {
	case content.KindComment:
		for id, c := range s.m.comments {
			if c.AuthorID == authorID {
				delete(s.m.comments, id)
				n++
			}
		}
	case content.KindGroupPost:
		for id, p := range s.m.groupPosts {
			if p.AuthorID == authorID {
				delete(s.m.groupPosts, id)
				n++
			}
		}
	case content.KindNewsPost:
		for id, p := range s.m.newsPosts {
			if p.AuthorID == authorID {
				delete(s.m.newsPosts, id)
				n++
			}
		}
	}
	return n, nil
}
