package reviews_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/features/reviews"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler() (*reviews.Handler, *testutil.Memory) {
	mem := testutil.NewMemory()
	svc := ratings.New(mem.Reviews(), mem.Movies(), mem.Users(), zap.NewNop())
	return reviews.NewHandler(svc, zap.NewNop()), mem
}

func create(h *reviews.Handler, as models.User, body map[string]any) *testutil.ResponseRecorder {
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/reviews", body), as)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	return rec
}

func TestHandleCreate(t *testing.T) {
	h, mem := newHandler()
	movie := mem.AddMovie("Amélie")
	u := mem.AddUser("u", models.RoleViewer)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing rating", map[string]any{"movie_id": movie.ID.Hex()}, http.StatusBadRequest},
		{"rating too high", map[string]any{"movie_id": movie.ID.Hex(), "rating": 10.5}, http.StatusBadRequest},
		{"malformed movie", map[string]any{"movie_id": "abc", "rating": 5}, http.StatusBadRequest},
		{"unknown movie", map[string]any{"movie_id": primitive.NewObjectID().Hex(), "rating": 5}, http.StatusNotFound},
		{"zero rating accepted", map[string]any{"movie_id": movie.ID.Hex(), "rating": 0, "text": "no"}, http.StatusCreated},
		{"duplicate", map[string]any{"movie_id": movie.ID.Hex(), "rating": 7}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create(h, u, tt.body).AssertStatus(t, tt.want)
		})
	}
}

func TestHandleCreate_Unauthenticated(t *testing.T) {
	h, _ := newHandler()
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewJSONRequest("POST", "/reviews", map[string]any{}))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestEditDeleteHelpful(t *testing.T) {
	h, mem := newHandler()
	movie := mem.AddMovie("Stalker")
	author := mem.AddUser("author", models.RoleCritic)
	other := mem.AddUser("other", models.RoleViewer)

	rec := create(h, author, map[string]any{"movie_id": movie.ID.Hex(), "rating": 8, "text": "slow"})
	rec.AssertStatus(t, http.StatusCreated)
	var rev models.Review
	rec.DecodeJSON(t, &rev)
	id := rev.ID.Hex()

	patch := func(as models.User, body map[string]any) *testutil.ResponseRecorder {
		req := testutil.WithUser(testutil.NewJSONRequest("PATCH", "/reviews/"+id, body), as)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := testutil.NewRecorder()
		h.HandleEdit(rec, req)
		return rec
	}
	patch(other, map[string]any{"rating": 1}).AssertStatus(t, http.StatusForbidden)
	patch(author, map[string]any{"rating": -1}).AssertStatus(t, http.StatusBadRequest)

	rec = patch(author, map[string]any{"rating": 9})
	rec.AssertStatus(t, http.StatusOK)
	var edited models.Review
	rec.DecodeJSON(t, &edited)
	if edited.Rating != 9 || edited.Text != "slow" {
		t.Errorf("edited = %+v", edited)
	}
	if avg := mem.Movie(movie.ID).AverageRating; avg != 9 {
		t.Errorf("average = %v, want 9", avg)
	}

	helpful := func(as models.User) *testutil.ResponseRecorder {
		req := testutil.WithUser(httptest.NewRequest("POST", "/reviews/"+id+"/helpful", nil), as)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := testutil.NewRecorder()
		h.HandleHelpful(rec, req)
		return rec
	}
	helpful(author).AssertStatus(t, http.StatusBadRequest)
	rec = helpful(other)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"helpful_count":1`)

	del := func(as models.User) *testutil.ResponseRecorder {
		req := testutil.WithUser(httptest.NewRequest("DELETE", "/reviews/"+id, nil), as)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, req)
		return rec
	}
	del(other).AssertStatus(t, http.StatusForbidden)
	del(author).AssertStatus(t, http.StatusOK)
	del(author).AssertStatus(t, http.StatusNotFound)

	if avg := mem.Movie(movie.ID).AverageRating; avg != 0 {
		t.Errorf("average after delete = %v, want 0", avg)
	}
}

func TestHandleEdit_MalformedID(t *testing.T) {
	h, mem := newHandler()
	u := mem.AddUser("u", models.RoleViewer)
	req := testutil.WithUser(testutil.NewJSONRequest("PATCH", "/reviews/xyz", map[string]any{}), u)
	req = testutil.WithChiURLParam(req, "id", "xyz")
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
