package httpserver

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strings"
	"testing"
)

func TestRecipeCRUDAndOwnership(t *testing.T) {
	srv := buildTestServer(t, nil)
	_, ownerToken := registerUser(t, srv, "owner")
	_, otherToken := registerUser(t, srv, "other")

	body := `{"title":"Tacos","category":"Mexican","ingredients":["tortilla"],"steps":["fill"]}`
	expectError(t, do(t, srv, http.MethodPost, "/api/recipes", body, ""), http.StatusUnauthorized, "UNAUTHORIZED")

	resp := expectError(t, do(t, srv, http.MethodPost, "/api/recipes", `{"title":"Tacos","category":"Thai"}`, ownerToken),
		http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	if !strings.Contains(resp.Message, "category must be one of") {
		t.Fatalf("category message = %q", resp.Message)
	}
	expectError(t, do(t, srv, http.MethodPost, "/api/recipes", `{"title":"  ","category":"Vegan"}`, ownerToken),
		http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec := do(t, srv, http.MethodPost, "/api/recipes", body, ownerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}
	var created recipeResponse
	decodeResponse(t, rec, &created)
	if rec.Header().Get("Location") != "/api/recipes/"+created.ID {
		t.Fatalf("Location = %q", rec.Header().Get("Location"))
	}
	if created.User.Username != "owner" || created.NumReviews != 0 || created.AverageRating != 0 || len(created.Reviews) != 0 {
		t.Fatalf("unexpected created recipe: %+v", created)
	}

	rec = do(t, srv, http.MethodGet, "/api/recipes/"+created.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	expectError(t, do(t, srv, http.MethodPut, "/api/recipes/"+created.ID, `{"title":"Stolen"}`, otherToken), http.StatusForbidden, "FORBIDDEN")

	rec = do(t, srv, http.MethodPut, "/api/recipes/"+created.ID, `{"title":"Fish Tacos","ingredients":[]}`, ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", rec.Code, rec.Body.String())
	}
	var updated recipeResponse
	decodeResponse(t, rec, &updated)
	if updated.Title != "Fish Tacos" || updated.Category != "Mexican" || len(updated.Ingredients) != 1 || updated.Ingredients[0] != "tortilla" {
		t.Fatalf("update did not merge fields: %+v", updated)
	}

	expectError(t, do(t, srv, http.MethodDelete, "/api/recipes/"+created.ID, "", otherToken), http.StatusForbidden, "FORBIDDEN")
	rec = do(t, srv, http.MethodDelete, "/api/recipes/"+created.ID, "", ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	expectError(t, do(t, srv, http.MethodGet, "/api/recipes/"+created.ID, "", ""), http.StatusNotFound, "NOT_FOUND")
	expectError(t, do(t, srv, http.MethodGet, "/api/recipes/not-an-id", "", ""), http.StatusNotFound, "NOT_FOUND")
}

func TestAddReview(t *testing.T) {
	srv := buildTestServer(t, nil)
	_, ownerToken := registerUser(t, srv, "chef")
	_, aliceToken := registerUser(t, srv, "alice")
	_, bobToken := registerUser(t, srv, "bob")
	recipe := createRecipe(t, srv, ownerToken, "Cake", "Dessert", "flour")
	path := "/api/recipes/" + recipe.ID + "/reviews"

	expectError(t, do(t, srv, http.MethodPost, path, `{"rating":4}`, ""), http.StatusUnauthorized, "UNAUTHORIZED")

	steps := []struct {
		token   string
		rating  int
		wantAvg float64
		wantN   int
	}{
		{aliceToken, 4, 4.0, 1},
		{bobToken, 2, 3.0, 2},
	}
	for _, step := range steps {
		rec := do(t, srv, http.MethodPost, path, fmt.Sprintf(`{"rating":%d,"comment":"ok"}`, step.rating), step.token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("review status = %d body %s", rec.Code, rec.Body.String())
		}
		var resp reviewCreatedResponse
		decodeResponse(t, rec, &resp)
		if resp.NumReviews != step.wantN || math.Abs(resp.AverageRating-step.wantAvg) > 1e-9 {
			t.Fatalf("aggregates = (%v, %d), want (%v, %d)", resp.AverageRating, resp.NumReviews, step.wantAvg, step.wantN)
		}
	}

	dup := expectError(t, do(t, srv, http.MethodPost, path, `{"rating":5}`, aliceToken), http.StatusBadRequest, "DUPLICATE")
	if dup.Message != "Recipe already reviewed" {
		t.Fatalf("duplicate message = %q", dup.Message)
	}

	for _, body := range []string{`{"rating":6}`, `{"rating":0}`, `{"rating":4.5}`, `{"comment":"no rating"}`} {
		rec := do(t, srv, http.MethodPost, path, body, ownerToken)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("body %s: status = %d, want 422", body, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/api/recipes/"+recipe.ID, "", "")
	var stored recipeResponse
	decodeResponse(t, rec, &stored)
	if stored.NumReviews != 2 || stored.AverageRating != 3.0 || len(stored.Reviews) != 2 {
		t.Fatalf("stored aggregates changed by rejected reviews: %+v", stored)
	}
	if stored.Reviews[0].User.Username != "alice" || stored.Reviews[0].Rating != 4 {
		t.Fatalf("unexpected first review: %+v", stored.Reviews[0])
	}

	expectError(t, do(t, srv, http.MethodPost, "/api/recipes/00000000-0000-0000-0000-000000000000/reviews", `{"rating":3}`, aliceToken),
		http.StatusNotFound, "NOT_FOUND")
}

func TestListRecipes(t *testing.T) {
	srv := buildTestServer(t, nil)
	ownerID, token := registerUser(t, srv, "lister")
	_, otherToken := registerUser(t, srv, "someone")

	for i := 0; i < 11; i++ {
		createRecipe(t, srv, token, fmt.Sprintf("Pasta %02d", i), "Italian", "Penne", "Tomato")
	}
	createRecipe(t, srv, otherToken, "Brownies", "Dessert", "Dark CHOCOLATE")

	var page recipeListResponse
	rec := do(t, srv, http.MethodGet, "/api/recipes", "", "")
	decodeResponse(t, rec, &page)
	if len(page.Recipes) != 10 || page.Page != 1 || page.Pages != 2 || page.Total != 12 {
		t.Fatalf("first page = %d items, page %d/%d total %d", len(page.Recipes), page.Page, page.Pages, page.Total)
	}
	if page.Recipes[0].Title != "Pasta 00" {
		t.Fatalf("default order should be insertion order, got %q first", page.Recipes[0].Title)
	}

	rec = do(t, srv, http.MethodGet, "/api/recipes?pageNumber=2", "", "")
	decodeResponse(t, rec, &page)
	if len(page.Recipes) != 2 || page.Page != 2 {
		t.Fatalf("second page = %d items, page %d", len(page.Recipes), page.Page)
	}

	rec = do(t, srv, http.MethodGet, "/api/recipes?pageNumber=abc", "", "")
	decodeResponse(t, rec, &page)
	if page.Page != 1 {
		t.Fatalf("non-numeric page should fall back to 1, got %d", page.Page)
	}

	rec = do(t, srv, http.MethodGet, "/api/recipes?pageNumber=1000000000000000000", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("huge page status = %d, want 200", rec.Code)
	}
	var beyond recipeListResponse
	decodeResponse(t, rec, &beyond)
	if len(beyond.Recipes) != 0 || beyond.Total != 12 {
		t.Fatalf("huge page = %d items, total %d", len(beyond.Recipes), beyond.Total)
	}

	cases := []struct {
		query string
		want  int
	}{
		{"category=All", 12},
		{"category=Dessert", 1},
		{"category=Vegan", 0},
		{"keyword=chocolate", 1},
		{"keyword=penne&category=Italian", 11},
		{"keyword=%25", 0},
		{"user=" + ownerID, 11},
	}
	for _, c := range cases {
		rec := do(t, srv, http.MethodGet, "/api/recipes?"+c.query, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", c.query, rec.Code)
		}
		var resp recipeListResponse
		decodeResponse(t, rec, &resp)
		if resp.Total != c.want {
			t.Fatalf("%s: total = %d, want %d", c.query, resp.Total, c.want)
		}
	}

	rec = do(t, srv, http.MethodGet, "/api/recipes?sortBy=most-recent", "", "")
	decodeResponse(t, rec, &page)
	if page.Recipes[0].Title != "Brownies" {
		t.Fatalf("most-recent first = %q, want Brownies", page.Recipes[0].Title)
	}

	expectError(t, do(t, srv, http.MethodGet, "/api/recipes?category=Thai", "", ""), http.StatusBadRequest, "BAD_REQUEST")
}

func TestRecipePDF(t *testing.T) {
	srv := buildTestServer(t, nil)
	_, token := registerUser(t, srv, "printer")
	recipe := createRecipe(t, srv, token, "Curry", "Indian", "rice", "spices")

	rec := do(t, srv, http.MethodGet, "/api/recipes/"+recipe.ID+"/pdf", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "recipe-"+recipe.ID+".pdf") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF")
	}

	expectError(t, do(t, srv, http.MethodGet, "/api/recipes/00000000-0000-0000-0000-000000000000/pdf", "", ""), http.StatusNotFound, "NOT_FOUND")
}

func BenchmarkHandleAddReview(b *testing.B) {
	srv := buildTestServer(b, nil)
	_, ownerToken := registerUser(b, srv, "benchowner")
	recipe := createRecipe(b, srv, ownerToken, "Benchmark Stew", "Other", "water")

	tokens := make([]string, b.N)
	for i := range tokens {
		_, tokens[i] = registerUser(b, srv, fmt.Sprintf("bench%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := do(b, srv, http.MethodPost, "/api/recipes/"+recipe.ID+"/reviews", `{"rating":4}`, tokens[i])
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
