package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matst80/compare-finder/pkg/auth"
	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/common"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/matst80/compare-finder/pkg/types"
	"go.uber.org/zap"
)

var planSchema = types.Schema{
	{Name: "name", Kind: types.FacetTextType, Searchable: true},
	{Name: "provider", Attribute: "brand", Kind: types.FacetKeyType, Searchable: true},
	{Name: "restaurants", Kind: types.FacetKeysType},
	{Name: "has4G", Kind: types.FacetBoolType},
	{Name: "price", Kind: types.FacetNumberType},
}

func planRecords() []map[string]any {
	return []map[string]any{
		{"id": 1.0, "name": "Robi 30 days", "brand": "Robi", "restaurants": []any{"KFC", "Pizza Hut"}, "has4G": true, "price": 300.0},
		{"id": 2.0, "name": "Airtel weekly", "brand": "Airtel", "has4G": false, "price": 200.0},
		{"id": 3.0, "name": "Robi starter", "brand": "Robi", "has4G": true, "price": 150.0},
	}
}

const testSecret = "test-secret"

func planSource(records func() []map[string]any) catalog.Source {
	return catalog.SourceFunc(func(_ context.Context, category string) ([]map[string]any, error) {
		if category == "mobile-plans" {
			return records(), nil
		}
		return []map[string]any{}, nil
	})
}

func testServer(t *testing.T) (*WebServer, http.Handler) {
	t.Helper()
	return testServerWith(t, planSource(planRecords), compare.NewMemoryStore(time.Hour))
}

func testServerWith(t *testing.T, src catalog.Source, store compare.Store) (*WebServer, http.Handler) {
	t.Helper()
	registry, err := catalog.NewRegistry(src, zap.NewNop(),
		types.Category{Name: "mobile-plans", Title: "Mobile plans", Schema: planSchema},
		types.Category{Name: "broadband", Schema: types.Schema{{Name: "speed", Kind: types.FacetNumberType}}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = registry.Reload(context.Background(), "mobile-plans"); err != nil {
		t.Fatal(err)
	}
	ws := NewWebServer(registry, store, auth.NewTokenVerifier(testSecret), zap.NewNop())
	return ws, ws.Handler()
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
	token   string
}

func (c *client) do(method, target string, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == common.SessionCookieName {
			c.cookies = []*http.Cookie{cookie}
		}
	}
	return rec
}

func decode[V any](t *testing.T, rec *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	if err := jsoncompat.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Could not decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type itemsBody struct {
	Items         []map[string]any `json:"items"`
	TotalCount    int              `json:"totalCount"`
	FilteredCount int              `json:"filteredCount"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
	Sort          string           `json:"sort"`
}

func ids(items []map[string]any) []string {
	ret := make([]string, 0, len(items))
	for _, item := range items {
		ret = append(ret, item["id"].(string))
	}
	return ret
}

func TestHealth(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	if rec := c.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("Unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCategories(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	rec := c.do(http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decode[[]struct {
		Name    string `json:"name"`
		Loaded  bool   `json:"loaded"`
		Records int    `json:"records"`
	}](t, rec)
	if len(body) != 2 || body[0].Name != "mobile-plans" || !body[0].Loaded || body[0].Records != 3 {
		t.Errorf("Unexpected categories %+v", body)
	}
	if body[1].Loaded {
		t.Errorf("Expected broadband to be unloaded")
	}
}

func TestUnknownAndUnloadedCategory(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	if rec := c.do(http.MethodGet, "/api/tv/search", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown category, got %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/api/broadband/search", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 for unloaded category, got %d", rec.Code)
	}
}

func TestSearchFilterAndSort(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	rec := c.do(http.MethodGet, "/api/mobile-plans/search?str=provider:Robi&sort=price", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[itemsBody](t, rec)
	if !reflect.DeepEqual(ids(body.Items), []string{"3", "1"}) {
		t.Errorf("Expected [3 1], got %v", ids(body.Items))
	}
	if body.TotalCount != 3 || body.FilteredCount != 2 || body.Sort != "price" {
		t.Errorf("Unexpected counts %+v", body)
	}
	if body.Items[0]["brand"] != "Robi" {
		t.Errorf("Expected raw attributes in items, got %v", body.Items[0])
	}
}

func TestSearchRangeAndBool(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	rec := c.do(http.MethodGet, "/api/mobile-plans/search?rng=price:180-&bool=has4G:true&sort=price_desc", "")
	body := decode[itemsBody](t, rec)
	if !reflect.DeepEqual(ids(body.Items), []string{"1"}) {
		t.Errorf("Expected [1], got %v", ids(body.Items))
	}
}

func TestSearchPost(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	rec := c.do(http.MethodPost, "/api/mobile-plans/search",
		`{"query":"robi","range":[{"field":"price","min":100,"max":200}],"sort":"price","pageSize":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[itemsBody](t, rec)
	if !reflect.DeepEqual(ids(body.Items), []string{"3"}) {
		t.Errorf("Expected [3], got %v", ids(body.Items))
	}
	if body.PageSize != 10 {
		t.Errorf("Expected page size 10, got %d", body.PageSize)
	}
}

func TestSearchBadJson(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	if rec := c.do(http.MethodPost, "/api/mobile-plans/search", `{"query":`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestSearchPaging(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	body := decode[itemsBody](t, c.do(http.MethodGet, "/api/mobile-plans/search?sort=price&size=2&page=1", ""))
	if !reflect.DeepEqual(ids(body.Items), []string{"1"}) || body.FilteredCount != 3 {
		t.Errorf("Expected second page [1] of 3, got %v (%d)", ids(body.Items), body.FilteredCount)
	}
}

func TestFacets(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	rec := c.do(http.MethodGet, "/api/mobile-plans/facets?str=provider:Robi", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decode[struct {
		Options map[string][]string `json:"options"`
		Facets  struct {
			Provider struct {
				Values map[string]int `json:"values"`
			} `json:"provider"`
			Price struct {
				Min   float64 `json:"min"`
				Max   float64 `json:"max"`
				Count int     `json:"count"`
			} `json:"price"`
		} `json:"facets"`
		FilteredCount int `json:"filteredCount"`
	}](t, rec)
	if !reflect.DeepEqual(body.Options["provider"], []string{"Airtel", "Robi"}) {
		t.Errorf("Unexpected provider options %v", body.Options["provider"])
	}
	if !reflect.DeepEqual(body.Options["restaurants"], []string{"KFC", "Pizza Hut"}) {
		t.Errorf("Unexpected restaurant options %v", body.Options["restaurants"])
	}
	if !reflect.DeepEqual(body.Facets.Provider.Values, map[string]int{"Robi": 2, "Airtel": 1}) {
		t.Errorf("Expected provider counts to ignore the provider filter, got %v", body.Facets.Provider.Values)
	}
	if body.Facets.Price.Min != 150 || body.Facets.Price.Max != 300 || body.Facets.Price.Count != 2 {
		t.Errorf("Unexpected price bounds %+v", body.Facets.Price)
	}
	if body.FilteredCount != 2 {
		t.Errorf("Expected 2 filtered records, got %d", body.FilteredCount)
	}
}

type compareBody struct {
	Ids     []string         `json:"ids"`
	Items   []map[string]any `json:"items"`
	MaxSize int              `json:"maxSize"`
	Full    bool             `json:"full"`
	Changed bool             `json:"changed"`
	NoOp    bool             `json:"noop"`
}

func TestCompareFlow(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}

	body := decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Ids) != 0 || body.MaxSize != compare.DefaultMaxSize {
		t.Fatalf("Expected empty selection, got %+v", body)
	}

	body = decode[compareBody](t, c.do(http.MethodPost, "/api/mobile-plans/compare/1", ""))
	if !body.Changed || !reflect.DeepEqual(body.Ids, []string{"1"}) {
		t.Errorf("Expected [1], got %+v", body)
	}
	body = decode[compareBody](t, c.do(http.MethodPost, "/api/mobile-plans/compare/3", ""))
	if !body.Full || !reflect.DeepEqual(body.Ids, []string{"1", "3"}) {
		t.Errorf("Expected full [1 3], got %+v", body)
	}
	body = decode[compareBody](t, c.do(http.MethodPost, "/api/mobile-plans/compare/2", ""))
	if body.Changed || !body.NoOp || !reflect.DeepEqual(body.Ids, []string{"1", "3"}) {
		t.Errorf("Expected no-op on full selection, got %+v", body)
	}

	body = decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Items) != 2 || body.Items[1]["name"] != "Robi starter" {
		t.Errorf("Expected both records side by side, got %+v", body.Items)
	}

	body = decode[compareBody](t, c.do(http.MethodPost, "/api/mobile-plans/compare/1", ""))
	if !body.Changed || !reflect.DeepEqual(body.Ids, []string{"3"}) {
		t.Errorf("Expected toggle to remove 1, got %+v", body)
	}

	if rec := c.do(http.MethodDelete, "/api/mobile-plans/compare", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected 200 on clear, got %d", rec.Code)
	}
	body = decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Ids) != 0 {
		t.Errorf("Expected cleared selection, got %v", body.Ids)
	}
}

func TestCompareSessionsAreSeparate(t *testing.T) {
	_, h := testServer(t)
	first := &client{t: t, handler: h}
	second := &client{t: t, handler: h}
	first.do(http.MethodPost, "/api/mobile-plans/compare/1", "")
	body := decode[compareBody](t, second.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Ids) != 0 {
		t.Errorf("Expected other session to be empty, got %v", body.Ids)
	}
}

func TestCompareUnknownId(t *testing.T) {
	_, h := testServer(t)
	c := &client{t: t, handler: h}
	if rec := c.do(http.MethodPost, "/api/mobile-plans/compare/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestCompareMaxSize(t *testing.T) {
	ws, _ := testServer(t)
	ws.MaxCompare = 3
	c := &client{t: t, handler: ws.Handler()}
	for _, id := range []string{"1", "2", "3"} {
		c.do(http.MethodPost, "/api/mobile-plans/compare/"+id, "")
	}
	body := decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Ids) != 3 || body.MaxSize != 3 {
		t.Errorf("Expected three selected, got %+v", body)
	}
}

func TestReloadRequiresAdmin(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret)
	admin, _ := verifier.Issue("kim", time.Hour, auth.AdminRole)
	user, _ := verifier.Issue("lee", time.Hour, "user")

	ws, h := testServer(t)
	anonymous := &client{t: t, handler: h}
	if rec := anonymous.do(http.MethodPost, "/admin/mobile-plans/reload", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
	plain := &client{t: t, handler: h, token: user}
	if rec := plain.do(http.MethodPost, "/admin/mobile-plans/reload", ""); rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
	privileged := &client{t: t, handler: h, token: admin}
	rec := privileged.do(http.MethodPost, "/admin/mobile-plans/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[ReloadResponse](t, rec)
	current, _ := ws.Registry.Get("mobile-plans")
	if body.Version != current.Version || body.Records != 3 {
		t.Errorf("Unexpected reload response %+v", body)
	}
	if rec := privileged.do(http.MethodPost, "/admin/tv/reload", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown category, got %d", rec.Code)
	}
}

func TestReloadClearsSelections(t *testing.T) {
	repriced := false
	ws, h := testServerWith(t, planSource(func() []map[string]any {
		records := planRecords()
		if repriced {
			records[0]["price"] = 250.0
		}
		return records
	}), compare.NewMemoryStore(time.Hour))
	notified := []string{}
	ws.Notify = func(category string) error {
		notified = append(notified, category)
		return nil
	}
	admin, _ := ws.Verifier.Issue("kim", time.Hour, auth.AdminRole)
	c := &client{t: t, handler: h}
	c.do(http.MethodPost, "/api/mobile-plans/compare/1", "")

	repriced = true
	(&client{t: t, handler: h, token: admin}).do(http.MethodPost, "/admin/mobile-plans/reload", "")

	body := decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if len(body.Ids) != 0 {
		t.Errorf("Expected selection to be cleared by the reload, got %v", body.Ids)
	}
	if !reflect.DeepEqual(notified, []string{"mobile-plans"}) {
		t.Errorf("Expected change notification, got %v", notified)
	}
}

func TestSelectionSharedBetweenReplicas(t *testing.T) {
	store := compare.NewMemoryStore(time.Hour)
	a, ha := testServerWith(t, planSource(planRecords), store)
	_, hb := testServerWith(t, planSource(planRecords), store)
	ctx := context.Background()
	for range 2 {
		if _, err := a.Registry.Reload(ctx, "mobile-plans"); err != nil {
			t.Fatal(err)
		}
	}

	ca := &client{t: t, handler: ha}
	ca.do(http.MethodPost, "/api/mobile-plans/compare/2", "")
	cb := &client{t: t, handler: hb, cookies: ca.cookies}
	body := decode[compareBody](t, cb.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if !reflect.DeepEqual(body.Ids, []string{"2"}) {
		t.Errorf("Expected selection made on one replica to be read on the other, got %v", body.Ids)
	}
}

func TestUnchangedReloadKeepsSelections(t *testing.T) {
	ws, h := testServer(t)
	c := &client{t: t, handler: h}
	c.do(http.MethodPost, "/api/mobile-plans/compare/3", "")
	if _, err := ws.Registry.Reload(context.Background(), "mobile-plans"); err != nil {
		t.Fatal(err)
	}
	body := decode[compareBody](t, c.do(http.MethodGet, "/api/mobile-plans/compare", ""))
	if !reflect.DeepEqual(body.Ids, []string{"3"}) {
		t.Errorf("Expected selection to survive reloading the same data, got %v", body.Ids)
	}
}

func TestAdminWithoutVerifier(t *testing.T) {
	ws, _ := testServer(t)
	ws.Verifier = nil
	c := &client{t: t, handler: ws.Handler()}
	if rec := c.do(http.MethodPost, "/admin/mobile-plans/reload", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}
