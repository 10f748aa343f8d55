package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/matst80/compare-finder/pkg/facet"
	"github.com/matst80/compare-finder/pkg/index"
	"github.com/matst80/compare-finder/pkg/types"
	"go.uber.org/zap"
)

func (ws *WebServer) Categories(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	categories := ws.Registry.Categories()
	ret := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res := CategoryResponse{Category: cat}
		if c, ok := ws.Registry.Get(cat.Name); ok {
			res.Loaded = true
			res.Records = c.Len()
			res.Version = c.Version
		}
		ret = append(ret, res)
	}
	publicHeaders(w, r, "60")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ret)
}

func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.catalogFromRequest(w, r)
	if c == nil {
		return nil
	}
	filters, err := types.GetFiltersFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	facetRequests.WithLabelValues(c.Category).Inc()

	defaultHeaders(w, r, "60")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(FacetsResponse{
		Options:       facet.CatalogFacetIndex(c),
		Facets:        facet.Counts(c, filters, c.Schema.FilterNames()),
		TotalCount:    c.Len(),
		FilteredCount: len(index.Filter(c, filters)),
	})
}

func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.catalogFromRequest(w, r)
	if c == nil {
		return nil
	}
	s := time.Now()
	sr, err := types.GetQueryFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	noSearches.WithLabelValues(c.Category).Inc()

	result := index.Project(c, sr.Filters, sr.GetSort())
	elapsed := time.Since(s)
	searchDuration.WithLabelValues(c.Category).Observe(elapsed.Seconds())

	defaultHeaders(w, r, "10")
	w.Header().Set("x-duration", fmt.Sprintf("%v", elapsed))
	w.WriteHeader(http.StatusOK)
	return enc.Encode(SearchResponse{
		Page:     result.Paged(sr.Page, sr.PageSize),
		Sort:     sr.GetSort().String(),
		Duration: fmt.Sprintf("%v", elapsed),
	})
}

func compareResponse(c *types.Catalog, s *compare.Selection) CompareResponse {
	return CompareResponse{
		Fields:  c.Schema,
		Ids:     s.Ids(),
		Items:   s.Records(c),
		MaxSize: s.MaxSize(),
		Full:    s.IsFull(),
	}
}

func (ws *WebServer) GetCompare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.catalogFromRequest(w, r)
	if c == nil {
		return nil
	}
	s, err := compare.Load(r.Context(), ws.Store, sessionId, c, ws.maxCompare())
	if err != nil {
		http.Error(w, "could not load selection", http.StatusInternalServerError)
		return err
	}
	noCacheHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(compareResponse(c, s))
}

func (ws *WebServer) ToggleCompare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.catalogFromRequest(w, r)
	if c == nil {
		return nil
	}
	id := types.RecordId(r.PathValue("id"))
	if _, ok := c.Get(id); !ok {
		http.Error(w, "unknown record", http.StatusNotFound)
		return nil
	}
	s, err := compare.Load(r.Context(), ws.Store, sessionId, c, ws.maxCompare())
	if err != nil {
		http.Error(w, "could not load selection", http.StatusInternalServerError)
		return err
	}
	wasSelected := s.Contains(id)
	changed := s.Toggle(id)
	result := "noop"
	if changed {
		if err = compare.Save(r.Context(), ws.Store, sessionId, c, s); err != nil {
			http.Error(w, "could not save selection", http.StatusInternalServerError)
			return err
		}
		result = "added"
		if wasSelected {
			result = "removed"
		}
	}
	compareToggles.WithLabelValues(c.Category, result).Inc()
	ws.Logger.Debug("compare toggled",
		zap.String("category", c.Category),
		zap.String("id", string(id)),
		zap.String("result", result))

	noCacheHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ToggleResponse{
		CompareResponse: compareResponse(c, s),
		Id:              id,
		Changed:         changed,
		NoOp:            !changed,
	})
}

func (ws *WebServer) ClearCompare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.catalogFromRequest(w, r)
	if c == nil {
		return nil
	}
	if err := ws.Store.Delete(r.Context(), sessionId, c.Category); err != nil {
		http.Error(w, "could not clear selection", http.StatusInternalServerError)
		return err
	}
	noCacheHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(compareResponse(c, compare.NewSelection(ws.maxCompare())))
}
