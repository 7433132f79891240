package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"transferdesk/internal/model"
	"transferdesk/internal/service"
)

type RegionProvider interface {
	Create(ctx context.Context, name string) (*model.Region, error)
	Get(ctx context.Context, id string) (*model.Region, error)
	List(ctx context.Context, page, limit int, search string) (*model.RegionPage, error)
	Update(ctx context.Context, id string, in service.UpdateRegionInput) (*model.Region, error)
	Delete(ctx context.Context, id string) error
}

type createRegionRequest struct {
	Name string `json:"name" validate:"required"`
}

func CreateRegionHandler(regionSvc RegionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRegionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		region, err := regionSvc.Create(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, region)
	}
}

func ListRegionsHandler(regionSvc RegionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)
		search := r.URL.Query().Get("search")

		regions, err := regionSvc.List(r.Context(), page, limit, search)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, regions)
	}
}

func GetRegionHandler(regionSvc RegionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region, err := regionSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, region)
	}
}

func UpdateRegionHandler(regionSvc RegionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.UpdateRegionInput
		if !decodeAndValidate(w, r, &req) {
			return
		}

		region, err := regionSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, region)
	}
}

func DeleteRegionHandler(regionSvc RegionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := regionSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
