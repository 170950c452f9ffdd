package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ListStationCategories handles GET /stations/categories.
func (s *Server) ListStationCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Stations.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(cats, categoryToResponse))
}

// ListStationSubcategories handles GET /stations/subcategories?category_id=.
func (s *Server) ListStationSubcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := queryID(w, r, "category_id")
	if !ok {
		return
	}
	subs, err := s.Stations.ListSubcategories(r.Context(), categoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(subs, subcategoryToResponse))
}

// ListStations handles GET /stations?subcategory_id=. Only active stations
// are listed.
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	subcategoryID, ok := queryID(w, r, "subcategory_id")
	if !ok {
		return
	}
	stations, err := s.Stations.ListActiveStations(r.Context(), subcategoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(stations, stationToResponse))
}

// --- admin ------------------------------------------------------------------

// AdminListStations handles GET /admin/stations, inactive stations included.
func (s *Server) AdminListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.Stations.ListAllStations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(stations, stationToResponse))
}

// AdminCreateCategory handles POST /admin/stations/categories.
func (s *Server) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body CategoryRequest
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.Stations.CreateCategory(r.Context(), body.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryToResponse(c))
}

// AdminUpdateCategory handles PUT /admin/stations/categories/{id}.
func (s *Server) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body CategoryRequest
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.Stations.UpdateCategory(r.Context(), id, body.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryToResponse(c))
}

// AdminDeleteCategory handles DELETE /admin/stations/categories/{id}.
func (s *Server) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.noContentByID(w, r, s.Stations.DeleteCategory)
}

// AdminCreateSubcategory handles POST /admin/stations/subcategories.
func (s *Server) AdminCreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var body SubcategoryRequest
	if !s.decode(w, r, &body) {
		return
	}
	sc, err := s.Stations.CreateSubcategory(r.Context(), domain.StationSubcategory{CategoryID: body.CategoryID, Name: body.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subcategoryToResponse(sc))
}

// AdminUpdateSubcategory handles PUT /admin/stations/subcategories/{id}.
func (s *Server) AdminUpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body SubcategoryRequest
	if !s.decode(w, r, &body) {
		return
	}
	sc, err := s.Stations.UpdateSubcategory(r.Context(), domain.StationSubcategory{ID: id, CategoryID: body.CategoryID, Name: body.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subcategoryToResponse(sc))
}

// AdminDeleteSubcategory handles DELETE /admin/stations/subcategories/{id}.
func (s *Server) AdminDeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	s.noContentByID(w, r, s.Stations.DeleteSubcategory)
}

// AdminCreateStation handles POST /admin/stations/stations.
// New stations are active unless is_active is false.
func (s *Server) AdminCreateStation(w http.ResponseWriter, r *http.Request) {
	var body StationRequest
	if !s.decode(w, r, &body) {
		return
	}
	st, err := s.Stations.CreateStation(r.Context(), body.toDomain(uuid.Nil))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stationToResponse(st))
}

// AdminUpdateStation handles PUT /admin/stations/stations/{id}.
func (s *Server) AdminUpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body StationRequest
	if !s.decode(w, r, &body) {
		return
	}
	st, err := s.Stations.UpdateStation(r.Context(), body.toDomain(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stationToResponse(st))
}

// AdminDeleteStation handles DELETE /admin/stations/stations/{id}.
func (s *Server) AdminDeleteStation(w http.ResponseWriter, r *http.Request) {
	s.noContentByID(w, r, s.Stations.DeleteStation)
}

func (b StationRequest) toDomain(id uuid.UUID) domain.Station {
	st := domain.Station{ID: id, SubcategoryID: b.SubcategoryID, Name: b.Name, IsActive: true}
	if b.IsActive != nil {
		st.IsActive = *b.IsActive
	}
	return st
}

// noContentByID runs fn for the {id} path parameter and answers 204.
func (s *Server) noContentByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := fn(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
