package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/handler"
)

// ---- public taxonomy -------------------------------------------------------

func TestListStationSubcategories_FiltersByCategory(t *testing.T) {
	categoryID := uuid.New()
	svc := &mockStations{listSubcategories: func(_ context.Context, got *uuid.UUID) ([]domain.StationSubcategory, error) {
		require.NotNil(t, got)
		assert.Equal(t, categoryID, *got)
		return []domain.StationSubcategory{{ID: uuid.New(), CategoryID: categoryID, Name: "Cardiology"}}, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodGet, "/stations/subcategories?category_id="+categoryID.String(), "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cardiology", decode[[]handler.StationSubcategory](t, rec)[0].Name)
}

func TestListStations_NoFilter_PassesNil(t *testing.T) {
	svc := &mockStations{listActiveStations: func(_ context.Context, got *uuid.UUID) ([]domain.Station, error) {
		assert.Nil(t, got)
		return nil, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodGet, "/stations", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListStations_BadFilter_422(t *testing.T) {
	rec := do(newHTTPHandler(handler.Deps{Stations: &mockStations{}}), http.MethodGet, "/stations?subcategory_id=cardio", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListStationCategories_200(t *testing.T) {
	svc := &mockStations{listCategories: func(context.Context) ([]domain.StationCategory, error) {
		return []domain.StationCategory{{ID: uuid.New(), Name: "Medicine"}}, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodGet, "/stations/categories", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Medicine", decode[[]handler.StationCategory](t, rec)[0].Name)
}

// ---- admin -----------------------------------------------------------------

func TestAdminCreateStation_DefaultsToActive(t *testing.T) {
	subID := uuid.New()
	var got domain.Station
	svc := &mockStations{createStation: func(_ context.Context, st domain.Station) (domain.Station, error) {
		got = st
		st.ID = uuid.New()
		return st, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodPost, "/admin/stations/stations", "admin",
		jsonBody(t, map[string]any{"subcategory_id": subID, "name": "Chest pain"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.Station{SubcategoryID: subID, Name: "Chest pain", IsActive: true}, got)
}

func TestAdminUpdateStation_Deactivates(t *testing.T) {
	id := uuid.New()
	var got domain.Station
	svc := &mockStations{updateStation: func(_ context.Context, st domain.Station) (domain.Station, error) {
		got = st
		return st, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodPut, "/admin/stations/stations/"+id.String(), "admin",
		jsonBody(t, map[string]any{"subcategory_id": uuid.New(), "name": "Chest pain", "is_active": false}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.IsActive)
}

func TestAdminCreateSubcategory_MissingParent_422(t *testing.T) {
	rec := do(newHTTPHandler(handler.Deps{Stations: &mockStations{}}), http.MethodPost, "/admin/stations/subcategories", "admin",
		jsonBody(t, map[string]any{"name": "Cardiology"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "category_id is required", decodeError(t, rec).Error.Message)
}

func TestAdminDeleteCategory_WithChildren_409(t *testing.T) {
	svc := &mockStations{deleteCategory: func(context.Context, uuid.UUID) error {
		return fmt.Errorf("%w: category still has subcategories", domain.ErrConflict)
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodDelete, "/admin/stations/categories/"+uuid.NewString(), "admin", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "category still has subcategories", decodeError(t, rec).Error.Message)
}

func TestAdminUpdateCategory_200(t *testing.T) {
	id := uuid.New()
	svc := &mockStations{updateCategory: func(_ context.Context, got uuid.UUID, name string) (domain.StationCategory, error) {
		return domain.StationCategory{ID: got, Name: name}, nil
	}}

	rec := do(newHTTPHandler(handler.Deps{Stations: svc}), http.MethodPut, "/admin/stations/categories/"+id.String(), "admin",
		jsonBody(t, map[string]any{"name": "Surgery"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.StationCategory{ID: id, Name: "Surgery"}, decode[handler.StationCategory](t, rec))
}
