package parcels_api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/BearBump/ParcelBox/internal/services/parcels"
	parcelsmocks "github.com/BearBump/ParcelBox/internal/services/parcels/mocks"
)

func newTestAPI(t *testing.T) (*parcelsmocks.MockRepository, *httptest.Server) {
	t.Helper()
	repo := &parcelsmocks.MockRepository{}
	svc := parcels.New(repo, nil, nil, 0)
	srv := httptest.NewServer(New(svc).Routes())
	t.Cleanup(srv.Close)
	return repo, srv
}

func TestGetParcel_OK(t *testing.T) {
	repo, srv := newTestAPI(t)

	now := time.Now().UTC()
	repo.On("GetByTrackingNumber", mock.Anything, "TRK001").
		Return(&models.Parcel{ID: "id-1", TrackingNumber: "TRK001", Status: "Pending", CreatedAt: now, UpdatedAt: now}, nil).
		Once()

	resp, err := http.Get(srv.URL + "/api/parcels/TRK001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "id-1", body["id"])
	require.Equal(t, "Pending", body["status"])
}

func TestGetParcel_NotFound(t *testing.T) {
	repo, srv := newTestAPI(t)

	repo.On("GetByTrackingNumber", mock.Anything, "NOPE").
		Return((*models.Parcel)(nil), models.ErrNotFound).
		Once()

	resp, err := http.Get(srv.URL + "/api/parcels/NOPE")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateParcel_Created(t *testing.T) {
	repo, srv := newTestAPI(t)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := http.Post(srv.URL+"/api/parcels", "application/json",
		bytes.NewBufferString(`{"trackingNumber":"TRK001"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "TRK001", body["trackingNumber"])
	require.Equal(t, models.DefaultParcelStatus, body["status"])
	require.NotEmpty(t, body["id"])
}

func TestCreateParcel_Conflict(t *testing.T) {
	repo, srv := newTestAPI(t)

	repo.On("Insert", mock.Anything, mock.Anything).Return(models.ErrConflict).Once()

	resp, err := http.Post(srv.URL+"/api/parcels", "application/json",
		bytes.NewBufferString(`{"trackingNumber":"TRK001"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateParcel_Validation(t *testing.T) {
	_, srv := newTestAPI(t)

	resp, err := http.Post(srv.URL+"/api/parcels", "application/json",
		bytes.NewBufferString(`{"trackingNumber":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/parcels", "application/json",
		bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateParcelStatus_OK(t *testing.T) {
	repo, srv := newTestAPI(t)

	stored := &models.Parcel{ID: "id-1", TrackingNumber: "TRK001", Status: "Pending"}
	repo.On("GetByID", mock.Anything, "id-1").Return(stored, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/parcels/id-1/status",
		bytes.NewBufferString(`{"status":"Delivered"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Delivered", body["status"])
}

func TestUpdateParcelStatus_NotFound(t *testing.T) {
	repo, srv := newTestAPI(t)

	repo.On("GetByID", mock.Anything, "missing").
		Return((*models.Parcel)(nil), models.ErrNotFound).
		Once()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/parcels/missing/status",
		bytes.NewBufferString(`{"status":"Delivered"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListParcels_OK(t *testing.T) {
	repo, srv := newTestAPI(t)

	repo.On("ListAll", mock.Anything).
		Return([]*models.Parcel{{ID: "id-1"}, {ID: "id-2"}}, nil).
		Once()

	resp, err := http.Get(srv.URL + "/api/parcels")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
}
