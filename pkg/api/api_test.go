package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare/pkg/logger"
	"rideshare/pkg/maps"
	"rideshare/pkg/models"
	"rideshare/service"
	"rideshare/storage/memory"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type staticBrief string

func (s staticBrief) SafetyBrief(context.Context, string, string) string { return string(s) }

type env struct {
	router    *gin.Engine
	svc       service.IServiceManager
	ride      *models.Ride
	passenger *models.User
	driver    *models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	now := func() time.Time { return testNow }

	store, err := memory.New(ctx, memory.NewBlob(), memory.Options{Now: now}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	svc, err := service.New(ctx, store, service.Options{Now: now}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	p, err := svc.Auth().Signup(ctx, service.SignupProfile{FirstName: "Emma", Email: "emma@example.com", Role: models.RolePassenger})
	require.NoError(t, err)
	d, err := svc.Auth().Signup(ctx, service.SignupProfile{FirstName: "Sarah", Email: "sarah@example.com", Role: models.RoleDriver})
	require.NoError(t, err)
	_, err = svc.Driver().SubmitApplication(ctx, d.ID,
		models.Vehicle{Make: "Toyota", Model: "RAV4", Year: "2023", Plate: "ABC123"},
		map[models.DocumentType]string{
			models.DocumentLicense: "l", models.DocumentInsurance: "i", models.DocumentPhoto: "p",
		})
	require.NoError(t, err)
	d, err = svc.Driver().Approve(ctx, d.ID)
	require.NoError(t, err)

	dep := testNow.Add(24 * time.Hour)
	ride, err := svc.Ride().Publish(ctx, d.ID, service.RideDraft{
		Origin: "Toronto", Destination: "Montreal",
		DepartureTime: dep, ArrivalTime: dep.Add(6 * time.Hour),
		Price: 40, Currency: "CAD", TotalSeats: 3,
	})
	require.NoError(t, err)

	return &env{
		router:    NewRouter(svc, staticBrief("Drive safe."), maps.NewStatic(""), logger.Nop()),
		svc:       svc,
		ride:      ride,
		passenger: p,
		driver:    d,
	}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestAPI_SearchRides(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/api/rides?from=toronto&seats=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rides []models.Ride
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rides))
	require.Len(t, rides, 1)
	assert.Equal(t, e.ride.ID, rides[0].ID)

	w = e.do(http.MethodGet, "/api/rides?seats=4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = e.do(http.MethodGet, "/api/rides?seats=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_GetRideAndBrief(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/api/rides/"+e.ride.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"seatsAvailable":3`)

	w = e.do(http.MethodGet, "/api/rides/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"NOT_FOUND"`)

	w = e.do(http.MethodGet, "/api/rides/"+e.ride.ID+"/brief", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rideId":"`+e.ride.ID+`","brief":"Drive safe."}`, w.Body.String())
}

func TestAPI_BookRide(t *testing.T) {
	e := setup(t)
	path := "/api/rides/" + e.ride.ID + "/bookings"

	w := e.do(http.MethodPost, path, `{"passengerId":"`+e.passenger.ID+`","seats":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, 2, b.Seats)
	assert.Equal(t, 80, b.TotalPrice)

	w = e.do(http.MethodPost, path, `{"passengerId":"`+e.passenger.ID+`","seats":2}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_SEATS")

	w = e.do(http.MethodPost, path, `{"passengerId":"`+e.passenger.ID+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/passengers/"+e.passenger.ID+"/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	assert.Len(t, tickets, 1)
}

func TestAPI_PendingDriversHideDocuments(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	d, err := e.svc.Auth().Signup(ctx, service.SignupProfile{FirstName: "Marc", Email: "marc@example.com", Role: models.RoleDriver})
	require.NoError(t, err)
	_, err = e.svc.Driver().SubmitApplication(ctx, d.ID,
		models.Vehicle{Make: "Honda", Model: "Civic", Year: "2021", Plate: "XYZ789"},
		map[models.DocumentType]string{
			models.DocumentLicense: "secret-l", models.DocumentInsurance: "secret-i", models.DocumentPhoto: "secret-p",
		})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/api/drivers/pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), d.ID)
	assert.NotContains(t, w.Body.String(), "secret-l")
}

func TestAPI_StaticMap(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/api/maps/static?address=Toronto", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"`+maps.PlaceholderURL+`"}`, w.Body.String())
}

func TestAPI_CORSPreflight(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodOptions, "/api/rides", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
