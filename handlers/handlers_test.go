package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/gymapi/config"
	mw "github.com/padraicbc/gymapi/middleware"
	"github.com/padraicbc/gymapi/repository/repotest"
	"github.com/padraicbc/gymapi/service"
)

var jwtKey = []byte("handler-test-key")

type api struct {
	t     *testing.T
	e     *echo.Echo
	store *repotest.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := repotest.New()
	svc := service.New(service.Deps{
		Store:      store,
		Logger:     zap.NewNop(),
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})

	e := echo.New()
	e.Validator = NewValidator()
	limit := mw.RateLimit(config.RateLimitConfig{Capacity: 1, RefillInterval: time.Second}, nil, zap.NewNop())
	New(svc, jwtKey, zap.NewNop()).Register(e, mw.JWT(jwtKey), mw.Credentials(), limit)
	return &api{t: t, e: e, store: store}
}

type call struct {
	method, path, body string
	user, pass         string
	token              string
}

func (a *api) do(c call) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *api) register(path, body string) registrationView {
	a.t.Helper()
	rec := a.do(call{method: http.MethodPost, path: path, body: body})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[registrationView](a.t, rec)
}

func (a *api) signin(username, password string) string {
	a.t.Helper()
	rec := a.do(call{method: http.MethodPost, path: "/gym/signin",
		body: `{"username":"` + username + `","password":"` + password + `"}`})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](a.t, rec)["token"]
}

// seed registers john.smith and a Yoga trainer alice.smith.
func (a *api) seed() (trainee, trainer registrationView) {
	a.t.Helper()
	trainee = a.register("/gym/trainees", `{"firstName":"John","lastName":"Smith","dateOfBirth":"1990-05-17"}`)
	token := a.signin(trainee.Username, trainee.Password)
	rec := a.do(call{method: http.MethodPost, path: "/gym/training-types", body: `{"name":"Yoga"}`, token: token})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	trainer = a.register("/gym/trainers", `{"firstName":"Alice","lastName":"Smith","specialization":"yoga"}`)
	return trainee, trainer
}

func TestRegisterAndSignin(t *testing.T) {
	a := newAPI(t)
	reg := a.register("/gym/trainees", `{"firstName":"John","lastName":"Smith"}`)
	assert.Equal(t, "john.smith", reg.Username)
	assert.Len(t, reg.Password, 10)

	token := a.signin(reg.Username, reg.Password)
	assert.NotEmpty(t, token)

	rec := a.do(call{method: http.MethodPost, path: "/gym/signin", body: `{"username":"john.smith","password":"nope"}`})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(call{method: http.MethodGet, path: "/gym/training-types", token: token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(call{method: http.MethodGet, path: "/gym/training-types"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t)

	rec := a.do(call{method: http.MethodPost, path: "/gym/trainees", body: `{"firstName":"John"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "lastName is required")

	rec = a.do(call{method: http.MethodPost, path: "/gym/trainees", body: `{"firstName":"John","lastName":"Smith","dateOfBirth":"17/05/1990"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "dateOfBirth must be a YYYY-MM-DD date")

	rec = a.do(call{method: http.MethodPost, path: "/gym/trainers", body: `{"firstName":"Alice","lastName":"Smith","specialization":"Boxing"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, a.store.UserRows)
}

func TestTraineeProfile(t *testing.T) {
	a := newAPI(t)
	trainee, _ := a.seed()

	rec := a.do(call{method: http.MethodGet, path: "/gym/trainees/me", user: trainee.Username, pass: trainee.Password})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[traineeView](t, rec)
	assert.Equal(t, "john.smith", v.Username)
	assert.Equal(t, "1990-05-17", v.DateOfBirth)
	assert.True(t, v.IsActive)

	rec = a.do(call{method: http.MethodGet, path: "/gym/trainees/me", user: trainee.Username, pass: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(call{method: http.MethodGet, path: "/gym/trainees/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(call{method: http.MethodPut, path: "/gym/trainees/me", user: trainee.Username, pass: trainee.Password,
		body: `{"address":"1 Main St"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode[traineeView](t, rec)
	assert.Equal(t, "1 Main St", v.Address)
	assert.Equal(t, "John", v.FirstName)

	rec = a.do(call{method: http.MethodPatch, path: "/gym/trainees/me/active", user: trainee.Username, pass: trainee.Password,
		body: `{"isActive":true}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "already active")

	rec = a.do(call{method: http.MethodPatch, path: "/gym/trainees/me/active", user: trainee.Username, pass: trainee.Password,
		body: `{}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "isActive is required")

	rec = a.do(call{method: http.MethodPatch, path: "/gym/trainees/me/active", user: trainee.Username, pass: trainee.Password,
		body: `{"isActive":false}`})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTraineeTrainers(t *testing.T) {
	a := newAPI(t)
	trainee, trainer := a.seed()
	auth := call{user: trainee.Username, pass: trainee.Password}

	auth.method, auth.path = http.MethodGet, "/gym/trainees/me/unassigned-trainers"
	rec := a.do(auth)
	require.Equal(t, http.StatusOK, rec.Code)
	free := decode[[]trainerSummary](t, rec)
	require.Len(t, free, 1)
	assert.Equal(t, trainer.Username, free[0].Username)
	assert.Equal(t, "Yoga", free[0].Specialization)

	auth.method, auth.path, auth.body = http.MethodPut, "/gym/trainees/me/trainers", `{"trainers":["ghost"]}`
	assert.Equal(t, http.StatusBadRequest, a.do(auth).Code)

	auth.body = `{"trainers":["` + trainer.Username + `"]}`
	rec = a.do(auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]trainerSummary](t, rec), 1)

	auth.method, auth.path, auth.body = http.MethodGet, "/gym/trainees/me", ""
	v := decode[traineeView](t, a.do(auth))
	require.Len(t, v.Trainers, 1)
	assert.Equal(t, trainer.Username, v.Trainers[0].Username)
}

func TestAddTraining(t *testing.T) {
	a := newAPI(t)
	trainee, trainer := a.seed()

	body := func(trainerUsername, typ, date string) string {
		return `{"trainerUsername":"` + trainerUsername + `","trainingType":"` + typ +
			`","name":"Morning flow","date":"` + date + `","duration":60}`
	}
	for _, tc := range []struct {
		name   string
		body   string
		status int
	}{
		{"past date", body(trainer.Username, "Yoga", "2024-05-01"), http.StatusUnprocessableEntity},
		{"wrong type", body(trainer.Username, "Pilates", "2024-07-01"), http.StatusUnprocessableEntity},
		{"unknown trainer", body("ghost", "Yoga", "2024-07-01"), http.StatusNotFound},
		{"bad date", body(trainer.Username, "Yoga", "July 1st"), http.StatusBadRequest},
		{"missing duration", `{"trainerUsername":"x","trainingType":"Yoga","name":"n","date":"2024-07-01"}`, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(call{method: http.MethodPost, path: "/gym/trainings", body: tc.body,
				user: trainee.Username, pass: trainee.Password})
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, a.store.TrainingRows)

	rec := a.do(call{method: http.MethodPost, path: "/gym/trainings", body: body(trainer.Username, "Yoga", "2024-07-01"),
		user: trainee.Username, pass: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(call{method: http.MethodPost, path: "/gym/trainings", body: body(trainer.Username, "Yoga", "2024-07-01"),
		user: trainee.Username, pass: trainee.Password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[trainingView](t, rec)
	assert.Equal(t, "2024-07-01", created.Date)
	assert.Equal(t, "Yoga", created.TrainingType)
	assert.Equal(t, "Alice Smith", created.TrainerName)

	rec = a.do(call{method: http.MethodGet, path: "/gym/trainees/me/trainings?from=2024-01-01&name=smith&type=yoga",
		user: trainee.Username, pass: trainee.Password})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]trainingView](t, rec), 1)
	assert.Equal(t, "smith", a.store.LastCriteria.PartnerName)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a.store.LastCriteria.From)

	rec = a.do(call{method: http.MethodGet, path: "/gym/trainers/me/trainings?to=2024-12-31",
		user: trainer.Username, pass: trainer.Password})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]trainingView](t, rec), 1)

	rec = a.do(call{method: http.MethodGet, path: "/gym/trainees/me/trainings?from=yesterday",
		user: trainee.Username, pass: trainee.Password})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrainerProfile(t *testing.T) {
	a := newAPI(t)
	_, trainer := a.seed()
	auth := call{user: trainer.Username, pass: trainer.Password}

	auth.method, auth.path = http.MethodGet, "/gym/trainers/me"
	rec := a.do(auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Yoga", decode[trainerView](t, rec).Specialization)

	auth.method, auth.path, auth.body = http.MethodPut, "/gym/trainers/me/password", `{"newPassword":"n3wPassword"}`
	assert.Equal(t, http.StatusNoContent, a.do(auth).Code)

	auth.method, auth.path, auth.body = http.MethodGet, "/gym/trainers/me", ""
	assert.Equal(t, http.StatusUnauthorized, a.do(auth).Code, "old password")

	auth.pass = "n3wPassword"
	auth.method = http.MethodDelete
	assert.Equal(t, http.StatusNoContent, a.do(auth).Code)
	assert.Empty(t, a.store.TrainerRows)
}
