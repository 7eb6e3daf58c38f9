package handler

import (
	"bytes"
	"math"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/service"
)

var testIdentity = &model.Identity{ID: "u-1", Username: "alice"}

type stubOfferService struct {
	query      model.OfferQuery
	publishReq model.PublishRequest
	picture    []model.Upload
	gallery    []model.Upload
	updateReq  model.UpdateRequest
	id         string
	caller     *model.Identity
	err        error
}

func (s *stubOfferService) Search(_ context.Context, q model.OfferQuery) (*model.OfferList, error) {
	s.query = q
	return &model.OfferList{Count: 0, Offers: []model.Offer{}}, s.err
}

func (s *stubOfferService) GetByID(_ context.Context, id string) (*model.Offer, error) {
	s.id = id
	if s.err != nil {
		return nil, s.err
	}
	return &model.Offer{ID: id, Name: "Jacket"}, nil
}

func (s *stubOfferService) Publish(_ context.Context, owner *model.Identity, req model.PublishRequest, picture, gallery []model.Upload) (*model.Offer, error) {
	s.caller, s.publishReq, s.picture, s.gallery = owner, req, picture, gallery
	if s.err != nil {
		return nil, s.err
	}
	return &model.Offer{ID: "o-1", Name: req.Title}, nil
}

func (s *stubOfferService) Update(_ context.Context, caller *model.Identity, id string, req model.UpdateRequest, picture []model.Upload) error {
	s.caller, s.id, s.updateReq, s.picture = caller, id, req, picture
	return s.err
}

func (s *stubOfferService) Delete(_ context.Context, caller *model.Identity, id string) error {
	s.caller, s.id = caller, id
	return s.err
}

type stubAuthService struct {
	signup model.SignupRequest
	login  model.LoginRequest
	err    error
}

func (s *stubAuthService) Signup(_ context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	s.signup = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.SignupResponse{ID: "u-1", Email: req.Email, Token: "tok", Account: model.Account{Username: req.Username}}, nil
}

func (s *stubAuthService) Login(_ context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	s.login = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.LoginResponse{ID: "u-1", Token: "tok"}, nil
}

type stubPaymentService struct {
	req model.PaymentRequest
	err error
}

func (s *stubPaymentService) Pay(_ context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.PaymentResponse{Status: "succeeded"}, nil
}

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(_ context.Context, token string) (*model.Identity, error) {
	if token != "good" {
		return nil, service.ErrUnauthorized
	}
	return testIdentity, nil
}

func newTestRouter(offers OfferService, auth AuthService, pay PaymentService) http.Handler {
	return NewRouter(Routes{
		Authenticator: staticAuthenticator{},
		Offers:        NewOfferHandler(offers, 1<<20),
		Users:         NewAuthHandler(auth, 1<<20),
		Payments:      NewPaymentHandler(pay),
		CORSOrigins:   []string{"https://app.example"},
	})
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(f.data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestHandleSearch_ParsesQuery(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers?title=jack&priceMin=20&priceMax=50&sort=price-asc&page=2&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	q := offers.query
	if q.Title != "jack" || q.Sort != "price-asc" || q.Page != 2 || q.Limit != 5 {
		t.Errorf("unexpected query %+v", q)
	}
	if q.PriceMin == nil || *q.PriceMin != 20 || q.PriceMax == nil || *q.PriceMax != 50 {
		t.Errorf("unexpected price bounds %+v", q)
	}
	if !strings.Contains(rec.Body.String(), `"offers":[]`) {
		t.Errorf("expected empty offers array, got %s", rec.Body.String())
	}
}

func TestHandleSearch_OpenBoundsAndBadPage(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers?priceMin=20&page=abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if offers.query.PriceMax != nil || offers.query.Page != 0 {
		t.Errorf("unexpected query %+v", offers.query)
	}
}

func TestHandleSearch_InvalidPrice(t *testing.T) {
	router := newTestRouter(&stubOfferService{}, &stubAuthService{}, &stubPaymentService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers?priceMin=cheap", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleGet_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "invalid id", err: service.ErrInvalidOfferID, wantStatus: http.StatusBadRequest, wantMsg: "invalid offer id"},
		{name: "missing", err: service.ErrOfferNotFound, wantStatus: http.StatusNotFound, wantMsg: "Offer not found"},
		{name: "upstream", err: service.ErrUpstream, wantStatus: http.StatusBadGateway, wantMsg: "upstream service unavailable"},
		{name: "internal", err: errors.New("sql: connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := &stubOfferService{err: tt.err}
			router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offer/abc", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if offers.id != "abc" {
				t.Errorf("expected id abc, got %q", offers.id)
			}
			if tt.wantMsg != "" {
				if msg := decodeMessage(t, rec); msg != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
				}
			}
		})
	}
}

func TestHandlePublish_RequiresToken(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	body, ct := multipartBody(t, map[string]string{"title": "Jacket", "price": "45"})
	req := httptest.NewRequest(http.MethodPost, "/offer/publish", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if offers.caller != nil {
		t.Error("service must not be called")
	}
}

func TestHandlePublish_Multipart(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	body, ct := multipartBody(t,
		map[string]string{"title": "Jacket", "price": "45", "brand": "Zara", "city": "Lyon"},
		filePart{field: "picture", name: "a.jpg", contentType: "image/jpeg", data: []byte("jpg")},
		filePart{field: "pictures", name: "b.jpg", contentType: "image/jpeg", data: []byte("jpg2")},
	)
	req := httptest.NewRequest(http.MethodPost, "/offer/publish", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if offers.caller != testIdentity {
		t.Error("expected identity from token")
	}
	got := offers.publishReq
	if got.Title != "Jacket" || got.Price != "45" || got.Brand != "Zara" || got.City != "Lyon" {
		t.Errorf("unexpected publish request %+v", got)
	}
	if len(offers.picture) != 1 || offers.picture[0].ContentType != "image/jpeg" || string(offers.picture[0].Data) != "jpg" {
		t.Errorf("unexpected picture %+v", offers.picture)
	}
	if len(offers.gallery) != 1 {
		t.Errorf("expected one gallery file, got %d", len(offers.gallery))
	}
}

func TestHandlePublish_ValidationMessage(t *testing.T) {
	offers := &stubOfferService{err: service.ErrMissingOfferFields}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	body, ct := multipartBody(t, map[string]string{"title": "Jacket"})
	req := httptest.NewRequest(http.MethodPost, "/offer/publish", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "title, price and picture are required" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHandleUpdate_JSONBody(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPut, "/offer/update/o-1", strings.NewReader(`{"price":30,"size":"M"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if offers.id != "o-1" || offers.updateReq.Price != "30" || offers.updateReq.Size != "M" || offers.updateReq.Title != "" {
		t.Errorf("unexpected update %q %+v", offers.id, offers.updateReq)
	}
	if msg := decodeMessage(t, rec); msg != "Offer modified successfully !" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHandleDelete(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		err        error
		wantStatus int
	}{
		{name: "ok", token: "good", wantStatus: http.StatusOK},
		{name: "bad token", token: "bad", wantStatus: http.StatusUnauthorized},
		{name: "not owner", token: "good", err: service.ErrNotOwner, wantStatus: http.StatusForbidden},
		{name: "purge failed", token: "good", err: service.ErrUpstream, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := &stubOfferService{err: tt.err}
			router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

			req := httptest.NewRequest(http.MethodDelete, "/offer/delete/o-1", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandleSignup_MultipartWithAvatar(t *testing.T) {
	auth := &stubAuthService{}
	router := newTestRouter(&stubOfferService{}, auth, &stubPaymentService{})

	body, ct := multipartBody(t,
		map[string]string{"email": "a@b.c", "password": "pw", "username": "alice", "newsletter": "true"},
		filePart{field: "avatar", name: "me.png", contentType: "image/png", data: []byte("png")},
	)
	req := httptest.NewRequest(http.MethodPost, "/user/signup", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if auth.signup.Email != "a@b.c" || !auth.signup.Newsletter || len(auth.signup.Avatar) != 1 {
		t.Errorf("unexpected signup request %+v", auth.signup)
	}
	if !strings.Contains(rec.Body.String(), `"token":"tok"`) {
		t.Errorf("expected token in response, got %s", rec.Body.String())
	}
}

func TestHandleSignup_Conflict(t *testing.T) {
	router := newTestRouter(&stubOfferService{}, &stubAuthService{err: service.ErrEmailTaken}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/user/signup", strings.NewReader(`{"email":"a@b.c","password":"pw","username":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "This email already has an account" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "ok", body: `{"email":"a@b.c","password":"pw"}`, wantStatus: http.StatusOK},
		{name: "malformed", body: `{"email":`, wantStatus: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"x@b.c","password":"pw"}`, err: service.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "wrong password", body: `{"email":"a@b.c","password":"no"}`, err: service.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthService{err: tt.err}
			router := newTestRouter(&stubOfferService{}, auth, &stubPaymentService{})

			req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandlePay(t *testing.T) {
	pay := &stubPaymentService{}
	router := newTestRouter(&stubOfferService{}, &stubAuthService{}, pay)

	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader("token=tok_visa&amount=19.99&title=Jacket"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if pay.req.Token != "tok_visa" || pay.req.Amount != 19.99 || pay.req.Title != "Jacket" {
		t.Errorf("unexpected payment request %+v", pay.req)
	}
}

func TestHandlePay_Upstream(t *testing.T) {
	router := newTestRouter(&stubOfferService{}, &stubAuthService{}, &stubPaymentService{err: service.ErrUpstream})

	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(`{"token":"tok","amount":10}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHandleWelcome(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleWelcome(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Welcome") {
		t.Errorf("unexpected welcome response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(&stubOfferService{}, &stubAuthService{}, &stubPaymentService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(&stubOfferService{}, &stubAuthService{}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodOptions, "/offer/publish", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 0},
		{raw: "3", want: 3},
		{raw: "abc", want: 0},
		{raw: "99999999999999999999", want: math.MaxInt},
		{raw: "-99999999999999999999", want: 0},
	}

	for _, tt := range tests {
		if got := parsePage(tt.raw); got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestHandleUpdate_AcceptsCity(t *testing.T) {
	offers := &stubOfferService{}
	router := newTestRouter(offers, &stubAuthService{}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPut, "/offer/update/o-1", strings.NewReader("city=Lyon"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if offers.updateReq.City != "Lyon" {
		t.Errorf("expected city Lyon, got %+v", offers.updateReq)
	}
}
