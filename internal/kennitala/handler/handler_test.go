package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kennitala/internal/kennitala/handler/mocks"
	"kennitala/internal/kennitala/models"
	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.mockService, logger)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *HandlerSuite) TestInspect() {
	inspectedAt := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

	s.Run("valid code", func() {
		s.mockService.EXPECT().
			Inspect(gomock.Any(), "140543-3229").
			Return(&models.Inspection{
				Cleaned:     "1405433229",
				Hyphenated:  "140543-3229",
				Valid:       true,
				Kind:        kennitala.KindPerson,
				Birthdate:   "1943-05-14",
				Age:         83,
				InspectedAt: inspectedAt,
			}, nil)

		rec := s.post("/kennitala/inspect", `{"kennitala":" 140543-3229 "}`)

		s.Equal(http.StatusOK, rec.Code)
		var resp InspectResponse
		s.decode(rec, &resp)
		s.Equal(InspectResponse{
			Kennitala:   "1405433229",
			Hyphenated:  "140543-3229",
			Valid:       true,
			Kind:        "person",
			Birthdate:   "1943-05-14",
			Age:         83,
			InspectedAt: "2026-10-18T10:00:00Z",
		}, resp)
	})

	s.Run("invalid code is still 200", func() {
		s.mockService.EXPECT().
			Inspect(gomock.Any(), "3208883209").
			Return(&models.Inspection{Cleaned: "3208883209", InspectedAt: inspectedAt}, nil)

		rec := s.post("/kennitala/inspect", `{"kennitala":"3208883209"}`)

		s.Equal(http.StatusOK, rec.Code)
		var resp map[string]any
		s.decode(rec, &resp)
		s.Equal(false, resp["valid"])
		s.NotContains(resp, "hyphenated")
		s.NotContains(resp, "kind")
	})

	s.Run("missing kennitala", func() {
		rec := s.post("/kennitala/inspect", `{"kennitala":"   "}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("oversized kennitala", func() {
		rec := s.post("/kennitala/inspect", `{"kennitala":"`+strings.Repeat("1", 33)+`"}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		var resp map[string]string
		s.decode(rec, &resp)
		s.Equal("validation_error", resp["error"])
	})

	s.Run("invalid JSON", func() {
		rec := s.post("/kennitala/inspect", "not valid json")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("service failure is 500", func() {
		s.mockService.EXPECT().
			Inspect(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("boom"))

		rec := s.post("/kennitala/inspect", `{"kennitala":"1405433229"}`)
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *HandlerSuite) TestGenerate() {
	s.Run("organization", func() {
		s.mockService.EXPECT().
			Generate(gomock.Any(), models.GenerateRequest{Day: 18, Month: 10, Year: 2008, Kind: kennitala.KindCompany}).
			Return(&models.Generated{
				Kennitala:  "5810080150",
				Hyphenated: "581008-0150",
				Kind:       kennitala.KindCompany,
				Birthdate:  "2008-10-18",
			}, nil)

		rec := s.post("/kennitala/generate", `{"day":18,"month":10,"year":2008,"kind":" Company "}`)

		s.Equal(http.StatusCreated, rec.Code)
		var resp GeneratedResponse
		s.decode(rec, &resp)
		s.Equal("5810080150", resp.Kennitala)
		s.Equal("581008-0150", resp.Hyphenated)
		s.Equal("company", resp.Kind)
	})

	s.Run("kind defaults to person", func() {
		s.mockService.EXPECT().
			Generate(gomock.Any(), models.GenerateRequest{Day: 14, Month: 5, Year: 1943, Kind: kennitala.KindPerson}).
			Return(&models.Generated{Kennitala: "1405433229", Hyphenated: "140543-3229", Kind: kennitala.KindPerson}, nil)

		rec := s.post("/kennitala/generate", `{"day":14,"month":5,"year":1943}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("unknown kind", func() {
		rec := s.post("/kennitala/generate", `{"day":1,"month":1,"year":2000,"kind":"robot"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing date fields", func() {
		rec := s.post("/kennitala/generate", `{"day":1}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		var resp map[string]string
		s.decode(rec, &resp)
		s.Equal("out_of_range", resp["error"])
		s.Contains(resp["error_description"], "month")
	})

	s.Run("domain error maps to 400", func() {
		s.mockService.EXPECT().
			Generate(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeOutOfRange, "year must be between 1800 and 2099"))

		rec := s.post("/kennitala/generate", `{"day":1,"month":1,"year":2150}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		var resp map[string]string
		s.decode(rec, &resp)
		s.Equal("out_of_range", resp["error"])
	})
}

func (s *HandlerSuite) TestRandom() {
	s.Run("batch", func() {
		s.mockService.EXPECT().
			GenerateRandom(gomock.Any(), 2).
			Return([]models.Generated{
				{Kennitala: "1405433229", Hyphenated: "140543-3229", Kind: kennitala.KindPerson, Birthdate: "1943-05-14"},
				{Kennitala: "0101000030", Hyphenated: "010100-0030", Kind: kennitala.KindPerson, Birthdate: "2000-01-01"},
			}, nil)

		rec := s.post("/kennitala/random", `{"count":2}`)

		s.Equal(http.StatusCreated, rec.Code)
		var resp RandomResponse
		s.decode(rec, &resp)
		s.Equal(2, resp.Count)
		s.Len(resp.Codes, 2)
		s.Equal("010100-0030", resp.Codes[1].Hyphenated)
	})

	s.Run("missing count means one", func() {
		s.mockService.EXPECT().
			GenerateRandom(gomock.Any(), 1).
			Return([]models.Generated{{Kennitala: "1405433229"}}, nil)

		rec := s.post("/kennitala/random", `{}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("negative count", func() {
		rec := s.post("/kennitala/random", `{"count":-4}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		var resp map[string]string
		s.decode(rec, &resp)
		s.Equal("out_of_range", resp["error"])
	})

	s.Run("batch too large", func() {
		s.mockService.EXPECT().
			GenerateRandom(gomock.Any(), 1000).
			Return(nil, dErrors.New(dErrors.CodeOutOfRange, "count must be between 1 and the maximum batch size"))

		rec := s.post("/kennitala/random", `{"count":1000}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("timeout maps to 504", func() {
		s.mockService.EXPECT().
			GenerateRandom(gomock.Any(), 5).
			Return(nil, dErrors.New(dErrors.CodeTimeout, "random generation cancelled"))

		rec := s.post("/kennitala/random", `{"count":5}`)
		s.Equal(http.StatusGatewayTimeout, rec.Code)
	})
}
