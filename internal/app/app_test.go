package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skybi/session-report/internal/api/vendor"
	"github.com/skybi/session-report/internal/config"
	"github.com/skybi/session-report/internal/frontegg"
	"github.com/skybi/session-report/internal/report"
	"github.com/skybi/session-report/internal/storage/inmem"
	"github.com/skybi/session-report/internal/user"
	"github.com/stretchr/testify/suite"
)

type AppSuite struct {
	suite.Suite
	dir     string
	dataset *vendor.Dataset
	mock    *vendor.Service
	server  *httptest.Server
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.dataset = vendor.NewDataset("client", "secret")
	s.dataset.AddUser(
		user.User{ID: "u1", Name: "One", Email: "one@example.com", TenantID: "t1"},
		user.Session{CreatedAt: "2024-05-01T10:00:00Z"},
		user.Session{CreatedAt: "2024-04-01T10:00:00Z"},
	)
	s.dataset.AddUser(user.User{ID: "u2", Name: "Two", Email: "two@example.com", TenantID: "t1"})
	s.mock = &vendor.Service{Dataset: s.dataset}
	s.server = httptest.NewServer(s.mock.Handler())
}

func (s *AppSuite) TearDownTest() {
	s.server.Close()
	s.mock.Close()
}

func (s *AppSuite) config() *config.Config {
	return &config.Config{
		Environment:       "prod",
		ClientID:          "client",
		Secret:            "secret",
		Region:            config.RegionEU,
		BaseURL:           s.server.URL,
		PageSize:          1,
		IncludeSubTenants: true,
		ExecutionLog:      filepath.Join(s.dir, "execution.log"),
	}
}

func (s *AppSuite) readCSV(path string) [][]string {
	file, err := os.Open(path)
	s.Require().NoError(err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	s.Require().NoError(err)
	return records
}

func (s *AppSuite) TestRunWritesReport() {
	output := filepath.Join(s.dir, "user_sessions.csv")
	stdout := new(bytes.Buffer)
	archiveDriver := inmem.New()
	s.Require().NoError(archiveDriver.Initialize(context.Background()))
	defer archiveDriver.Close()

	app := &App{
		Config:  s.config(),
		Stdin:   strings.NewReader(output + "\n"),
		Stdout:  stdout,
		Storage: archiveDriver,
	}
	summary, err := app.Run(context.Background())
	s.Require().NoError(err)

	s.Equal(OutputPathPrompt, stdout.String())
	s.Equal(&Summary{RunID: summary.RunID, OutputPath: output, Users: 2, Rows: 1, Skipped: 1, Complete: true}, summary)
	s.Equal([][]string{
		report.Columns,
		{"u1", "One", "one@example.com", "t1", "2024-05-01T10:00:00Z"},
	}, s.readCSV(output))

	run, err := archiveDriver.Runs().GetByID(context.Background(), summary.RunID)
	s.Require().NoError(err)
	s.Require().NotNil(run)
	s.Equal(2, run.UserCount)
	s.Len(run.Rows, 1)

	executionLog, err := os.ReadFile(filepath.Join(s.dir, "execution.log"))
	s.Require().NoError(err)
	s.Contains(string(executionLog), "* New request:")
	s.Contains(string(executionLog), "Getting next page!")
	s.Contains(string(executionLog), "run="+summary.RunID.String())
}

func (s *AppSuite) TestRunMissingDirectory() {
	cfg := s.config()
	cfg.OutputPath = filepath.Join(s.dir, "missing", "user_sessions.csv")

	var requests int
	app := &App{
		Config: cfg,
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(request *http.Request) (*http.Response, error) {
			requests++
			return http.DefaultTransport.RoundTrip(request)
		})},
	}
	_, err := app.Run(context.Background())
	s.ErrorIs(err, report.ErrDirectoryNotFound)
	s.Zero(requests, "no API call is made before the output path was validated")

	_, statErr := os.Stat(cfg.OutputPath)
	s.True(os.IsNotExist(statErr))
}

func (s *AppSuite) TestRunMissingToken() {
	cfg := s.config()
	cfg.Secret = "wrong"
	cfg.OutputPath = filepath.Join(s.dir, "user_sessions.csv")

	_, err := (&App{Config: cfg}).Run(context.Background())
	s.ErrorIs(err, frontegg.ErrMissingToken)
}

func (s *AppSuite) TestRunPartialListing() {
	var pages int
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/vendor/":
			writer.Write([]byte(`{"token":"t"}`))
		case "/identity/resources/users/v3":
			pages++
			writer.Write([]byte(`{"items":[{"id":"u1","name":"One","email":"one@example.com","tenantId":"t1"}],"_links":{"next":"/identity/resources/users/v3?cursor=opaque"}}`))
		default:
			writer.Write([]byte(`[{"createdAt":"2024-05-01T10:00:00Z"}]`))
		}
	}))
	defer server.Close()

	cfg := s.config()
	cfg.BaseURL = server.URL
	cfg.OutputPath = filepath.Join(s.dir, "partial.csv")

	summary, err := (&App{Config: cfg}).Run(context.Background())
	s.Require().NoError(err)
	s.False(summary.Complete)
	s.Equal(1, summary.Rows)
	s.Equal(1, pages)
}

func (s *AppSuite) TestRunXLSX() {
	for i := 3; i < 10; i++ {
		s.dataset.AddUser(user.User{ID: fmt.Sprintf("u%d", i)}, user.Session{CreatedAt: "x"})
	}
	cfg := s.config()
	cfg.PageSize = 4
	cfg.OutputPath = filepath.Join(s.dir, "user_sessions.xlsx")

	summary, err := (&App{Config: cfg}).Run(context.Background())
	s.Require().NoError(err)
	s.Equal(9, summary.Users)
	s.Equal(8, summary.Rows)
	_, statErr := os.Stat(cfg.OutputPath)
	s.NoError(statErr)
}

func (s *AppSuite) TestNewStorage() {
	cfg := s.config()

	driver, err := NewStorage(cfg)
	s.NoError(err)
	s.Nil(driver)

	cfg.ArchiveDriver = "inmem"
	driver, err = NewStorage(cfg)
	s.NoError(err)
	s.IsType(&inmem.Driver{}, driver)

	cfg.ArchiveDriver = "postgres"
	_, err = NewStorage(cfg)
	s.ErrorIs(err, ErrMissingPostgresDSN)

	cfg.ArchiveDriver = "sqlite"
	_, err = NewStorage(cfg)
	s.ErrorIs(err, ErrUnknownArchiveDriver)
}

type roundTripperFunc func(request *http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(request *http.Request) (*http.Response, error) {
	return fn(request)
}
