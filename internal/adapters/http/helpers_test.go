package httpadapter

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vegin/skin-analysis-service/internal/config"
	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

const testJWTSecret = "test-secret"

type submitterFake struct {
	receipt    *domain.Receipt
	submitErr  error
	directResp *domain.InferenceResponse
	directErr  error

	gotUserID   int64
	gotImage    []byte
	gotFilename string
	gotSurvey   []byte
}

func (f *submitterFake) Submit(_ context.Context, userID int64, image []byte, filename string, surveyJSON []byte) (*domain.Receipt, error) {
	f.gotUserID = userID
	f.gotImage = image
	f.gotFilename = filename
	f.gotSurvey = surveyJSON
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.receipt, nil
}

func (f *submitterFake) DirectAnalyze(_ context.Context, image []byte, filename, contentType string, surveyJSON []byte) (*domain.InferenceResponse, error) {
	f.gotImage = image
	f.gotFilename = filename
	f.gotSurvey = surveyJSON
	if f.directErr != nil {
		return nil, f.directErr
	}
	return f.directResp, nil
}

type materializerFake struct {
	view *domain.ResultView
	err  error

	gotAnalysisID int64
	gotUserID     int64
}

func (f *materializerFake) Materialize(_ context.Context, analysisID, userID int64) (*domain.ResultView, error) {
	f.gotAnalysisID = analysisID
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

type projectorFake struct {
	view *domain.ProfileView
	err  error

	// When set, BuildProfileView signals started and parks on release,
	// holding its request slot until the test lets go.
	started chan struct{}
	release chan struct{}
}

func (f *projectorFake) BuildProfileView(context.Context, int64) (*domain.ProfileView, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

type editorFake struct {
	upsertErr error
	imageURL  string
	imageErr  error

	gotUpdate domain.ProfileUpdate
}

func (f *editorFake) Upsert(_ context.Context, _ int64, update domain.ProfileUpdate) error {
	f.gotUpdate = update
	return f.upsertErr
}

func (f *editorFake) UpdateProfileImage(context.Context, int64, []byte, string, string) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageURL, nil
}

type routerFakes struct {
	submitter *submitterFake
	results   *materializerFake
	profiles  *projectorFake
	editor    *editorFake
}

func newTestHandler(cfg config.Config) (http.Handler, *routerFakes) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = testJWTSecret
	}
	fakes := &routerFakes{
		submitter: &submitterFake{receipt: &domain.Receipt{AnalysisID: 1, ImageURL: "https://cdn.test/a.jpg"}},
		results:   &materializerFake{view: &domain.ResultView{SkinCode: "DSPW"}},
		profiles:  &projectorFake{view: &domain.ProfileView{Concerns: []string{}, History: []domain.HistoryEntry{}}},
		editor:    &editorFake{imageURL: "https://cdn.test/profile/7/a.png"},
	}
	rt := NewRouter(fakes.submitter, fakes.results, fakes.profiles, fakes.editor, nil, cfg)
	return rt.Handler(cfg), fakes
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return "Bearer " + signed
}
