package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/fs"
	metricsvc "github.com/mfanajozi/dipapa/services/metrics"
	"github.com/mfanajozi/dipapa/services/render"
	"github.com/mfanajozi/dipapa/testutil"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func setup(t *testing.T, records RecordService, logger core.Logger) *Server {
	t.Helper()
	conf := &core.Config{AppName: "Dipapa", Env: "TEST", TestMode: true}
	conf.Server.DisableReqLogs = true

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	pages, err := page.Default(page.Sizing{PageSize: 3})
	require.NoError(t, err)
	html, err := render.NewHTML(appfs.FS, appfs.TemplatesDir, true)
	require.NoError(t, err)

	if records == nil {
		records = record.NewService(testutil.FixtureRepository(t), logger)
	}
	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Pages:      pages,
		Records:    records,
		HTML:       html,
		Metrics:    metricsvc.New(),
		Validate:   validate,
		Translator: translator,
	})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func newBrowserRequest(path string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
