package core

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_TABLE_PAGESIZE", "25")
	t.Setenv("TEST_SOURCE_KIND", SourceDatabase)
	t.Setenv("TEST_SERVER_SHUTDOWNTIMEOUT", "1m")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "Dipapa", conf.AppName)
	assert.Equal(t, 25, conf.Table.PageSize)
	assert.Equal(t, 5, conf.Table.SkeletonRows)
	assert.Equal(t, SourceDatabase, conf.Source.Kind)
	assert.Equal(t, time.Minute, conf.Server.ShutdownTimeout)
	assert.Equal(t, "localhost:5432", conf.Database.Address())

	validate, _ := newValidator(t)
	assert.NoError(t, conf.Validate(validate))
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("ENV", "test")
	validate, _ := newValidator(t)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown source", mutate: func(c *Config) { c.Source.Kind = "ftp" }, wantErr: true},
		{name: "remote without url", mutate: func(c *Config) { c.Source.Kind = SourceRemote }, wantErr: true},
		{
			name:   "remote with url",
			mutate: func(c *Config) { c.Source.Kind = SourceRemote; c.Source.RemoteURL = "https://example.com/rest/v1" },
		},
		{name: "zero page size", mutate: func(c *Config) { c.Table.PageSize = 0 }, wantErr: true},
		{name: "unknown engine", mutate: func(c *Config) { c.Database.Engine = "mysql" }, wantErr: true},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Source.Kind = SourceDatabase; c.Database.Path = "" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := NewConfig()
			tt.mutate(conf)
			err := conf.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitValidators(t *testing.T) {
	validate, translator := newValidator(t)

	type query struct {
		Ordering string `schema:"ordering" validate:"omitempty,ordering"`
		Resource string `json:"resource" validate:"required,resource"`
	}

	tests := []struct {
		name       string
		q          query
		wantFields map[string]string
	}{
		{name: "valid", q: query{Ordering: "-amount", Resource: "stipends"}},
		{name: "valid without ordering", q: query{Resource: "visitors"}},
		{
			name:       "multiple orderings",
			q:          query{Ordering: "amount,-status", Resource: "stipends"},
			wantFields: map[string]string{"ordering": "ordering must be a column key, optionally prefixed with '-'"},
		},
		{
			name:       "missing resource",
			q:          query{},
			wantFields: map[string]string{"resource": "this field is required"},
		},
		{
			name:       "bad resource",
			q:          query{Resource: "Stipends!"},
			wantFields: map[string]string{"resource": "resource must be a lowercase resource name"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.q)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			err = TranslateErrors(err, translator)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantFields, vErr.FieldMap())
		})
	}
}

func TestIsShutdown(t *testing.T) {
	err := NewShutdownError("integrity issue")
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "wrapped")))
	assert.False(t, IsShutdown(errors.New("integrity issue")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("  short ", 10))
	assert.Equal(t, "Join us...", Truncate("Join us for the welcome orientation", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "unlimited", Truncate("unlimited", 0))
}
