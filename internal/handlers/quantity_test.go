package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		invalid bool
	}{
		{raw: "", want: 7},
		{raw: "null", want: 7},
		{raw: "0", want: 7},
		{raw: `""`, want: 7},
		{raw: `"abc"`, want: 7},
		{raw: "true", want: 7},
		{raw: "{}", want: 7},
		{raw: "3", want: 3},
		{raw: `" 12 "`, want: 12},
		{raw: "2.0", want: 2},
		{raw: "-1", invalid: true},
		{raw: `"-5"`, invalid: true},
		{raw: "1.5", invalid: true},
		{raw: "1e12", invalid: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := parseQuantity(json.RawMessage(tc.raw), 7)
			if tc.invalid {
				assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	read := func(body string) (int, error) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return readQuantity(c, defaultRestockQuantity)
	}

	got, err := read("")
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	got, err = read("not json")
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	got, err = read(`{"quantity": 4}`)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	_, err = read(`{"quantity": -4}`)
	assert.Error(t, err)
}

func TestBindError(t *testing.T) {
	type input struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}
	verr := validator.New().Struct(input{Email: "nope"})
	require.Error(t, verr)

	err := bindError(verr)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "Field 'name' is required")
	assert.Contains(t, err.Error(), "Field 'email' must be a valid email address")

	var target map[string]int
	syntax := json.Unmarshal([]byte("{"), &target)
	assert.Equal(t, "Malformed JSON body", apperr.PublicMessage(bindError(syntax)))
}
