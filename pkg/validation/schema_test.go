package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerSchema = Schema{
	Required("email", String),
	Required("password", String),
	Required("age", Integer),
	Optional("nickname", String),
}

type echoBody struct {
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func newEngine(s Schema) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		var body echoBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			c.JSON(http.StatusOK, gin.H{"params": ParamsFrom(c)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": body.Email, "age": body.Age})
	}
	r.POST("/", Params(s), handler)
	r.GET("/", Params(s), handler)
	r.HEAD("/", Params(s), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestParams_MissingInSchemaOrder(t *testing.T) {
	code, body := do(t, newEngine(registerSchema), http.MethodPost, "/", `{"password":"p"}`)
	require.Equal(t, http.StatusBadRequest, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "payload missing required params", errBody["message"])
	assert.Equal(t, "email,age", errBody["missing"])
}

func TestParams_TypeError(t *testing.T) {
	code, body := do(t, newEngine(registerSchema), http.MethodPost, "/", `{"email":"a@b.com","password":"p","age":"30"}`)
	require.Equal(t, http.StatusBadRequest, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "payload type error", errBody["message"])
	assert.Equal(t, map[string]any{
		"email": "string", "password": "string", "age": "integer", "nickname": "string",
	}, errBody["param_types"])
}

func TestParams_FloatIsNotInteger(t *testing.T) {
	code, _ := do(t, newEngine(registerSchema), http.MethodPost, "/", `{"email":"a@b.com","password":"p","age":30.5}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestParams_OptionalTypeIsNotChecked(t *testing.T) {
	code, _ := do(t, newEngine(registerSchema), http.MethodPost, "/", `{"email":"a@b.com","password":"p","age":30,"nickname":5}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestParams_BodyStillBindable(t *testing.T) {
	code, body := do(t, newEngine(registerSchema), http.MethodPost, "/", `{"email":"a@b.com","password":"p","age":30}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, float64(30), body["age"])
}

func TestParams_InvalidJSON(t *testing.T) {
	for _, payload := range []string{`{"email":`, `[1,2]`, `"str"`} {
		code, body := do(t, newEngine(registerSchema), http.MethodPost, "/", payload)
		require.Equalf(t, http.StatusBadRequest, code, "payload %s", payload)
		assert.Equal(t, "invalid payload", body["message"])
	}
}

func TestParams_QueryString(t *testing.T) {
	s := Schema{Required("filter", String), Required("page", Integer), Optional("auth", Boolean)}
	r := newEngine(s)

	code, body := do(t, r, http.MethodGet, "/?filter=all&page=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"filter": "all", "page": "2"}, body["params"])

	code, _ = do(t, r, http.MethodGet, "/?filter=all&page=two", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, r, http.MethodGet, "/?page=1", "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "filter", body["error"].(map[string]any)["missing"])
}

func TestParams_EmptyPayloadWithOptionalSchema(t *testing.T) {
	s := Schema{Optional("filter", String)}
	code, body := do(t, newEngine(s), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{}, body["params"])
}

func TestParams_HeadBypass(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	w := httptest.NewRecorder()
	newEngine(registerSchema).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
