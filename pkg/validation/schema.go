package validation

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vaccine-accounts/pkg/response"
)

type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Boolean Type = "boolean"
)

type Rule struct {
	Name     string
	Type     Type
	Required bool
}

// Schema lists the accepted request params. Order is kept in error output.
type Schema []Rule

func Required(name string, t Type) Rule { return Rule{Name: name, Type: t, Required: true} }
func Optional(name string, t Type) Rule { return Rule{Name: name, Type: t} }

const paramsKey = "validation.params"

// Params checks the request payload against s before the handler runs.
// The payload is the query string when one is present, otherwise the JSON body.
// The body is cached under gin.BodyBytesKey so ShouldBindBodyWith can read it again.
func Params(s Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		params, fromQuery, err := readPayload(c)
		if err != nil {
			response.Abort(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "invalid json"}))
			return
		}
		if missing := s.Missing(params); len(missing) > 0 {
			response.Abort(c, response.Error[any](c, http.StatusBadRequest, "payload missing required params", gin.H{
				"message": "payload missing required params",
				"missing": strings.Join(missing, ","),
			}))
			return
		}
		if !s.TypesMatch(params, fromQuery) {
			response.Abort(c, response.Error[any](c, http.StatusBadRequest, "payload type error", gin.H{
				"message":     "payload type error",
				"param_types": s.Types(),
			}))
			return
		}
		c.Set(paramsKey, params)
		c.Next()
	}
}

// ParamsFrom returns the payload accepted by Params.
func ParamsFrom(c *gin.Context) map[string]any {
	if v, ok := c.Get(paramsKey); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// Missing returns the required params absent from params.
func (s Schema) Missing(params map[string]any) []string {
	var out []string
	for _, r := range s {
		if _, ok := params[r.Name]; r.Required && !ok {
			out = append(out, r.Name)
		}
	}
	return out
}

// TypesMatch reports whether every required param has its declared type.
// Query values are strings and match when they parse as the declared type.
func (s Schema) TypesMatch(params map[string]any, fromQuery bool) bool {
	for _, r := range s {
		if !r.Required {
			continue
		}
		v, ok := params[r.Name]
		if !ok {
			continue
		}
		if fromQuery {
			if !queryMatches(r.Type, v) {
				return false
			}
			continue
		}
		if !jsonMatches(r.Type, v) {
			return false
		}
	}
	return true
}

// Types maps every param to its declared type.
func (s Schema) Types() map[string]Type {
	out := make(map[string]Type, len(s))
	for _, r := range s {
		out[r.Name] = r.Type
	}
	return out
}

func jsonMatches(t Type, v any) bool {
	switch t {
	case String:
		_, ok := v.(string)
		return ok
	case Integer:
		n, ok := v.(json.Number)
		if !ok {
			return false
		}
		_, err := strconv.ParseInt(n.String(), 10, 64)
		return err == nil
	case Boolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}

func queryMatches(t Type, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch t {
	case String:
		return true
	case Integer:
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	case Boolean:
		_, err := strconv.ParseBool(s)
		return err == nil
	}
	return false
}

func readPayload(c *gin.Context) (map[string]any, bool, error) {
	if q := c.Request.URL.Query(); len(q) > 0 {
		out := make(map[string]any, len(q))
		for k, vs := range q {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
		return out, true, nil
	}

	body, err := cachedBody(c)
	if err != nil {
		return nil, false, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, false, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, false, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, false, nil
}

func cachedBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Set(gin.BodyBytesKey, b)
	return b, nil
}
