package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type doseInput struct {
	Date *string `json:"first_doze_date" binding:"omitempty,isodate"`
	Age  *int    `json:"age" binding:"omitempty,min=0"`
}

func TestToDetails(t *testing.T) {
	Init()

	date, age := "01-03-2021", -1
	err := binding.Validator.ValidateStruct(&doseInput{Date: &date, Age: &age})
	details := ToDetails(err)
	assert.Equal(t, "must be a date (YYYY-MM-DD)", details["first_doze_date"])
	assert.Equal(t, "must be at least 0", details["age"])

	ok := "2021-03-01"
	assert.NoError(t, binding.Validator.ValidateStruct(&doseInput{Date: &ok}))

	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))

	var syntax doseInput
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(json.Unmarshal([]byte(`{`), &syntax)))
}

func TestToDetails_FieldType(t *testing.T) {
	var in doseInput
	err := json.Unmarshal([]byte(`{"age":"old"}`), &in)
	assert.Equal(t, map[string]string{"age": "must be a number"}, ToDetails(err))
}
